package core

// Entity addresses an origin or a target on the invocation transport.
type Entity struct {
	PublicID   string `json:"public_id"`
	LinkName   string `json:"link_name"`
	ContractID string `json:"contract_id"`
}

// LinkDefinition is a configured relationship between the provider and an actor.
type LinkDefinition struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id"`
	ProviderID string            `json:"provider_id"`
	LinkName   string            `json:"link_name"`
	ContractID string            `json:"contract_id"`
	Values     map[string]string `json:"values,omitempty"`
}

// Value returns the binding value stored under key or fallback if it is absent or empty.
func (l LinkDefinition) Value(key, fallback string) string {
	if v := l.Values[key]; v != "" {
		return v
	}

	return fallback
}

type InvokeMessage struct {
	ActorID    string `json:"actor_id"`
	LinkName   string `json:"link_name"`
	ContractID string `json:"contract_id"`
	Operation  string `json:"operation"`
	PayloadB64 string `json:"payload_b64"`
}

// Invocation is an InvokeMessage with its payload decoded.
type Invocation struct {
	InvokeMessage

	Payload []byte
}
