package core

import (
	"context"
	"time"

	"github.com/samber/do"
)

type ServiceDependency interface {
	do.Healthcheckable
	do.Shutdownable
}

type Config interface {
	HTTPPort() int

	ProviderID() string
	HostID() string
	LatticePrefix() string

	NatsURL() string
	LogLevel() string

	Subject() string
	Queue() string
	MaxInFlight() int
	RPCTimeout() time.Duration
}

// Message is a message received from the broker.
type Message interface {
	Subject() string
	Data() []byte
}

type Subscription interface {
	Subject() string
	Queue() string

	// Next blocks until a message arrives. Returns ErrSubscriptionClosed when the
	// underlying stream ends.
	Next(ctx context.Context) (Message, error)
	Unsubscribe() error
}

type Broker interface {
	ServiceDependency

	Subscribe(subject string) (Subscription, error)
	QueueSubscribe(subject, queue string) (Subscription, error)
}

type Dispatcher interface {
	ServiceDependency

	Send(ctx context.Context, origin, target Entity, operation string, payload []byte) ([]byte, error)
}

// Provider is the control surface exposed to the hosting environment.
type Provider interface {
	ServiceDependency

	PutLink(ctx context.Context, link LinkDefinition) bool
	DeleteLink(ctx context.Context, actorID string)
	HandleMessage(ctx context.Context, body []byte)
}
