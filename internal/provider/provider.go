// Package provider implements the link lifecycle of the invoker: it owns the set of active
// subscriptions and reacts to link and shutdown events from the hosting environment.
package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/zhulik/natsinvoker/internal/core"
	"github.com/zhulik/natsinvoker/internal/subscription"
)

type SubscriptionInfo struct {
	Subject string `json:"subject"`
	Queue   string `json:"queue,omitempty"`
	LinkID  string `json:"link_id"`
	ActorID string `json:"actor_id"`

	Listening bool `json:"listening"`
}

type Provider struct {
	manager *subscription.Manager
	broker  core.Broker
	logger  logrus.FieldLogger

	subject string
	queue   string

	// mu guards handles and links. It is held for writing across the activity check and the
	// subscribe call in PutLink so concurrent links never open a second subscription.
	mu      sync.RWMutex
	handles []*subscription.Handle
	links   map[string]core.LinkDefinition
}

func NewProvider(injector *do.Injector) (*Provider, error) {
	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "provider.Provider")

	config, err := do.Invoke[core.Config](injector)
	if err != nil {
		return nil, err
	}

	broker, err := do.Invoke[core.Broker](injector)
	if err != nil {
		return nil, err
	}

	manager, err := do.Invoke[*subscription.Manager](injector)
	if err != nil {
		return nil, err
	}

	return &Provider{
		manager: manager,
		broker:  broker,
		logger:  logger,
		subject: config.Subject(),
		queue:   config.Queue(),
		links:   map[string]core.LinkDefinition{},
	}, nil
}

// PutLink accepts a link. The first accepted link opens the shared subscription, the following
// ones are accepted without creating new resources. Returns false if subscribing failed.
func (p *Provider) PutLink(ctx context.Context, link core.LinkDefinition) bool {
	logger := p.logger.WithFields(logrus.Fields{
		"linkID":  link.ID,
		"actorID": link.ActorID,
	})

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.handles) > 0 {
		p.links[linkKey(link)] = link
		logger.Debug("Already listening, link accepted")

		return true
	}

	subject := link.Value(core.LinkValueSubject, p.subject)
	queue := link.Value(core.LinkValueQueue, p.queue)

	handle, err := p.manager.Subscribe(ctx, link, subject, queue)
	if err != nil {
		logger.WithError(err).Error("Failed to subscribe, link rejected")

		return false
	}

	p.handles = append(p.handles, handle)
	p.links[linkKey(link)] = link

	logger.WithFields(logrus.Fields{
		"subject": subject,
		"queue":   queue,
	}).Info("Link accepted")

	return true
}

// DeleteLink forgets the links of the actor. The shared subscription keeps serving the other links.
func (p *Provider) DeleteLink(_ context.Context, actorID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, link := range p.links {
		if link.ActorID == actorID {
			delete(p.links, key)
		}
	}

	p.logger.WithField("actorID", actorID).Info("Link deleted")
}

// HandleMessage processes a message delivered directly by the host, outside of any subscription.
func (p *Provider) HandleMessage(ctx context.Context, body []byte) {
	_ = p.manager.Process(ctx, nil, body)
}

func (p *Provider) Active() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.handles) > 0
}

func (p *Provider) Subscriptions() []SubscriptionInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Map(p.handles, func(handle *subscription.Handle, _ int) SubscriptionInfo {
		return SubscriptionInfo{
			Subject: handle.Subject(),
			Queue:   handle.Queue(),
			LinkID:  handle.LinkID,
			ActorID: handle.ActorID,

			Listening: handle.Listening(),
		}
	})
}

func (p *Provider) Links() []core.LinkDefinition {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return lo.Values(p.links)
}

// HealthCheck fails when the broker is unhealthy or a registered listener has stopped. A stopped
// listener stays registered until Shutdown, so the instance keeps accepting links without receiving messages.
func (p *Provider) HealthCheck() error {
	err := p.broker.HealthCheck()
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, handle := range p.handles {
		if !handle.Listening() {
			return fmt.Errorf("healthcheck failed: %w on %s", core.ErrListenerStopped, handle.Subject())
		}
	}

	return nil
}

// Shutdown cancels every listener and clears the registry. In-flight handling tasks are abandoned.
func (p *Provider) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, handle := range p.handles {
		handle.Cancel()
	}

	p.logger.WithField("count", len(p.handles)).Info("Subscriptions cleared")

	p.handles = nil
	p.links = map[string]core.LinkDefinition{}

	return nil
}

func linkKey(link core.LinkDefinition) string {
	if link.ID != "" {
		return link.ID
	}

	return fmt.Sprintf("%s/%s/%s", link.ActorID, link.ContractID, link.LinkName)
}
