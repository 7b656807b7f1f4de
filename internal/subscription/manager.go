// Package subscription opens broker subscriptions and turns every received message into an invocation.
package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/zhulik/natsinvoker/internal/core"
	"github.com/zhulik/natsinvoker/internal/decoder"
	"github.com/zhulik/natsinvoker/pkg/utils"
	"golang.org/x/sync/semaphore"
)

type Manager struct {
	broker     core.Broker
	dispatcher core.Dispatcher
	logger     logrus.FieldLogger

	providerID  string
	maxInFlight int
}

func NewManager(injector *do.Injector) (*Manager, error) {
	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "subscription.Manager")

	config, err := do.Invoke[core.Config](injector)
	if err != nil {
		return nil, err
	}

	broker, err := do.Invoke[core.Broker](injector)
	if err != nil {
		return nil, err
	}

	dispatcher, err := do.Invoke[core.Dispatcher](injector)
	if err != nil {
		return nil, err
	}

	return &Manager{
		broker:      broker,
		dispatcher:  dispatcher,
		logger:      logger,
		providerID:  config.ProviderID(),
		maxInFlight: config.MaxInFlight(),
	}, nil
}

// Subscribe opens a fan-out subscription when queue is empty, a queue group one otherwise,
// and starts listening on it. ctx only scopes the subscribe call, the listener lives until
// the returned handle is cancelled or the subscription ends.
func (m *Manager) Subscribe(ctx context.Context, link core.LinkDefinition, subject, queue string) (*Handle, error) {
	var (
		sub core.Subscription
		err error
	)

	if queue == "" {
		sub, err = m.broker.Subscribe(subject)
	} else {
		sub, err = m.broker.QueueSubscribe(subject, queue)
	}

	if err != nil {
		if errors.Is(err, core.ErrSubscribe) {
			return nil, err //nolint:wrapcheck
		}

		return nil, fmt.Errorf("%w: %w", core.ErrSubscribe, err)
	}

	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	handle := &Handle{
		LinkID:       link.ID,
		ActorID:      link.ActorID,
		subscription: sub,
		cancel:       cancel,
		done:         make(chan struct{}),
	}

	m.logger.WithFields(logrus.Fields{
		"subject": subject,
		"queue":   queue,
		"linkID":  link.ID,
		"actorID": link.ActorID,
	}).Info("Spawning listener for link")

	go m.listen(listenCtx, handle, link)

	return handle, nil
}

func (m *Manager) listen(ctx context.Context, handle *Handle, link core.LinkDefinition) {
	defer close(handle.done)

	logger := m.logger.WithFields(logrus.Fields{
		"subject": handle.Subject(),
		"queue":   handle.Queue(),
	})

	defer func() {
		if err := handle.subscription.Unsubscribe(); err != nil {
			logger.WithError(err).Warn("Failed to unsubscribe")
		}
	}()

	var inFlight *semaphore.Weighted
	if m.maxInFlight > 0 {
		inFlight = semaphore.NewWeighted(int64(m.maxInFlight))
	}

	for {
		msg, err := handle.subscription.Next(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				logger.Info("Listener stopped")
			case errors.Is(err, core.ErrSubscriptionClosed):
				logger.Info("Subscription ended")
			default:
				logger.WithError(err).Error("Listener failed")
			}

			return
		}

		logger.WithFields(logrus.Fields{
			"actorID": link.ActorID,
			"size":    len(msg.Data()),
		}).Debug("Received message")

		if inFlight != nil {
			if err := inFlight.Acquire(ctx, 1); err != nil {
				logger.Info("Listener stopped")

				return
			}
		}

		go func() {
			if inFlight != nil {
				defer inFlight.Release(1)
			}

			m.run(ctx, &link, msg.Data())
		}()
	}
}

func (m *Manager) run(ctx context.Context, link *core.LinkDefinition, body []byte) {
	err := utils.Try0(func() error {
		return m.Process(ctx, link, body)
	})
	if errors.Is(err, utils.ErrPanicked) {
		m.logger.WithError(err).Error("Message handling panicked")
	}
}

// Process decodes body and dispatches the invocation. Origin is addressed with the link's
// provider id, link name and contract, or with the configured provider id and the message's
// own link name and contract when link is nil. Failures are logged and returned.
func (m *Manager) Process(ctx context.Context, link *core.LinkDefinition, body []byte) error {
	invocation, err := decoder.Decode(body)
	if err != nil {
		m.logger.WithError(err).Error("Failed to decode message")

		return err //nolint:wrapcheck
	}

	origin := core.Entity{
		PublicID:   m.providerID,
		LinkName:   invocation.LinkName,
		ContractID: invocation.ContractID,
	}

	if link != nil {
		origin.LinkName = link.LinkName
		origin.ContractID = link.ContractID

		if link.ProviderID != "" {
			origin.PublicID = link.ProviderID
		}
	}

	target := core.Entity{
		PublicID: invocation.ActorID,
	}

	logger := m.logger.WithFields(logrus.Fields{
		"actorID":   invocation.ActorID,
		"operation": invocation.Operation,
	})

	response, err := m.dispatcher.Send(ctx, origin, target, invocation.Operation, invocation.Payload)
	if err != nil {
		logger.WithError(err).Error("Invocation failed")

		return fmt.Errorf("failed to dispatch: %w", err)
	}

	logger.WithField("responseSize", len(response)).Info("Received invocation response")

	return nil
}
