package nats

import (
	"fmt"

	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/zhulik/natsinvoker/internal/core"
)

// Subscriber opens core NATS subscriptions, plain ones fan out to every subscriber,
// queue ones are load-shared between the members of the group.
type Subscriber struct {
	nats *Client

	logger logrus.FieldLogger
}

func NewSubscriber(injector *do.Injector) (*Subscriber, error) {
	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "pubsub.nats.Subscriber")

	natsClient, err := do.Invoke[*Client](injector)
	if err != nil {
		return nil, err
	}

	return &Subscriber{
		nats:   natsClient,
		logger: logger,
	}, nil
}

func (s Subscriber) HealthCheck() error {
	s.logger.Debug("Subscriber health check...")

	err := s.nats.HealthCheck()
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}

	return nil
}

func (s Subscriber) Shutdown() error {
	return nil
}

func (s Subscriber) Subscribe(subject string) (core.Subscription, error) { //nolint:ireturn
	sub, err := s.nats.Nats.SubscribeSync(subject)
	if err != nil {
		return nil, fmt.Errorf("%w to %s: %w", core.ErrSubscribe, subject, err)
	}

	s.logger.WithField("subject", subject).Info("Subscribed")

	return newSubscriptionWrapper(sub, s.logger), nil
}

func (s Subscriber) QueueSubscribe(subject, queue string) (core.Subscription, error) { //nolint:ireturn
	sub, err := s.nats.Nats.QueueSubscribeSync(subject, queue)
	if err != nil {
		return nil, fmt.Errorf("%w to %s (queue %s): %w", core.ErrSubscribe, subject, queue, err)
	}

	s.logger.WithFields(logrus.Fields{
		"subject": subject,
		"queue":   queue,
	}).Info("Subscribed")

	return newSubscriptionWrapper(sub, s.logger), nil
}
