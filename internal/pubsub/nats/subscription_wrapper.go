package nats

import (
	"context"
	"errors"
	"fmt"

	libNats "github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/zhulik/natsinvoker/internal/core"
)

type subscriptionWrapper struct {
	sub    *libNats.Subscription
	logger logrus.FieldLogger
}

func newSubscriptionWrapper(sub *libNats.Subscription, logger logrus.FieldLogger) subscriptionWrapper {
	return subscriptionWrapper{
		sub: sub,
		logger: logger.WithFields(logrus.Fields{
			"subject": sub.Subject,
			"queue":   sub.Queue,
		}),
	}
}

func (s subscriptionWrapper) Subject() string {
	return s.sub.Subject
}

func (s subscriptionWrapper) Queue() string {
	return s.sub.Queue
}

func (s subscriptionWrapper) Next(ctx context.Context) (core.Message, error) { //nolint:ireturn
	for {
		msg, err := s.sub.NextMsgWithContext(ctx)
		if err == nil {
			return messageWrapper{msg}, nil
		}

		switch {
		case errors.Is(err, libNats.ErrSlowConsumer):
			// Messages were dropped by the client, the subscription itself is still usable.
			s.logger.WithError(err).Warn("Slow consumer, messages dropped")

			continue
		case errors.Is(err, libNats.ErrBadSubscription), errors.Is(err, libNats.ErrConnectionClosed):
			return nil, fmt.Errorf("%w: %w", core.ErrSubscriptionClosed, err)
		default:
			return nil, fmt.Errorf("failed to receive message: %w", err)
		}
	}
}

func (s subscriptionWrapper) Unsubscribe() error {
	if !s.sub.IsValid() {
		return nil
	}

	err := s.sub.Unsubscribe()
	if err != nil && !errors.Is(err, libNats.ErrBadSubscription) && !errors.Is(err, libNats.ErrConnectionClosed) {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	s.logger.Info("Subscription stopped")

	return nil
}
