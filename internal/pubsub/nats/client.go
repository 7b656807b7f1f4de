package nats

import (
	"errors"
	"fmt"

	libNats "github.com/nats-io/nats.go"
	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/zhulik/natsinvoker/internal/core"
)

var ErrNotConnected = errors.New("not connected")

func NewClient(injector *do.Injector) (*Client, error) {
	config, err := do.Invoke[core.Config](injector)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "pubsub.nats.Client")

	natsClient, err := libNats.Connect(config.NatsURL(),
		libNats.Name(core.ComponentNameInvoker),
		libNats.MaxReconnects(-1),
		libNats.DisconnectErrHandler(func(_ *libNats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("NATS disconnected")
			}
		}),
		libNats.ReconnectHandler(func(conn *libNats.Conn) {
			logger.WithField("url", conn.ConnectedUrl()).Info("NATS reconnected")
		}),
		libNats.ErrorHandler(func(_ *libNats.Conn, sub *libNats.Subscription, err error) {
			entry := logger.WithError(err)
			if sub != nil {
				entry = entry.WithField("subject", sub.Subject)
			}

			entry.Error("NATS async error")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS client: %w", err)
	}

	logger.WithField("url", natsClient.ConnectedUrl()).Info("Connected to NATS")

	return &Client{
		Nats: natsClient,
	}, nil
}

type Client struct {
	Nats *libNats.Conn
}

func (c Client) HealthCheck() error {
	if !c.Nats.IsConnected() {
		return fmt.Errorf("healthcheck failed: %w: %s", ErrNotConnected, c.Nats.Status())
	}

	_, err := c.Nats.GetClientID()
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}

	return nil
}

func (c Client) Shutdown() error {
	c.Nats.Close()

	return nil
}
