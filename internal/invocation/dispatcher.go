package invocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/zhulik/natsinvoker/internal/core"
	"github.com/zhulik/natsinvoker/internal/pubsub/nats"
	"github.com/zhulik/natsinvoker/pkg/json"
)

// Invocation is the envelope sent to the target over the lattice RPC subject.
type Invocation struct {
	ID        string      `json:"id"`
	Origin    core.Entity `json:"origin"`
	Target    core.Entity `json:"target"`
	Operation string      `json:"operation"`
	Msg       []byte      `json:"msg"`
	HostID    string      `json:"host_id"`
}

type InvocationResponse struct {
	InvocationID string `json:"invocation_id"`
	Msg          []byte `json:"msg"`
	Error        string `json:"error,omitempty"`
}

func NewDispatcher(injector *do.Injector) (*Dispatcher, error) {
	logger, err := do.Invoke[logrus.FieldLogger](injector)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "invocation.Dispatcher")

	config, err := do.Invoke[core.Config](injector)
	if err != nil {
		return nil, err
	}

	natsClient, err := do.Invoke[*nats.Client](injector)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		nats:          natsClient,
		logger:        logger,
		hostID:        config.HostID(),
		latticePrefix: config.LatticePrefix(),
		timeout:       config.RPCTimeout(),
	}, nil
}

// Dispatcher performs invocations over NATS request/reply. It owns the timeout policy of a call.
type Dispatcher struct {
	nats   *nats.Client
	logger logrus.FieldLogger

	hostID        string
	latticePrefix string
	timeout       time.Duration
}

func (d Dispatcher) HealthCheck() error {
	err := d.nats.HealthCheck()
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}

	return nil
}

func (d Dispatcher) Shutdown() error {
	return nil
}

func (d Dispatcher) SubjectName(target core.Entity) string {
	return RPCSubjectName(d.latticePrefix, target.PublicID)
}

func RPCSubjectName(latticePrefix, publicID string) string {
	return fmt.Sprintf("%s.%s.%s", core.RPCSubjectBase, latticePrefix, publicID)
}

func (d Dispatcher) Send(ctx context.Context, origin, target core.Entity, operation string, payload []byte) ([]byte, error) { //nolint:lll
	invocation := Invocation{
		ID:        uuid.NewString(),
		Origin:    origin,
		Target:    target,
		Operation: operation,
		Msg:       payload,
		HostID:    d.hostID,
	}

	data, err := json.Marshal(invocation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invocation: %w", err)
	}

	subject := d.SubjectName(target)

	logger := d.logger.WithFields(logrus.Fields{
		"invocationID": invocation.ID,
		"operation":    operation,
		"target":       target.PublicID,
		"subject":      subject,
	})

	logger.Debug("Invoking...")

	requestCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	reply, err := d.nats.Nats.RequestWithContext(requestCtx, subject, data)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s: %w", core.ErrDispatch, d.timeout, err)
		}

		return nil, fmt.Errorf("%w: request failed: %w", core.ErrDispatch, err)
	}

	response, err := json.Unmarshal[InvocationResponse](reply.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: bad response: %w", core.ErrDispatch, err)
	}

	if response.Error != "" {
		return nil, fmt.Errorf("%w: %s", core.ErrDispatch, response.Error)
	}

	return response.Msg, nil
}
