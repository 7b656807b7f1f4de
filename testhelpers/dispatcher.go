package testhelpers

import (
	"context"
	"sync"

	"github.com/zhulik/natsinvoker/internal/core"
)

type Call struct {
	Origin    core.Entity
	Target    core.Entity
	Operation string
	Payload   []byte
}

// FakeDispatcher records calls. When Block is set, Send waits until it is closed or ctx is done.
type FakeDispatcher struct {
	mu    sync.Mutex
	calls []Call

	Err      error
	Response []byte
	Block    chan struct{}
	Panic    bool

	inFlight    int
	maxInFlight int
}

func NewFakeDispatcher() *FakeDispatcher {
	return &FakeDispatcher{}
}

func (d *FakeDispatcher) HealthCheck() error {
	return nil
}

func (d *FakeDispatcher) Shutdown() error {
	return nil
}

func (d *FakeDispatcher) Send(ctx context.Context, origin, target core.Entity, operation string, payload []byte) ([]byte, error) { //nolint:lll
	d.mu.Lock()
	d.calls = append(d.calls, Call{
		Origin:    origin,
		Target:    target,
		Operation: operation,
		Payload:   payload,
	})
	d.inFlight++
	d.maxInFlight = max(d.maxInFlight, d.inFlight)
	block := d.Block
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inFlight--
		d.mu.Unlock()
	}()

	if d.Panic {
		panic("dispatcher panicked")
	}

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err() //nolint:wrapcheck
		}
	}

	return d.Response, d.Err
}

func (d *FakeDispatcher) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Call(nil), d.calls...)
}

func (d *FakeDispatcher) MaxInFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.maxInFlight
}

func (d *FakeDispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.inFlight
}
