package subscription

import (
	"context"
	"sync"

	"github.com/zhulik/natsinvoker/internal/core"
)

// Handle is an active subscription together with its listener goroutine.
type Handle struct {
	LinkID  string
	ActorID string

	subscription core.Subscription

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (h *Handle) Subject() string {
	return h.subscription.Subject()
}

// Queue returns the queue group name, empty for fan-out subscriptions.
func (h *Handle) Queue() string {
	return h.subscription.Queue()
}

// Done is closed when the listener exits.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Listening reports whether the listener is still receiving messages.
func (h *Handle) Listening() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Cancel stops the listener without waiting for in-flight handling tasks.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
}
