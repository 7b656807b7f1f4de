package core

import (
	"errors"
)

var (
	// Decoding errors.
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrMalformedPayload  = errors.New("malformed payload")

	// Broker errors.
	ErrSubscribe          = errors.New("failed to subscribe")
	ErrSubscriptionClosed = errors.New("subscription closed")
	ErrListenerStopped    = errors.New("listener stopped")

	// Invocation errors.
	ErrDispatch = errors.New("invocation failed")
)
