package nats

import (
	libNats "github.com/nats-io/nats.go"
)

// messageWrapper is a wrapper around nats.Msg to implement core.Message interface.
type messageWrapper struct {
	msg *libNats.Msg
}

func (m messageWrapper) Subject() string {
	return m.msg.Subject
}

func (m messageWrapper) Data() []byte {
	return m.msg.Data
}
