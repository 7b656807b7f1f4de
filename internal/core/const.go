package core

import (
	"time"
)

const (
	ComponentNameInvoker = "invoker"

	LinkValueSubject = "subject"
	LinkValueQueue   = "queue"

	DefaultSubject       = "invoker.messages"
	DefaultLatticePrefix = "default"
	DefaultMaxInFlight   = 256
	DefaultRPCTimeout    = 2 * time.Second
)

type SubjectName = string

const (
	RPCSubjectBase SubjectName = "wasmbus.rpc"
)
