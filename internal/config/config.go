package config

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/zhulik/natsinvoker/internal/core"
)

type Config struct {
	HttpPort int `env:"HTTP_PORT" envDefault:"8180"` //nolint:stylecheck

	ProviderID_    string        `env:"PROVIDER_ID"`
	HostID_        string        `env:"HOST_ID"`
	LatticePrefix_ string        `env:"LATTICE_PREFIX" envDefault:"default"`
	NATSURL        string        `env:"NATS_URL"`
	Loglevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	Subject_       string        `env:"SUBJECT" envDefault:"invoker.messages"`
	Queue_         string        `env:"QUEUE"`
	MaxInFlight_   int           `env:"MAX_IN_FLIGHT" envDefault:"256"`
	RPCTimeout_    time.Duration `env:"RPC_TIMEOUT" envDefault:"2s"`
}

func (c Config) HTTPPort() int {
	return c.HttpPort
}

func (c Config) ProviderID() string {
	return c.ProviderID_
}

func (c Config) HostID() string {
	return c.HostID_
}

func (c Config) LatticePrefix() string {
	if c.LatticePrefix_ == "" {
		return core.DefaultLatticePrefix
	}

	return c.LatticePrefix_
}

func (c Config) NatsURL() string {
	if c.NATSURL == "" {
		return nats.DefaultURL
	}

	return c.NATSURL
}

func (c Config) LogLevel() string {
	if c.Loglevel == "" {
		return "info"
	}

	return c.Loglevel
}

func (c Config) Subject() string {
	if c.Subject_ == "" {
		return core.DefaultSubject
	}

	return c.Subject_
}

func (c Config) Queue() string {
	return c.Queue_
}

// MaxInFlight returns the per-subscription limit of concurrently handled messages, 0 means unbounded.
func (c Config) MaxInFlight() int {
	if c.MaxInFlight_ < 0 {
		return 0
	}

	return c.MaxInFlight_
}

func (c Config) RPCTimeout() time.Duration {
	if c.RPCTimeout_ <= 0 {
		return core.DefaultRPCTimeout
	}

	return c.RPCTimeout_
}
