package pubsub

import (
	"github.com/samber/do"
	"github.com/zhulik/natsinvoker/internal/core"
	"github.com/zhulik/natsinvoker/internal/pubsub/nats"
)

func Register(injector *do.Injector) {
	do.Provide(injector, nats.NewClient)
	do.Provide(injector, func(injector *do.Injector) (core.Broker, error) {
		return nats.NewSubscriber(injector)
	})
}
