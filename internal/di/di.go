package di

import (
	"github.com/samber/do"
	"github.com/zhulik/natsinvoker/internal/config"
	"github.com/zhulik/natsinvoker/internal/controlserver"
	"github.com/zhulik/natsinvoker/internal/invocation"
	"github.com/zhulik/natsinvoker/internal/logging"
	"github.com/zhulik/natsinvoker/internal/provider"
	"github.com/zhulik/natsinvoker/internal/pubsub"
	"github.com/zhulik/natsinvoker/internal/subscription"
)

func New() *do.Injector {
	injector := do.New()

	config.Register(injector)
	logging.Register(injector)
	pubsub.Register(injector)
	invocation.Register(injector)
	subscription.Register(injector)
	provider.Register(injector)
	controlserver.Register(injector)

	return injector
}
