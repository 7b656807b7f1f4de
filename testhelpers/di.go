package testhelpers

import (
	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/zhulik/natsinvoker/internal/config"
	"github.com/zhulik/natsinvoker/internal/core"
)

const ProviderID = "provider-id"

// NewInjector returns an injector with a config and a logger whose entries are captured by the returned hook.
func NewInjector(cfg config.Config) (*do.Injector, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	if cfg.ProviderID_ == "" {
		cfg.ProviderID_ = ProviderID
	}

	injector := do.New()
	do.ProvideValue[logrus.FieldLogger](injector, logger)
	do.ProvideValue[core.Config](injector, cfg)

	return injector, hook
}

// NewFakeInjector returns an injector wired with a fake broker and a fake dispatcher.
func NewFakeInjector(cfg config.Config) (*do.Injector, *test.Hook, *FakeBroker, *FakeDispatcher) {
	injector, hook := NewInjector(cfg)

	broker := NewFakeBroker()
	dispatcher := NewFakeDispatcher()

	do.ProvideValue[core.Broker](injector, broker)
	do.ProvideValue[core.Dispatcher](injector, dispatcher)

	return injector, hook, broker, dispatcher
}
