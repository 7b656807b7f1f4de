package invocation

import (
	"github.com/samber/do"
	"github.com/zhulik/natsinvoker/internal/core"
)

func Register(injector *do.Injector) {
	do.Provide(injector, func(injector *do.Injector) (core.Dispatcher, error) {
		return NewDispatcher(injector)
	})
}
