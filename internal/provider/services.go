package provider

import (
	"github.com/samber/do"
	"github.com/zhulik/natsinvoker/internal/core"
)

func Register(injector *do.Injector) {
	do.Provide(injector, NewProvider)
	do.Provide(injector, func(injector *do.Injector) (core.Provider, error) {
		provider, err := do.Invoke[*Provider](injector)
		if err != nil {
			return nil, err
		}

		return provider, nil
	})
}
