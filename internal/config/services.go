package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/samber/do"
	"github.com/zhulik/natsinvoker/internal/core"
)

func Parse() (Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func Register(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (core.Config, error) {
		return Parse()
	})
}
