package logging

import (
	"fmt"

	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/zhulik/natsinvoker/internal/core"
)

func Register(injector *do.Injector) {
	do.Provide(injector, func(injector *do.Injector) (logrus.FieldLogger, error) {
		config, err := do.Invoke[core.Config](injector)
		if err != nil {
			return nil, err
		}

		logger, err := New(config.LogLevel())
		if err != nil {
			return nil, err
		}

		return logger, nil
	})
}

func New(level string) (*logrus.Logger, error) {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed parse loglevel: %w", err)
	}

	logger.SetLevel(logLevel)

	return logger, nil
}
