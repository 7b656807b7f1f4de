package utils

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

var ErrPanicked = errors.New("panic")

func Try[T any](fun func() (T, error)) (res T, err error) { //nolint:nonamedreturns
	defer func() {
		if r := recover(); r != nil {
			res = lo.Empty[T]()
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()

	return fun()
}

func Try0(fun func() error) error {
	_, err := Try(func() (struct{}, error) {
		return struct{}{}, fun()
	})

	return err
}
