package utils_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/zhulik/natsinvoker/pkg/utils"
)

var errTest = errors.New("test error")

var _ = Describe("Try", func() {
	It("returns the result when the function succeeds", func() {
		res, err := utils.Try(func() (int, error) { return 42, nil })

		Expect(err).ToNot(HaveOccurred())
		Expect(res).To(Equal(42))
	})

	It("returns the error of the function", func() {
		_, err := utils.Try(func() (int, error) { return 0, errTest })

		Expect(err).To(MatchError(errTest))
	})

	It("converts panics to errors", func() {
		res, err := utils.Try(func() (int, error) { panic("boom") })

		Expect(err).To(MatchError(utils.ErrPanicked))
		Expect(err.Error()).To(ContainSubstring("boom"))
		Expect(res).To(BeZero())
	})
})

var _ = Describe("Try0", func() {
	It("passes the error through", func() {
		Expect(utils.Try0(func() error { return errTest })).To(MatchError(errTest))
		Expect(utils.Try0(func() error { return nil })).To(Succeed())
	})

	It("converts panics to errors", func() {
		Expect(utils.Try0(func() error { panic("boom") })).To(MatchError(utils.ErrPanicked))
	})
})
