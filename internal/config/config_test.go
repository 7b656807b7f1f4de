package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/zhulik/natsinvoker/internal/config"
	"github.com/zhulik/natsinvoker/internal/core"
)

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("Parse", func() {
	Context("when nothing is set", func() {
		It("uses defaults", func() {
			cfg, err := config.Parse()

			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.HTTPPort()).To(Equal(8180))
			Expect(cfg.Subject()).To(Equal(core.DefaultSubject))
			Expect(cfg.Queue()).To(BeEmpty())
			Expect(cfg.MaxInFlight()).To(Equal(core.DefaultMaxInFlight))
			Expect(cfg.RPCTimeout()).To(Equal(core.DefaultRPCTimeout))
			Expect(cfg.LatticePrefix()).To(Equal(core.DefaultLatticePrefix))
			Expect(cfg.NatsURL()).To(Equal("nats://127.0.0.1:4222"))
			Expect(cfg.LogLevel()).To(Equal("info"))
		})
	})

	Context("when variables are set", func() {
		It("reads them", func() {
			setenv("PROVIDER_ID", "provider")
			setenv("SUBJECT", "custom.subject")
			setenv("QUEUE", "workers")
			setenv("MAX_IN_FLIGHT", "0")
			setenv("RPC_TIMEOUT", "5s")
			setenv("NATS_URL", "nats://nats:4222")

			cfg, err := config.Parse()

			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.ProviderID()).To(Equal("provider"))
			Expect(cfg.Subject()).To(Equal("custom.subject"))
			Expect(cfg.Queue()).To(Equal("workers"))
			Expect(cfg.MaxInFlight()).To(Equal(0))
			Expect(cfg.RPCTimeout()).To(Equal(5 * time.Second))
			Expect(cfg.NatsURL()).To(Equal("nats://nats:4222"))
		})
	})

	Context("when a variable is malformed", func() {
		It("returns an error", func() {
			setenv("MAX_IN_FLIGHT", "many")

			_, err := config.Parse()

			Expect(err).To(HaveOccurred())
		})
	})
})
