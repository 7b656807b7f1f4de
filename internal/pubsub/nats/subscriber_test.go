package nats_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/do"
	"github.com/samber/lo"
	"github.com/zhulik/natsinvoker/internal/config"
	"github.com/zhulik/natsinvoker/internal/core"
	"github.com/zhulik/natsinvoker/internal/pubsub/nats"
	"github.com/zhulik/natsinvoker/testhelpers"
	"go.uber.org/atomic"
)

const (
	subject      = "invoker.test"
	messageCount = 20
	nextTimeout  = 2 * time.Second
)

func drain(sub core.Subscription, counter *atomic.Int64) {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		_, err := sub.Next(ctx)

		cancel()

		if err != nil {
			return
		}

		counter.Inc()
	}
}

var _ = Describe("Subscriber", Ordered, func() {
	var (
		client     *nats.Client
		subscriber *nats.Subscriber
	)

	BeforeAll(func() {
		srv := testhelpers.RunNATSServer()
		DeferCleanup(srv.Shutdown)

		injector, _ := testhelpers.NewInjector(config.Config{NATSURL: srv.ClientURL()})
		do.Provide(injector, nats.NewClient)

		client = do.MustInvoke[*nats.Client](injector)
		subscriber = lo.Must(nats.NewSubscriber(injector))

		DeferCleanup(client.Shutdown)
	})

	publish := func(count int) {
		for i := 0; i < count; i++ {
			lo.Must0(client.Nats.Publish(subject, []byte(fmt.Sprintf("message-%d", i))))
		}

		lo.Must0(client.Nats.Flush())
	}

	Describe("HealthCheck", func() {
		It("succeeds while connected", func() {
			Expect(subscriber.HealthCheck()).To(Succeed())
		})
	})

	Describe("Subscribe", func() {
		It("receives published messages", func(ctx SpecContext) {
			sub := lo.Must(subscriber.Subscribe(subject))
			DeferCleanup(sub.Unsubscribe)

			Expect(sub.Subject()).To(Equal(subject))
			Expect(sub.Queue()).To(BeEmpty())

			publish(1)

			nextCtx, cancel := context.WithTimeout(ctx, nextTimeout)
			defer cancel()

			msg, err := sub.Next(nextCtx)

			Expect(err).ToNot(HaveOccurred())
			Expect(msg.Subject()).To(Equal(subject))
			Expect(msg.Data()).To(Equal([]byte("message-0")))
		})

		It("delivers every message to every plain subscriber", func() {
			first := lo.Must(subscriber.Subscribe(subject))
			second := lo.Must(subscriber.Subscribe(subject))
			DeferCleanup(first.Unsubscribe)
			DeferCleanup(second.Unsubscribe)

			publish(messageCount)

			firstCount, secondCount := atomic.NewInt64(0), atomic.NewInt64(0)
			drain(first, firstCount)
			drain(second, secondCount)

			Expect(firstCount.Load()).To(BeEquivalentTo(messageCount))
			Expect(secondCount.Load()).To(BeEquivalentTo(messageCount))
		})

		It("returns ErrSubscriptionClosed after unsubscribing", func(ctx SpecContext) {
			sub := lo.Must(subscriber.Subscribe(subject))

			Expect(sub.Unsubscribe()).To(Succeed())
			Expect(sub.Unsubscribe()).To(Succeed())

			_, err := sub.Next(ctx)

			Expect(err).To(MatchError(core.ErrSubscriptionClosed))
		})

		It("respects context cancellation", func(ctx SpecContext) {
			sub := lo.Must(subscriber.Subscribe(subject))
			DeferCleanup(sub.Unsubscribe)

			nextCtx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := sub.Next(nextCtx)

			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("QueueSubscribe", func() {
		It("load-shares messages between the members of the group", func() {
			first := lo.Must(subscriber.QueueSubscribe(subject, "workers"))
			second := lo.Must(subscriber.QueueSubscribe(subject, "workers"))
			DeferCleanup(first.Unsubscribe)
			DeferCleanup(second.Unsubscribe)

			Expect(first.Queue()).To(Equal("workers"))

			publish(messageCount)

			total := atomic.NewInt64(0)
			drain(first, total)
			drain(second, total)

			Expect(total.Load()).To(BeEquivalentTo(messageCount))
		})
	})
})

var _ = Describe("Subscriber when the connection is closed", func() {
	It("ends the subscription and fails health checks", func(ctx SpecContext) {
		srv := testhelpers.RunNATSServer()
		DeferCleanup(srv.Shutdown)

		injector, _ := testhelpers.NewInjector(config.Config{NATSURL: srv.ClientURL()})
		do.Provide(injector, nats.NewClient)

		client := do.MustInvoke[*nats.Client](injector)
		subscriber := lo.Must(nats.NewSubscriber(injector))

		sub := lo.Must(subscriber.Subscribe(subject))

		Expect(client.Shutdown()).To(Succeed())

		_, err := sub.Next(ctx)

		Expect(err).To(MatchError(core.ErrSubscriptionClosed))
		Expect(subscriber.HealthCheck()).To(MatchError(nats.ErrNotConnected))
	})
})
