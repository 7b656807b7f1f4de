package testhelpers

import (
	"context"
	"errors"
	"sync"

	"github.com/zhulik/natsinvoker/internal/core"
)

var ErrBrokerDown = errors.New("broker is down")

type FakeMessage struct {
	Subject_ string //nolint:revive,stylecheck
	Data_    []byte //nolint:revive,stylecheck
}

func (m FakeMessage) Subject() string {
	return m.Subject_
}

func (m FakeMessage) Data() []byte {
	return m.Data_
}

// FakeSubscription delivers messages pushed with Publish. Close ends the stream like a closed connection.
type FakeSubscription struct {
	subject string
	queue   string

	messages chan core.Message
	closed   chan struct{}
	once     sync.Once

	mu           sync.Mutex
	unsubscribed bool
}

func (s *FakeSubscription) Subject() string {
	return s.subject
}

func (s *FakeSubscription) Queue() string {
	return s.queue
}

func (s *FakeSubscription) Next(ctx context.Context) (core.Message, error) { //nolint:ireturn
	select {
	case <-ctx.Done():
		return nil, ctx.Err() //nolint:wrapcheck
	case <-s.closed:
		return nil, core.ErrSubscriptionClosed
	case msg := <-s.messages:
		return msg, nil
	}
}

func (s *FakeSubscription) Unsubscribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unsubscribed = true

	return nil
}

func (s *FakeSubscription) Unsubscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.unsubscribed
}

func (s *FakeSubscription) Publish(data []byte) {
	s.messages <- FakeMessage{Subject_: s.subject, Data_: data}
}

func (s *FakeSubscription) Close() {
	s.once.Do(func() { close(s.closed) })
}

// FakeBroker records which subscribe variant was called.
type FakeBroker struct {
	mu sync.Mutex

	Err error

	Subscriptions      []*FakeSubscription
	PlainSubscribes    int
	QueueSubscribes    int
	HealthCheckErr     error
	SubscribeCallCount int
}

func NewFakeBroker() *FakeBroker {
	return &FakeBroker{}
}

func (b *FakeBroker) HealthCheck() error {
	return b.HealthCheckErr
}

func (b *FakeBroker) Shutdown() error {
	return nil
}

func (b *FakeBroker) Subscribe(subject string) (core.Subscription, error) { //nolint:ireturn
	b.mu.Lock()
	defer b.mu.Unlock()

	b.SubscribeCallCount++

	if b.Err != nil {
		return nil, b.Err
	}

	b.PlainSubscribes++

	return b.newSubscription(subject, ""), nil
}

func (b *FakeBroker) QueueSubscribe(subject, queue string) (core.Subscription, error) { //nolint:ireturn
	b.mu.Lock()
	defer b.mu.Unlock()

	b.SubscribeCallCount++

	if b.Err != nil {
		return nil, b.Err
	}

	b.QueueSubscribes++

	return b.newSubscription(subject, queue), nil
}

func (b *FakeBroker) SetErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Err = err
}

// Last returns the most recently opened subscription.
func (b *FakeBroker) Last() *FakeSubscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.Subscriptions) == 0 {
		return nil
	}

	return b.Subscriptions[len(b.Subscriptions)-1]
}

func (b *FakeBroker) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.Subscriptions)
}

func (b *FakeBroker) Counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.PlainSubscribes, b.QueueSubscribes
}

func (b *FakeBroker) newSubscription(subject, queue string) *FakeSubscription {
	sub := &FakeSubscription{
		subject:  subject,
		queue:    queue,
		messages: make(chan core.Message),
		closed:   make(chan struct{}),
	}

	b.Subscriptions = append(b.Subscriptions, sub)

	return sub
}
