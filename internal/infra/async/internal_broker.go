package async

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type Topic string

type Message struct {
	Event string
	Value any
	Span  trace.Span
}

type Broker interface {
	Subscribe(topic Topic) (Subscription, error)
	Unsubscribe(topic Topic, subscription Subscription) error
	Publish(ctx context.Context, topic Topic, msg Message) error
	Stop()
}

var ErrTopicNotFound = errors.New("topic not found")
var ErrSubscriberNotFound = errors.New("subscriber not found")

var _ Broker = (*MemoryBroker)(nil)

// MemoryBroker is an in-process fan-out broker. Publish never blocks the
// caller; delivery to each subscription happens on a dedicated goroutine.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{}
}

type MemoryBroker struct {
	subscribers sync.Map
	// mu serializes the load-modify-store on a topic's subscriber slice.
	// Publish still reads lock-free through the sync.Map.
	mu sync.Mutex
}

type subscriber struct {
	once         sync.Once
	active       bool
	subscription Subscription
}

type Subscription struct {
	ID       string
	Receiver chan Message
}

func (b *MemoryBroker) Subscribe(topic Topic) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var subscribers []*subscriber
	value, ok := b.subscribers.Load(topic)
	if ok {
		subscribers = value.([]*subscriber)
	}

	subscription := Subscription{
		ID:       uuid.NewString(),
		Receiver: make(chan Message, 1),
	}
	subscribers = append(slices.Clone(subscribers), &subscriber{subscription: subscription, active: true})
	b.subscribers.Store(topic, subscribers)
	return subscription, nil
}

func (b *MemoryBroker) Unsubscribe(topic Topic, subscription Subscription) error {
	value, ok := b.subscribers.Load(topic)
	if !ok {
		return ErrTopicNotFound
	}

	subscribers := value.([]*subscriber)
	index := slices.IndexFunc(subscribers, func(s *subscriber) bool { return s.subscription.ID == subscription.ID })
	if index < 0 {
		return ErrSubscriberNotFound
	}

	subscribers[index].safeClose()
	return nil
}

func (b *MemoryBroker) Publish(ctx context.Context, topic Topic, msg Message) error {
	msg.Span = trace.SpanFromContext(ctx)
	value, ok := b.subscribers.Load(topic)
	if !ok {
		return ErrTopicNotFound
	}

	go b.fanOut(value.([]*subscriber), msg)
	return nil
}

func (b *MemoryBroker) fanOut(subscribers []*subscriber, msg Message) {
	for _, s := range subscribers {
		if s.active {
			s.subscription.Receiver <- msg
		}
	}
}

func (b *MemoryBroker) Stop() {
	b.subscribers.Range(func(_, value any) bool {
		for _, s := range value.([]*subscriber) {
			s.safeClose()
		}
		return true
	})
}

func (s *subscriber) safeClose() {
	s.once.Do(func() {
		s.active = false
		close(s.subscription.Receiver)
	})
}
