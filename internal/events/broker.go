package events

import (
	"log/slog"
	"sync"
)

type Handler func(Event)

// Subscription identifies a registered handler. The zero value is not a
// valid subscription.
type Subscription struct {
	id       uint64
	kind     Kind
	wildcard bool
}

// Broker delivers events synchronously, in registration order, first to
// the handlers of the exact kind and then to wildcard handlers. There is
// no queue and no replay: a handler registered after a publish never sees
// it. The broker exclusively owns the subscriber lists.
type Broker struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[Kind][]subscriber
	wild   []subscriber
}

type subscriber struct {
	id uint64
	fn Handler
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		logger: logger.With(slog.String("component", "broker")),
		subs:   make(map[Kind][]subscriber),
	}
}

func (b *Broker) Subscribe(kind Kind, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[kind] = append(b.subs[kind], subscriber{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID, kind: kind}
}

// SubscribeAll registers a handler for every event regardless of kind;
// the kind travels inside the event itself.
func (b *Broker) SubscribeAll(fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.wild = append(b.wild, subscriber{id: b.nextID, fn: fn})
	return Subscription{id: b.nextID, wildcard: true}
}

// Unsubscribe removes a handler. It is idempotent: removing an unknown
// subscription is a no-op.
func (b *Broker) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub.wildcard {
		b.wild = remove(b.wild, sub.id)
		return
	}
	b.subs[sub.kind] = remove(b.subs[sub.kind], sub.id)
}

// Publish delivers e to every matching handler. A handler that panics is
// recovered and logged; delivery continues with the remaining handlers so
// one broken subscriber cannot starve the others.
func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]subscriber, 0, len(b.subs[e.Kind()])+len(b.wild))
	handlers = append(handlers, b.subs[e.Kind()]...)
	handlers = append(handlers, b.wild...)
	b.mu.Unlock()

	for _, s := range handlers {
		b.deliver(e, s)
	}
}

func (b *Broker) deliver(e Event, s subscriber) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				slog.String("kind", string(e.Kind())),
				slog.Any("panic", r),
			)
		}
	}()
	s.fn(e)
}

func remove(subs []subscriber, id uint64) []subscriber {
	for i, s := range subs {
		if s.id == id {
			return append(subs[:i:i], subs[i+1:]...)
		}
	}
	return subs
}
