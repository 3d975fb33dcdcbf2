package events_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weblarek/storefront/internal/events"
)

func newBroker() *events.Broker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return events.NewBroker(logger)
}

func TestBroker_DeliveryOrder(t *testing.T) {
	b := newBroker()

	var got []string
	b.Subscribe(events.KindCartOpened, func(events.Event) { got = append(got, "first") })
	b.Subscribe(events.KindCartOpened, func(events.Event) { got = append(got, "second") })
	b.SubscribeAll(func(events.Event) { got = append(got, "wildcard") })

	b.Publish(events.CartOpened{})

	assert.Equal(t, []string{"first", "second", "wildcard"}, got)
}

func TestBroker_ExactKindOnly(t *testing.T) {
	b := newBroker()

	var got []events.Kind
	b.Subscribe(events.KindCartChanged, func(e events.Event) { got = append(got, e.Kind()) })

	b.Publish(events.CartOpened{})
	b.Publish(events.CartChanged{Total: 10})
	b.Publish(events.DraftReset{})

	assert.Equal(t, []events.Kind{events.KindCartChanged}, got)
}

func TestBroker_WildcardSeesEveryKind(t *testing.T) {
	b := newBroker()

	var kinds []events.Kind
	b.SubscribeAll(func(e events.Event) { kinds = append(kinds, e.Kind()) })

	b.Publish(events.CartOpened{})
	b.Publish(events.DraftFieldChanged{Field: "email", Value: "e@x"})
	b.Publish(events.ModalClosed{})

	assert.Equal(t, []events.Kind{
		events.KindCartOpened,
		events.KindDraftFieldChanged,
		events.KindModalClosed,
	}, kinds)
}

func TestBroker_NoReplayForLateSubscribers(t *testing.T) {
	b := newBroker()

	b.Publish(events.CartChanged{Total: 1})
	b.Publish(events.CartChanged{Total: 2})
	b.Publish(events.CartChanged{Total: 3})

	var got []events.CartChanged
	b.Subscribe(events.KindCartChanged, func(e events.Event) {
		got = append(got, e.(events.CartChanged))
	})
	assert.Empty(t, got)

	b.Publish(events.CartChanged{Total: 4})
	assert.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Total)
}

func TestBroker_Unsubscribe(t *testing.T) {
	b := newBroker()

	calls := 0
	sub := b.Subscribe(events.KindCartOpened, func(events.Event) { calls++ })

	b.Publish(events.CartOpened{})
	b.Unsubscribe(sub)
	b.Publish(events.CartOpened{})
	// Idempotent: removing again is a no-op.
	b.Unsubscribe(sub)
	b.Publish(events.CartOpened{})

	assert.Equal(t, 1, calls)
}

func TestBroker_UnsubscribeWildcard(t *testing.T) {
	b := newBroker()

	calls := 0
	sub := b.SubscribeAll(func(events.Event) { calls++ })

	b.Publish(events.CartOpened{})
	b.Unsubscribe(sub)
	b.Publish(events.CartOpened{})

	assert.Equal(t, 1, calls)
}

func TestBroker_PanicDoesNotStopDelivery(t *testing.T) {
	b := newBroker()

	var got []string
	b.Subscribe(events.KindCartOpened, func(events.Event) { panic("broken subscriber") })
	b.Subscribe(events.KindCartOpened, func(events.Event) { got = append(got, "survivor") })
	b.SubscribeAll(func(events.Event) { got = append(got, "wildcard") })

	assert.NotPanics(t, func() {
		b.Publish(events.CartOpened{})
	})
	assert.Equal(t, []string{"survivor", "wildcard"}, got)
}

func TestBroker_PublishWithoutSubscribers(t *testing.T) {
	b := newBroker()
	assert.NotPanics(t, func() {
		b.Publish(events.SuccessAcknowledged{})
	})
}
