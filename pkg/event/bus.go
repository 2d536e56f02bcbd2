package event

import (
	"fmt"
	"log/slog"
	"sync"
)

// Bus is a typed publish/subscribe channel. Subscriptions are explicit
// handles that must be canceled by their owner; the bus never blocks a
// publisher on a slow subscriber.
type Bus struct {
	subs   map[uint64]*Subscription
	nextID uint64
	mu     sync.Mutex
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[uint64]*Subscription),
	}
}

// Subscription is a handle to a bus subscription. Cancel releases it.
type Subscription struct {
	bus *Bus
	ch  chan Event
	id  uint64
}

// C returns the receive channel for the subscription.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Cancel removes the subscription from the bus and closes its channel.
// Cancel is idempotent.
func (s *Subscription) Cancel() {
	s.bus.cancel(s.id)
}

// Subscribe registers a new subscriber with the given channel buffer size.
func (b *Bus) Subscribe(buffer int) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		bus: b,
		ch:  make(chan Event, max(1, buffer)),
		id:  b.nextID,
	}

	if b.closed {
		close(sub.ch)

		return sub
	}

	b.subs[sub.id] = sub

	return sub
}

// Publish delivers evt to every live subscriber. Delivery to a subscriber
// with a full buffer is dropped rather than blocking the publisher.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- evt:
		default:
			slog.Debug("dropping event for slow subscriber",
				slog.String("event", fmt.Sprintf("%T", evt)),
				slog.Uint64("subscription", sub.id),
			)
		}
	}
}

// Close cancels all subscriptions. Publishing after Close is a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true

	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

func (b *Bus) cancel(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}

	close(sub.ch)
	delete(b.subs, id)
}
