// Package bus provides an in-process implementation of pagelens.Bus.
// The page, coordinator and panel contexts exchange state exclusively
// through action-tagged messages; this bus mediates them.
package bus

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pagelens/pagelens"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber
// that falls this far behind loses messages rather than blocking the
// publishing context.
const subscriberBuffer = 16

// Ensure Bus implements pagelens.Bus at compile time.
var _ pagelens.Bus = (*Bus)(nil)

// Bus is an in-process, action-filtered publish/subscribe bus.
// It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	ch      chan pagelens.Message
	actions map[pagelens.MessageAction]struct{}
}

// New creates a new Bus.
func New() *Bus {
	return &Bus{subs: make(map[*subscriber]struct{})}
}

// Publish delivers the message to every subscriber of its action. The
// message ID is assigned if empty. Delivery never blocks: a subscriber
// whose buffer is full misses the message.
func (b *Bus) Publish(ctx context.Context, msg pagelens.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return pagelens.Errorf(pagelens.EINTERNAL, "bus is closed")
	}

	for sub := range b.subs {
		if _, ok := sub.actions[msg.Action]; !ok {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel receiving messages whose action is one of
// actions, and a cancel function that releases the subscription and closes
// the channel.
func (b *Bus) Subscribe(actions ...pagelens.MessageAction) (<-chan pagelens.Message, func()) {
	sub := &subscriber{
		ch:      make(chan pagelens.Message, subscriberBuffer),
		actions: make(map[pagelens.MessageAction]struct{}, len(actions)),
	}
	for _, action := range actions {
		sub.actions[action] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(sub.ch)
		return sub.ch, func() {}
	}
	b.subs[sub] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if b.closed {
				// Close already closed every subscriber channel.
				b.mu.Unlock()
				return
			}
			delete(b.subs, sub)
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Close shuts the bus down. Subsequent publishes fail and all subscriber
// channels are closed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
	return nil
}
