// Package events delivers playback notifications to listeners. Delivery is
// synchronous: Publish returns after every handler has run, in subscription
// order.
package events

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Type names a notification.
type Type string

const (
	WaypointReached Type = "waypoint.reached"
	PathComplete    Type = "path.complete"
	PathLooped      Type = "path.looped"
	PlaybackStarted Type = "playback.started"
	PlaybackStopped Type = "playback.stopped"

	// Any subscribes to every type.
	Any Type = "*"
)

// Event is one notification. Index, Position and Rotation are set for
// WaypointReached; Pass counts completed loop passes.
type Event struct {
	Type     Type
	RunID    uuid.UUID
	Source   string
	Index    int
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Pass     int
	Elapsed  float64 // playback seconds since start
}

func (e Event) String() string {
	if e.Type == WaypointReached {
		return fmt.Sprintf("%s #%d at (%.3f, %.3f, %.3f)", e.Type, e.Index, e.Position.X(), e.Position.Y(), e.Position.Z())
	}
	return string(e.Type)
}

// Handler consumes an event. Errors are collected by Publish and do not stop
// delivery to the remaining handlers.
type Handler func(Event) error

// Subscription identifies a registered handler.
type Subscription struct {
	ID   string
	Type Type

	handler Handler
}

// Bus is an in-memory publish/subscribe hub.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]*Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Type][]*Subscription)}
}

// Subscribe registers handler for events of type typ.
func (b *Bus) Subscribe(typ Type, handler Handler) *Subscription {
	sub := &Subscription{ID: uuid.NewString(), Type: typ, handler: handler}

	b.mu.Lock()
	b.subs[typ] = append(b.subs[typ], sub)
	b.mu.Unlock()

	return sub
}

// SubscribeAll registers handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) *Subscription {
	return b.Subscribe(Any, handler)
}

// Unsubscribe removes sub. It reports whether the subscription was present.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.Type]
	for i, s := range list {
		if s.ID == sub.ID {
			b.subs[sub.Type] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of handlers subscribed to typ, wildcards excluded.
func (b *Bus) Len(typ Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[typ])
}

// Publish delivers e to the handlers of its type, then to wildcard handlers.
// Handler errors are joined.
func (b *Bus) Publish(e Event) error {
	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs[e.Type])+len(b.subs[Any]))
	targets = append(targets, b.subs[e.Type]...)
	if e.Type != Any {
		targets = append(targets, b.subs[Any]...)
	}
	b.mu.RUnlock()

	var errs []error
	for _, sub := range targets {
		if err := sub.handler(e); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %s: %w", e.Type, sub.ID, err))
		}
	}
	return errors.Join(errs...)
}
