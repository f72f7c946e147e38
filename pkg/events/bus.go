package events

import (
	"slices"
	"sync"
)

type subscription[M any] struct {
	all     bool
	kind    Kind
	handler Handler[M]
}

/*
Bus is a synchronous publish/subscribe hub. Emit delivers in subscription
order on the caller's goroutine. The subscriber list is copied on update so
handlers may subscribe or unsubscribe while an event is being delivered;
such changes take effect from the next Emit.
*/
type Bus[M any] struct {
	mux  sync.Mutex
	subs []*subscription[M]
}

// NewBus returns an empty bus.
func NewBus[M any]() *Bus[M] {
	return &Bus[M]{}
}

// Subscribe registers a handler for every event kind.
func (bus *Bus[M]) Subscribe(handler Handler[M]) (unsubscribe func()) {
	return bus.add(&subscription[M]{all: true, handler: handler})
}

// On registers a handler for a single event kind.
func (bus *Bus[M]) On(kind Kind, handler Handler[M]) (unsubscribe func()) {
	return bus.add(&subscription[M]{kind: kind, handler: handler})
}

/*
Emit delivers ev to every matching subscriber. Delivery stops at the first
handler error, which is returned.
*/
func (bus *Bus[M]) Emit(ev Event[M]) error {
	for _, sub := range bus.get() {
		if !sub.all && sub.kind != ev.Kind {
			continue
		}
		if err := sub.handler(ev); nil != err {
			return err
		}
	}
	return nil
}

// Len returns the number of registered subscriptions.
func (bus *Bus[M]) Len() int {
	return len(bus.get())
}

func (bus *Bus[M]) get() []*subscription[M] {
	bus.mux.Lock()
	defer bus.mux.Unlock()
	return bus.subs
}

func (bus *Bus[M]) add(sub *subscription[M]) func() {
	bus.mux.Lock()
	defer bus.mux.Unlock()

	next := slices.Clone(bus.subs)
	bus.subs = append(next, sub)

	var once sync.Once
	return func() {
		once.Do(func() { bus.remove(sub) })
	}
}

func (bus *Bus[M]) remove(sub *subscription[M]) {
	bus.mux.Lock()
	defer bus.mux.Unlock()

	i := slices.Index(bus.subs, sub)
	if i < 0 {
		// not present
		return
	}
	next := slices.Clone(bus.subs)
	bus.subs = slices.Delete(next, i, i+1)
}
