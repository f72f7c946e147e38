/*
Package events defines the typed notifications exchanged between source
collections, views and their subscribers.
*/
package events

import (
	"fmt"
)

/*
Kind enumerates the notification types.
*/
type Kind int

const (
	// Add - a record entered the emitter.
	Add Kind = iota
	// Remove - a record left the emitter.
	Remove
	// Reset - the emitter's contents were replaced wholesale.
	Reset
	// Sync - the emitter finished synchronizing with its backing store.
	Sync
	// Change - a record changed. Per-attribute changes set Event.Attr.
	Change
	// Invalid - a record failed validation.
	Invalid
	// Destroy - a record was destroyed in its backing store.
	Destroy
	// Sort - the emitter's order changed.
	Sort
)

var kindNames = map[Kind]string{
	Add:     "add",
	Remove:  "remove",
	Reset:   "reset",
	Sync:    "sync",
	Change:  "change",
	Invalid: "invalid",
	Destroy: "destroy",
	Sort:    "sort",
}

// String implements fmt.Stringer.
func (kind Kind) String() string {
	if name, ok := kindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(kind))
}

/*
Event is a single notification. Events are passed by value and handlers
must treat them as read-only.
*/
type Event[M any] struct {
	Kind Kind
	// Attr identifies the changed attribute of a per-attribute Change
	// event. It is empty for whole-record changes and for every other
	// kind.
	Attr string
	// Model is the primary record. It is the zero value for Sort and
	// Reset events.
	Model M
	// Value holds the new attribute value of a per-attribute Change.
	Value any
	// Source is the emitter: a collection for source events, a view for
	// view events.
	Source any
	// Args carries any extra arguments supplied by the emitter.
	Args []any
}

// Name returns the conventional event name, eg. "add" or "change:type".
func (ev Event[M]) Name() string {
	if Change == ev.Kind && "" != ev.Attr {
		return ev.Kind.String() + ":" + ev.Attr
	}
	return ev.Kind.String()
}

// IsAttrChange returns whether this is a per-attribute Change event.
func (ev Event[M]) IsAttrChange() bool {
	return Change == ev.Kind && "" != ev.Attr
}

// Handler receives events. A non-nil error aborts delivery of the event
// to the remaining subscribers.
type Handler[M any] func(Event[M]) error
