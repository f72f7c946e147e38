/*
Package collection provides an ordered, observable record store. It is the
reference source for subcollection views: every mutation is announced
through a typed event bus before the call returns.
*/
package collection

import (
	"fmt"
	"slices"

	errs "github.com/bdlm/errors"
	"github.com/mkenney/k8s-view/internal/codes"
	"github.com/mkenney/k8s-view/pkg/events"
)

// DefaultIndex is the index used by Get when no index name is given.
const DefaultIndex = "id"

// IndexFunc extracts the lookup key of a record for a named index.
type IndexFunc[M comparable] func(model M) any

/*
Collection is an ordered set of records. A record is present at most
once; identity is ==, so pointer records are compared by address.

Collection is not safe for concurrent use. Callers mutating it from several
goroutines must serialize access themselves.
*/
type Collection[M comparable] struct {
	models  []M
	indexes map[string]IndexFunc[M]
	bus     *events.Bus[M]
}

/*
New returns a collection holding models, in order. Duplicates are dropped.
*/
func New[M comparable](models ...M) *Collection[M] {
	collection := &Collection[M]{
		indexes: map[string]IndexFunc[M]{
			DefaultIndex: func(model M) any {
				v, _ := Attr(model, DefaultIndex)
				return v
			},
		},
		bus: events.NewBus[M](),
	}
	for _, model := range models {
		if !collection.Contains(model) {
			collection.models = append(collection.models, model)
		}
	}
	return collection
}

// Index registers (or replaces) a named lookup index.
func (collection *Collection[M]) Index(name string, fn IndexFunc[M]) {
	collection.indexes[name] = fn
}

// Models returns a copy of the records in order.
func (collection *Collection[M]) Models() []M {
	return slices.Clone(collection.models)
}

// Len returns the number of records.
func (collection *Collection[M]) Len() int {
	return len(collection.models)
}

// At returns the record at index i.
func (collection *Collection[M]) At(i int) (M, bool) {
	var zero M
	if i < 0 || i >= len(collection.models) {
		return zero, false
	}
	return collection.models[i], true
}

// Contains returns whether model is in the collection.
func (collection *Collection[M]) Contains(model M) bool {
	return slices.Contains(collection.models, model)
}

/*
Get looks a record up. If query is itself a member record it is returned.
Otherwise query is compared with the key each record produces for the named
index (DefaultIndex when index is empty) and the first match is returned.
*/
func (collection *Collection[M]) Get(query any, index string) (M, bool) {
	var zero M
	if model, ok := query.(M); ok && collection.Contains(model) {
		return model, true
	}
	if "" == index {
		index = DefaultIndex
	}
	fn, ok := collection.indexes[index]
	if !ok {
		return zero, false
	}
	for _, model := range collection.models {
		if key := fn(model); nil != key && Equal(key, query) {
			return model, true
		}
	}
	return zero, false
}

// Subscribe registers a handler for every event the collection emits.
func (collection *Collection[M]) Subscribe(handler events.Handler[M]) (unsubscribe func()) {
	return collection.bus.Subscribe(handler)
}

// On registers a handler for a single event kind.
func (collection *Collection[M]) On(kind events.Kind, handler events.Handler[M]) (unsubscribe func()) {
	return collection.bus.On(kind, handler)
}

/*
Add appends records that are not already present and emits one Add event
per appended record.
*/
func (collection *Collection[M]) Add(models ...M) error {
	for _, model := range models {
		if collection.Contains(model) {
			continue
		}
		collection.models = append(collection.models, model)
		if err := collection.emit(events.Add, model); nil != err {
			return err
		}
	}
	return nil
}

/*
Insert places records at position i (clamped to the collection bounds),
skipping those already present, and emits one Add event per record.
*/
func (collection *Collection[M]) Insert(i int, models ...M) error {
	for _, model := range models {
		if collection.Contains(model) {
			continue
		}
		i = max(0, min(i, len(collection.models)))
		collection.models = slices.Insert(collection.models, i, model)
		i++
		if err := collection.emit(events.Add, model); nil != err {
			return err
		}
	}
	return nil
}

/*
Remove drops records and emits one Remove event per record that was
present.
*/
func (collection *Collection[M]) Remove(models ...M) error {
	for _, model := range models {
		i := slices.Index(collection.models, model)
		if i < 0 {
			continue
		}
		collection.models = slices.Delete(collection.models, i, i+1)
		if err := collection.emit(events.Remove, model); nil != err {
			return err
		}
	}
	return nil
}

/*
Reset replaces the contents with models and emits a single Reset event.
*/
func (collection *Collection[M]) Reset(models ...M) error {
	next := make([]M, 0, len(models))
	for _, model := range models {
		if !slices.Contains(next, model) {
			next = append(next, model)
		}
	}
	collection.models = next
	return collection.bus.Emit(events.Event[M]{
		Kind:   events.Reset,
		Source: collection,
		Args:   []any{collection},
	})
}

/*
Set writes an attribute on a member record and announces it. The record
must implement Setter. Nothing is emitted if the value is unchanged.
*/
func (collection *Collection[M]) Set(model M, attr string, value any) error {
	if old, ok := Attr(model, attr); ok && Equal(old, value) {
		return nil
	}
	setter, ok := any(model).(Setter)
	if !ok {
		return errs.New(codes.ErrRecord, fmt.Sprintf("record %T does not support attribute writes", model))
	}
	setter.Set(attr, value)
	return collection.Changed(model, attr)
}

/*
Changed announces that a record was modified in place. One per-attribute
Change event is emitted for each named attribute, followed by a single
whole-record Change event. Records that are not members are ignored.
*/
func (collection *Collection[M]) Changed(model M, attrs ...string) error {
	if !collection.Contains(model) {
		return nil
	}
	for _, attr := range attrs {
		value, _ := Attr(model, attr)
		err := collection.bus.Emit(events.Event[M]{
			Kind:   events.Change,
			Attr:   attr,
			Model:  model,
			Value:  value,
			Source: collection,
			Args:   []any{model, value},
		})
		if nil != err {
			return err
		}
	}
	return collection.emit(events.Change, model)
}

/*
Sync announces that records finished synchronizing with their backing
store. Without arguments a single collection-level Sync is emitted.
*/
func (collection *Collection[M]) Sync(models ...M) error {
	if 0 == len(models) {
		return collection.bus.Emit(events.Event[M]{
			Kind:   events.Sync,
			Source: collection,
			Args:   []any{collection},
		})
	}
	for _, model := range models {
		if err := collection.emit(events.Sync, model); nil != err {
			return err
		}
	}
	return nil
}

// Invalidate announces that a member record failed validation.
func (collection *Collection[M]) Invalidate(model M, reason any) error {
	if !collection.Contains(model) {
		return nil
	}
	return collection.bus.Emit(events.Event[M]{
		Kind:   events.Invalid,
		Model:  model,
		Value:  reason,
		Source: collection,
		Args:   []any{model, reason},
	})
}

/*
Destroy announces that a member record was destroyed, then removes it.
*/
func (collection *Collection[M]) Destroy(model M) error {
	if !collection.Contains(model) {
		return nil
	}
	if err := collection.emit(events.Destroy, model); nil != err {
		return err
	}
	return collection.Remove(model)
}

func (collection *Collection[M]) emit(kind events.Kind, model M) error {
	return collection.bus.Emit(events.Event[M]{
		Kind:   kind,
		Model:  model,
		Source: collection,
		Args:   []any{model, collection},
	})
}
