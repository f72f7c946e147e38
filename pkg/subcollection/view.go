/*
Package subcollection maintains live views over mutable collections. A
View holds the records of its source that pass a set of filters, optionally
sorted and windowed, and keeps itself current by recomputing whenever the
source announces a relevant change. Views never copy, own or mutate the
records they expose.
*/
package subcollection

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mkenney/k8s-view/pkg/events"
	"github.com/tidwall/btree"
)

/*
Source is the collection a view observes. Models must return a snapshot
the caller may modify.
*/
type Source[M comparable] interface {
	Models() []M
	Get(query any, index string) (M, bool)
	Subscribe(handler events.Handler[M]) (unsubscribe func())
}

/*
Stats summarizes one recomputation pass.
*/
type Stats struct {
	Added       int
	Removed     int
	Sorted      bool
	Len         int
	FilteredLen int
	Windowed    bool
	Duration    time.Duration
}

/*
Observer receives a summary of every recomputation pass and every relayed
source event.
*/
type Observer interface {
	ObservePass(view string, stats Stats)
	ObserveRelay(view string, kind events.Kind)
}

type options struct {
	name     string
	observer Observer
}

// Option customizes a view.
type Option func(*options)

// WithName sets the name used in logs and metrics. Defaults to a uuid.
func WithName(name string) Option {
	return func(opts *options) {
		opts.name = name
	}
}

// WithObserver reports recomputation passes to observer.
func WithObserver(observer Observer) Option {
	return func(opts *options) {
		opts.observer = observer
	}
}

/*
View is a filtered, sorted and windowed projection of a Source.

A View is not safe for concurrent use: mutations and source events must be
delivered from one goroutine at a time. Events are emitted synchronously,
removes first, then adds, then at most one sort per pass.
*/
type View[M comparable] struct {
	name        string
	source      Source[M]
	bus         *events.Bus[M]
	observer    Observer
	unsubscribe func()

	filters    []Filter[M]
	watched    btree.Set[string]
	comparator Comparator[M]
	limit      *int
	offset     *int
	loop       bool

	models      []M
	members     map[M]struct{}
	filteredLen int
	windowed    bool
}

/*
New builds a view over source, computes its initial contents and starts
listening to the source.
*/
func New[M comparable](source Source[M], spec Spec[M], opts ...Option) *View[M] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if "" == o.name {
		o.name = uuid.NewString()
	}

	view := &View[M]{
		name:     o.name,
		source:   source,
		bus:      events.NewBus[M](),
		observer: o.observer,
		members:  map[M]struct{}{},
	}
	view.parse(spec)
	// nobody can be subscribed yet, so the first pass cannot fail
	_ = view.recompute()
	view.unsubscribe = source.Subscribe(view.onSourceEvent)
	return view
}

// Name returns the view name.
func (view *View[M]) Name() string {
	return view.name
}

// IsCollection marks views as collection-like to generic consumers.
func (view *View[M]) IsCollection() bool {
	return true
}

// At returns the member at index i.
func (view *View[M]) At(i int) (M, bool) {
	var zero M
	if i < 0 || i >= len(view.models) {
		return zero, false
	}
	return view.models[i], true
}

/*
Get looks query up in the source and returns the record only if it is a
member of this view.
*/
func (view *View[M]) Get(query any, index string) (M, bool) {
	var zero M
	model, ok := view.source.Get(query, index)
	if !ok || !view.Contains(model) {
		return zero, false
	}
	return model, true
}

// Contains returns whether model is a member of the view.
func (view *View[M]) Contains(model M) bool {
	_, ok := view.members[model]
	return ok
}

// Len returns the number of members.
func (view *View[M]) Len() int {
	return len(view.models)
}

/*
FilteredLen returns the number of records that passed the filters before
the window was applied. The second value is false when no window is
active.
*/
func (view *View[M]) FilteredLen() (int, bool) {
	return view.filteredLen, view.windowed
}

// Models returns a copy of the members in view order.
func (view *View[M]) Models() []M {
	return slices.Clone(view.models)
}

// Watched returns the watched attribute names in sorted order.
func (view *View[M]) Watched() []string {
	watched := make([]string, 0, view.watched.Len())
	view.watched.Scan(func(attr string) bool {
		watched = append(watched, attr)
		return true
	})
	return watched
}

// Subscribe registers a handler for every event the view emits.
func (view *View[M]) Subscribe(handler events.Handler[M]) (unsubscribe func()) {
	return view.bus.Subscribe(handler)
}

// On registers a handler for a single event kind.
func (view *View[M]) On(kind events.Kind, handler events.Handler[M]) (unsubscribe func()) {
	return view.bus.On(kind, handler)
}

/*
Release stops listening to the source. The view keeps its last contents
and no longer changes.
*/
func (view *View[M]) Release() {
	if nil != view.unsubscribe {
		view.unsubscribe()
		view.unsubscribe = nil
	}
}

// AddFilter appends a filter and recomputes.
func (view *View[M]) AddFilter(filter Filter[M]) error {
	view.addFilter(filter)
	return view.recompute()
}

/*
RemoveFilter removes the first filter equal to filter and recomputes.
Removing a filter that is not registered changes nothing.
*/
func (view *View[M]) RemoveFilter(filter Filter[M]) error {
	i := slices.IndexFunc(view.filters, func(f Filter[M]) bool {
		return sameFilter(f, filter)
	})
	if i >= 0 {
		view.filters = slices.Delete(view.filters, i, i+1)
	}
	return view.recompute()
}

/*
ClearFilters drops every filter, watched attribute, window and comparator
setting, then recomputes. The result mirrors the source.
*/
func (view *View[M]) ClearFilters() error {
	view.reset()
	return view.recompute()
}

/*
Configure applies spec on top of the current configuration, or on top of
an empty one if clear is set, then recomputes.
*/
func (view *View[M]) Configure(spec Spec[M], clear bool) error {
	if clear {
		view.reset()
	}
	view.parse(spec)
	return view.recompute()
}

func (view *View[M]) addFilter(filter Filter[M]) {
	if nil != filter {
		view.filters = append(view.filters, filter)
	}
}

func (view *View[M]) watch(attrs ...string) {
	for _, attr := range attrs {
		view.watched.Insert(attr)
	}
}

func (view *View[M]) reset() {
	view.filters = nil
	view.watched = btree.Set[string]{}
	view.comparator = nil
	view.limit = nil
	view.offset = nil
	view.loop = false
}

func (view *View[M]) parse(spec Spec[M]) {
	if 0 < len(spec.Where) {
		attrs := make([]string, 0, len(spec.Where))
		for attr := range spec.Where {
			attrs = append(attrs, attr)
		}
		slices.Sort(attrs)
		for _, attr := range attrs {
			view.addFilter(Where[M]{Attr: attr, Value: spec.Where[attr]})
		}
		view.watch(attrs...)
	}
	if nil != spec.Limit {
		limit := *spec.Limit
		view.limit = &limit
	}
	if nil != spec.Offset {
		offset := *spec.Offset
		view.offset = &offset
	}
	view.loop = spec.Loop
	view.addFilter(spec.Filter)
	for _, filter := range spec.Filters {
		view.addFilter(filter)
	}
	if nil != spec.Comparator {
		view.comparator = spec.Comparator
	}
	view.watch(spec.Watched...)
}
