package subcollection

import (
	"fmt"
	"slices"
	"time"

	errs "github.com/bdlm/errors"
	"github.com/bdlm/log"
	"github.com/mkenney/k8s-view/internal/codes"
	"github.com/mkenney/k8s-view/pkg/events"
)

/*
recompute runs one pass: compute the candidate contents, emit a Remove for
every member that left and an Add for every record that entered, commit,
and emit a Sort if the ordered contents differ in any way.

The first handler error aborts delivery for the rest of the pass. The new
contents are committed regardless, so the view always reflects its source.
*/
func (view *View[M]) recompute() error {
	started := time.Now()
	next, filteredLen, windowed := view.compute()
	prev := view.models

	toRemove := difference(prev, next)
	toAdd := difference(next, prev)

	var err error
	for _, model := range toRemove {
		if err = view.emit(events.Remove, model); nil != err {
			break
		}
	}
	if nil == err {
		for _, model := range toAdd {
			if err = view.emit(events.Add, model); nil != err {
				break
			}
		}
	}

	view.commit(next, filteredLen, windowed)

	sorted := !slices.Equal(prev, next)
	if nil == err && sorted {
		err = view.bus.Emit(events.Event[M]{
			Kind:   events.Sort,
			Source: view,
			Args:   []any{view},
		})
	}

	stats := Stats{
		Added:       len(toAdd),
		Removed:     len(toRemove),
		Sorted:      sorted,
		Len:         len(next),
		FilteredLen: filteredLen,
		Windowed:    windowed,
		Duration:    time.Since(started),
	}
	if nil != view.observer {
		view.observer.ObservePass(view.name, stats)
	}
	log.WithFields(log.Fields{
		"view":    view.name,
		"added":   stats.Added,
		"removed": stats.Removed,
		"sorted":  stats.Sorted,
		"len":     stats.Len,
	}).Debug("view recomputed")

	if nil != err {
		return errs.Wrap(err, codes.ErrHandler, fmt.Sprintf("view %s: event handler aborted recomputation", view.name))
	}
	return nil
}

func (view *View[M]) commit(models []M, filteredLen int, windowed bool) {
	members := make(map[M]struct{}, len(models))
	for _, model := range models {
		members[model] = struct{}{}
	}
	view.models = models
	view.members = members
	view.filteredLen = filteredLen
	view.windowed = windowed
}

func (view *View[M]) emit(kind events.Kind, model M) error {
	return view.bus.Emit(events.Event[M]{
		Kind:   kind,
		Model:  model,
		Source: view,
		Args:   []any{model, view},
	})
}

/*
onSourceEvent recomputes on structural source events and on changes to
watched attributes, then relays record-level events for current members.
*/
func (view *View[M]) onSourceEvent(ev events.Event[M]) error {
	if view.triggers(ev) {
		if err := view.recompute(); nil != err {
			return err
		}
	}
	if !view.relays(ev) {
		return nil
	}
	if nil != view.observer {
		view.observer.ObserveRelay(view.name, ev.Kind)
	}
	if err := view.bus.Emit(ev); nil != err {
		return errs.Wrap(err, codes.ErrHandler, fmt.Sprintf("view %s: event handler aborted %s relay", view.name, ev.Name()))
	}
	return nil
}

func (view *View[M]) triggers(ev events.Event[M]) bool {
	switch ev.Kind {
	case events.Add, events.Remove, events.Reset, events.Sync:
		return true
	case events.Change:
		return ev.IsAttrChange() && view.watched.Contains(ev.Attr)
	}
	return false
}

func (view *View[M]) relays(ev events.Event[M]) bool {
	switch ev.Kind {
	case events.Sync, events.Invalid, events.Destroy, events.Change:
		return view.Contains(ev.Model)
	}
	return false
}

// difference returns the records of a missing from b, in a's order.
func difference[M comparable](a, b []M) []M {
	in := make(map[M]struct{}, len(b))
	for _, model := range b {
		in[model] = struct{}{}
	}
	diff := []M{}
	for _, model := range a {
		if _, ok := in[model]; !ok {
			diff = append(diff, model)
		}
	}
	return diff
}
