package subcollection

import (
	"slices"
)

/*
compute derives the candidate contents from a fresh snapshot of the source:
filters narrow the set in order, the comparator sorts it stably and the
window, if any, slices it.
*/
func (view *View[M]) compute() (models []M, filteredLen int, windowed bool) {
	models = slices.Clone(view.source.Models())
	for _, filter := range view.filters {
		models = narrow(models, filter)
	}
	if nil != view.comparator {
		slices.SortStableFunc(models, view.comparator)
	}
	if !view.windowActive() {
		return models, 0, false
	}

	offset := 0
	if nil != view.offset {
		offset = *view.offset
	}
	return window(models, view.limit, offset, view.loop), len(models), true
}

// A window applies when a limit is set, or when a non-zero offset is.
func (view *View[M]) windowActive() bool {
	return nil != view.limit || (nil != view.offset && 0 != *view.offset)
}

/*
window slices models to [offset, offset+limit). A nil limit means "to the
end" and a negative limit is treated as zero.

A negative offset counts from the end: the last -offset records (modulo
len(models)) are rotated to the front and the window starts at zero. A
positive offset at or past the end yields an empty window. With loop set, a
window running past the end continues from the front of the rotated
sequence, but never repeats a record.
*/
func window[M any](models []M, limit *int, offset int, loop bool) []M {
	n := len(models)
	if 0 == n {
		return []M{}
	}

	if offset < 0 {
		if k := (-offset) % n; k > 0 {
			models = append(slices.Clone(models[n-k:]), models[:n-k]...)
		}
		offset = 0
	}
	if offset >= n {
		return []M{}
	}

	end := n
	if nil != limit {
		end = offset + max(0, *limit)
	}
	if end <= n {
		return slices.Clone(models[offset:end])
	}

	windowed := slices.Clone(models[offset:])
	if loop {
		windowed = append(windowed, models[:min(end-n, offset)]...)
	}
	return windowed
}
