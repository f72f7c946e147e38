package subcollection

import (
	"github.com/mkenney/k8s-view/pkg/collection"
)

/*
Sequence is anything exposing an ordered snapshot of records. Views and
collections both satisfy it, so the helpers below work on either.
*/
type Sequence[M any] interface {
	Models() []M
}

// Each calls fn for every record with its index.
func Each[M any](seq Sequence[M], fn func(model M, i int)) {
	for i, model := range seq.Models() {
		fn(model, i)
	}
}

// Map returns fn applied to every record.
func Map[M, R any](seq Sequence[M], fn func(M) R) []R {
	models := seq.Models()
	mapped := make([]R, 0, len(models))
	for _, model := range models {
		mapped = append(mapped, fn(model))
	}
	return mapped
}

// Select returns the records fn accepts.
func Select[M any](seq Sequence[M], fn func(M) bool) []M {
	return narrow(seq.Models(), NewFunc("select", fn))
}

// Reject returns the records fn does not accept.
func Reject[M any](seq Sequence[M], fn func(M) bool) []M {
	return Select(seq, func(model M) bool {
		return !fn(model)
	})
}

// Reduce folds the records into a single value.
func Reduce[M, A any](seq Sequence[M], acc A, fn func(A, M) A) A {
	for _, model := range seq.Models() {
		acc = fn(acc, model)
	}
	return acc
}

// Find returns the first record fn accepts.
func Find[M any](seq Sequence[M], fn func(M) bool) (M, bool) {
	for _, model := range seq.Models() {
		if fn(model) {
			return model, true
		}
	}
	var zero M
	return zero, false
}

// Pluck returns the named attribute of every record, nil where missing.
func Pluck[M any](seq Sequence[M], attr string) []any {
	return Map(seq, func(model M) any {
		v, _ := collection.Attr(model, attr)
		return v
	})
}

// CountBy counts records by the value of the named attribute, which must
// be of a comparable type.
func CountBy[M any](seq Sequence[M], attr string) map[any]int {
	return Reduce(seq, map[any]int{}, func(counts map[any]int, model M) map[any]int {
		v, _ := collection.Attr(model, attr)
		counts[v]++
		return counts
	})
}
