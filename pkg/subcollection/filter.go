package subcollection

import (
	"github.com/mkenney/k8s-view/pkg/collection"
)

/*
Filter is a predicate over a single record. A view keeps the records
matched by every one of its filters.
*/
type Filter[M any] interface {
	Match(model M) bool
}

/*
Where matches records whose attribute Attr is strictly equal to Value.
Attributes are read with collection.Attr; a missing attribute never
matches. Where values with comparable Values are themselves comparable, so
they can be removed from a view by value.
*/
type Where[M any] struct {
	Attr  string
	Value any
}

// Match implements Filter.
func (where Where[M]) Match(model M) bool {
	v, ok := collection.Attr(model, where.Attr)
	return ok && collection.Equal(v, where.Value)
}

/*
Func adapts a predicate function to Filter. Functions cannot be compared in
Go, so a *Func is identified by its address: keep the pointer returned by
NewFunc to remove the filter later.
*/
type Func[M any] struct {
	name string
	fn   func(M) bool
}

// NewFunc wraps fn as a Filter. name is informational only.
func NewFunc[M any](name string, fn func(M) bool) *Func[M] {
	return &Func[M]{name: name, fn: fn}
}

// Match implements Filter.
func (filter *Func[M]) Match(model M) bool {
	return filter.fn(model)
}

// String implements fmt.Stringer.
func (filter *Func[M]) String() string {
	return filter.name
}

func sameFilter[M any](a, b Filter[M]) bool {
	return collection.Equal(a, b)
}

func narrow[M any](models []M, filter Filter[M]) []M {
	matched := make([]M, 0, len(models))
	for _, model := range models {
		if filter.Match(model) {
			matched = append(matched, model)
		}
	}
	return matched
}
