package subcollection

import (
	"cmp"
	"fmt"
	"reflect"

	"github.com/maruel/natural"
	"github.com/mkenney/k8s-view/pkg/collection"
)

/*
Comparator is a total order over records: negative when a sorts before b,
positive when after, zero when equal. Views sort stably, so records that
compare equal keep their source order.
*/
type Comparator[M any] func(a, b M) int

// Reverse returns the inverse ordering.
func (comparator Comparator[M]) Reverse() Comparator[M] {
	return func(a, b M) int {
		return comparator(b, a)
	}
}

// ByKey orders records by the key fn extracts.
func ByKey[M any, K cmp.Ordered](fn func(M) K) Comparator[M] {
	return func(a, b M) int {
		return cmp.Compare(fn(a), fn(b))
	}
}

/*
ByAttr orders records by a named attribute. Strings sort naturally ("web2"
before "web10"), numbers numerically and false before true. Records
missing the attribute sort last. Values of mixed or other types are
compared by their formatted representation.
*/
func ByAttr[M any](attr string) Comparator[M] {
	return func(a, b M) int {
		va, oka := collection.Attr(a, attr)
		vb, okb := collection.Attr(b, attr)
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1
		case !okb:
			return -1
		}
		return compareValues(va, vb)
	}
}

func compareValues(a, b any) int {
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return compareNatural(sa, sb)
		}
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case bb:
				return -1
			}
			return 1
		}
	}
	return compareNatural(fmt.Sprint(a), fmt.Sprint(b))
}

func compareNatural(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
