package subcollection

/*
Spec configures a view. Every field is optional.

Where builds one equality filter per entry and watches its key. Filter and
Filters are appended as given. Limit, Offset and Comparator replace the
current settings when non-nil; Loop always replaces the current setting.
Watched names additional attributes whose changes force recomputation.
*/
type Spec[M any] struct {
	Where      map[string]any
	Filter     Filter[M]
	Filters    []Filter[M]
	Limit      *int
	Offset     *int
	Loop       bool
	Comparator Comparator[M]
	Watched    []string
}

// Int returns a pointer to i, for Spec.Limit and Spec.Offset.
func Int(i int) *int {
	return &i
}
