package subcollection

import (
	"testing"

	"github.com/mkenney/k8s-view/pkg/collection"
	"github.com/mkenney/k8s-view/pkg/events"
)

type record struct {
	name  string
	attrs map[string]any
}

func (r *record) Get(attr string) (any, bool) {
	v, ok := r.attrs[attr]
	return v, ok
}

func (r *record) Set(attr string, value any) {
	r.attrs[attr] = value
}

func (r *record) String() string {
	return r.name
}

func rec(name string, attrs ...any) *record {
	r := &record{name: name, attrs: map[string]any{"name": name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		r.attrs[attrs[i].(string)] = attrs[i+1]
	}
	return r
}

// letters returns records A, B, C... in order.
func letters(n int) []*record {
	records := make([]*record, n)
	for i := range records {
		records[i] = rec(string(rune('A'+i)), "rank", i)
	}
	return records
}

func names(models []*record) []string {
	out := make([]string, len(models))
	for i, m := range models {
		out[i] = m.name
	}
	return out
}

// recorder collects emitted event names in the "kind:record" form.
type recorder struct {
	got []string
}

func (r *recorder) handle(ev events.Event[*record]) error {
	entry := ev.Name()
	if nil != ev.Model {
		entry += ":" + ev.Model.name
	}
	r.got = append(r.got, entry)
	return nil
}

func (r *recorder) take() []string {
	got := r.got
	r.got = nil
	return got
}

func newView(t *testing.T, source *collection.Collection[*record], spec Spec[*record]) (*View[*record], *recorder) {
	t.Helper()
	view := New[*record](source, spec, WithName(t.Name()))
	r := &recorder{}
	view.Subscribe(r.handle)
	t.Cleanup(view.Release)
	return view, r
}
