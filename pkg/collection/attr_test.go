package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type plain struct {
	ID    int
	Name  string `json:"name,omitempty"`
	Tags  []string
	inner string
}

func TestAttr(t *testing.T) {
	p := &plain{ID: 7, Name: "web", inner: "hidden"}

	tests := []struct {
		desc  string
		model any
		attr  string
		value any
		ok    bool
	}{
		{"getter", newRecord(1, "a"), "type", "a", true},
		{"getter missing", newRecord(1, "a"), "nope", nil, false},
		{"map", map[string]any{"type": "x"}, "type", "x", true},
		{"typed map", map[string]string{"type": "x"}, "type", "x", true},
		{"int keyed map", map[int]string{1: "x"}, "1", nil, false},
		{"struct field", p, "ID", 7, true},
		{"json tag", p, "name", "web", true},
		{"struct value", *p, "Name", "web", true},
		{"unexported", p, "inner", nil, false},
		{"missing", p, "type", nil, false},
		{"nil pointer", (*plain)(nil), "ID", nil, false},
		{"nil", nil, "ID", nil, false},
		{"scalar", 42, "ID", nil, false},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			v, ok := Attr(test.model, test.attr)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.value, v)
		})
	}
}

func TestEqual(t *testing.T) {
	type pair struct {
		A any
	}

	assert.True(t, Equal("a", "a"))
	assert.True(t, Equal(1, 1))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(1, int64(1)))
	assert.False(t, Equal(1, 1.0))
	assert.False(t, Equal(nil, 0))
	assert.False(t, Equal("", nil))
	assert.False(t, Equal([]int{1}, []int{1}))
	assert.False(t, Equal(pair{A: []int{1}}, pair{A: []int{1}}))
	assert.True(t, Equal(pair{A: 1}, pair{A: 1}))
}
