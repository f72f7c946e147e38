package subcollection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	abcde := []string{"A", "B", "C", "D", "E"}

	tests := []struct {
		desc   string
		models []string
		limit  *int
		offset int
		loop   bool
		want   []string
	}{
		{"empty set", []string{}, Int(3), -2, true, []string{}},
		{"limit only", abcde, Int(2), 0, false, []string{"A", "B"}},
		{"limit past the end", abcde, Int(9), 0, false, abcde},
		{"negative limit", abcde, Int(-1), 0, false, []string{}},
		{"offset to the end", abcde, nil, 2, false, []string{"C", "D", "E"}},
		{"negative offset", abcde, Int(2), -2, false, []string{"D", "E"}},
		{"negative offset without limit", abcde, nil, -2, false, []string{"D", "E", "A", "B", "C"}},
		{"negative offset of the set size", abcde, Int(2), -5, false, []string{"A", "B"}},
		{"negative offset wraps modulo size", abcde, Int(2), -7, false, []string{"D", "E"}},
		{"offset at the end", abcde, Int(2), 5, true, []string{}},
		{"offset past the end", abcde, Int(2), 8, true, []string{}},
		{"loop fills from the front", abcde, Int(4), 3, true, []string{"D", "E", "A", "B"}},
		{"loop never repeats", abcde, Int(20), 3, true, []string{"D", "E", "A", "B", "C"}},
		{"loop after rotation", abcde, Int(3), -1, true, []string{"E", "A", "B"}},
		{"no loop", abcde, Int(4), 3, false, []string{"D", "E"}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			assert.Equal(t, test.want, window(test.models, test.limit, test.offset, test.loop))
		})
	}
}

func TestWindowDoesNotModifyInput(t *testing.T) {
	models := []string{"A", "B", "C"}
	windowed := window(models, Int(2), -1, true)
	windowed[0] = "X"
	assert.Equal(t, []string{"A", "B", "C"}, models)
}
