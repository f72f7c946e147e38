package subcollection

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByAttr(t *testing.T) {
	web10, web2, api, none := rec("web10", "n", 3.5), rec("web2", "n", 10), rec("api", "n", 2), rec("none")
	models := []*record{web10, none, web2, api}

	byName := slices.Clone(models)
	slices.SortStableFunc(byName, ByAttr[*record]("name"))
	assert.Equal(t, []string{"api", "none", "web2", "web10"}, names(byName))

	byN := slices.Clone(models)
	slices.SortStableFunc(byN, ByAttr[*record]("n"))
	assert.Equal(t, []string{"api", "web10", "web2", "none"}, names(byN))

	slices.SortStableFunc(byN, ByAttr[*record]("n").Reverse())
	assert.Equal(t, []string{"none", "web2", "web10", "api"}, names(byN))
}

func TestCompareValues(t *testing.T) {
	assert.Equal(t, -1, compareValues("a2", "a10"))
	assert.Equal(t, 0, compareValues("a", "a"))
	assert.Equal(t, 1, compareValues(uint8(9), 2.5))
	assert.Equal(t, -1, compareValues(false, true))
	assert.Equal(t, 1, compareValues(true, false))
	assert.Equal(t, 0, compareValues(true, true))
	// mixed types fall back to their formatted form
	assert.Equal(t, -1, compareValues(2, "10x"))
}

func TestByKeyIsStable(t *testing.T) {
	a, b, c := rec("a", "group", 2), rec("b", "group", 1), rec("c", "group", 2)
	models := []*record{a, b, c}
	slices.SortStableFunc(models, ByKey(func(r *record) int {
		return r.attrs["group"].(int)
	}))
	assert.Equal(t, []*record{b, a, c}, models)
}
