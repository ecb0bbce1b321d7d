package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

// chain builds A -> B -> C ...: each letter's parent is the previous one.
func chain(ids ...string) map[string]*string {
	parents := map[string]*string{}
	for i, id := range ids {
		if i == 0 {
			parents[id] = nil
		} else {
			parents[id] = strp(ids[i-1])
		}
	}
	return parents
}

func TestWouldCreateCycle(t *testing.T) {
	parents := chain("A", "B", "C")

	// reparenting A under its own descendant
	assert.True(t, WouldCreateCycle(parents, "A", strp("C")))
	assert.True(t, WouldCreateCycle(parents, "A", strp("B")))
	assert.True(t, WouldCreateCycle(parents, "A", strp("A")))

	// unrelated node or root assignment is fine
	parents["X"] = nil
	assert.False(t, WouldCreateCycle(parents, "A", strp("X")))
	assert.False(t, WouldCreateCycle(parents, "C", nil))
	assert.False(t, WouldCreateCycle(parents, "C", strp("A")))
}

func TestWouldCreateCycleCorruptForest(t *testing.T) {
	// P and Q already point at each other; the visited guard must terminate
	parents := map[string]*string{
		"P": strp("Q"),
		"Q": strp("P"),
		"Z": nil,
	}
	assert.True(t, WouldCreateCycle(parents, "Z", strp("P")))
}

func TestDepthStatsChain(t *testing.T) {
	const n = 7
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("c%d", i)
	}
	st := DepthStats(chain(ids...))

	assert.Equal(t, n, st.MaxDepth)
	for k := 1; k <= n; k++ {
		assert.Equal(t, 1, st.CountByDepth[k], "depth %d", k)
	}
}

func TestDepthStatsForest(t *testing.T) {
	parents := map[string]*string{
		"r1": nil,
		"r2": nil,
		"a":  strp("r1"),
		"b":  strp("r1"),
		"c":  strp("a"),
	}
	st := DepthStats(parents)
	assert.Equal(t, 3, st.MaxDepth)
	assert.Equal(t, 2, st.CountByDepth[1])
	assert.Equal(t, 2, st.CountByDepth[2])
	assert.Equal(t, 1, st.CountByDepth[3])
}

func TestDepthStatsDanglingParent(t *testing.T) {
	parents := map[string]*string{
		"root":   nil,
		"orphan": strp("gone"),
	}
	st := DepthStats(parents)
	assert.Equal(t, 1, st.MaxDepth)
	assert.Equal(t, 1, st.CountByDepth[0], "dangling ref contributes depth 0, not an error")
	assert.Equal(t, 1, st.CountByDepth[1])
}

func TestTreeOf(t *testing.T) {
	flat := []Category{
		{ID: "root", Name: "Root"},
		{ID: "a", Name: "A", ParentID: strp("root"), SortOrder: 1},
		{ID: "b", Name: "B", ParentID: strp("root"), SortOrder: 2},
		{ID: "a1", Name: "A1", ParentID: strp("a")},
		{ID: "lost", Name: "Lost", ParentID: strp("missing")},
	}
	roots := TreeOf(flat)

	assert.Len(t, roots, 2, "dangling child surfaces as a root")
	assert.Equal(t, "root", roots[0].ID)
	assert.Len(t, roots[0].Children, 2)
	assert.Equal(t, "a", roots[0].Children[0].ID)
	assert.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "lost", roots[1].ID)
}
