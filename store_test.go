package ibl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attrs(color string) []Attr {
	return []Attr{{Name: "color", Value: Str(color)}}
}

func TestStoreInsertDedup(t *testing.T) {
	s := NewStore()
	c1 := s.Insert(attrs("red"), 1.0, 1, false)
	c2 := s.Insert(attrs("red"), 1.0, 2, false)

	require.Same(t, c1, c2)
	assert.Equal(t, []int64{1, 2}, c1.References)
	assert.Equal(t, int64(2), c1.RefCount())
	assert.Equal(t, int64(2), c1.LastReference())
	assert.Equal(t, 1, s.Len())
}

func TestStoreInsertDistinctUtilitySeparateChunks(t *testing.T) {
	s := NewStore()
	c1 := s.Insert(attrs("red"), 1.0, 1, false)
	c2 := s.Insert(attrs("red"), 2.0, 1, false)
	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, 2, s.Len())
}

func TestStoreOptimizedBookkeeping(t *testing.T) {
	s := NewStore()
	c := s.Insert(attrs("red"), 1.0, 1, true)
	s.Insert(attrs("red"), 1.0, 2, true)

	assert.True(t, c.Optimized)
	assert.Empty(t, c.References)
	assert.Equal(t, int64(2), c.Count)
	assert.Equal(t, int64(2), c.RefCount())
	assert.Equal(t, int64(1), c.LastReference()) // falls back to Created
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	c := s.Insert(attrs("red"), 1.0, 1, false)
	s.Remove(c.ID)
	assert.Nil(t, s.ByID(c.ID))
	assert.Nil(t, s.Find(attrs("red"), 1.0))
	assert.Equal(t, 0, s.Len())
}

func TestStoreEnumerateOrderIsStable(t *testing.T) {
	s := NewStore()
	s.Insert(attrs("a"), 1, 1, false)
	s.Insert(attrs("b"), 1, 1, false)
	s.Insert(attrs("c"), 1, 1, false)

	got := s.Enumerate()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Attrs[0].Value.MustString())
	assert.Equal(t, "b", got[1].Attrs[0].Value.MustString())
	assert.Equal(t, "c", got[2].Attrs[0].Value.MustString())

	// Mutating the returned slice must not affect the store's own order.
	got[0] = got[2]
	assert.Equal(t, "a", s.Enumerate()[0].Attrs[0].Value.MustString())
}

func TestStoreClearDropsEverythingWithoutPreserve(t *testing.T) {
	s := NewStore()
	s.InsertPrepopulated(attrs("a"), 1, 0, false)
	s.Insert(attrs("b"), 1, 1, false)
	s.Clear(false)
	assert.Equal(t, 0, s.Len())
}

func TestStoreClearPreservesOnlyPrepopulated(t *testing.T) {
	s := NewStore()
	s.InsertPrepopulated(attrs("a"), 1, 0, false)
	s.Insert(attrs("b"), 2, 1, false)
	s.Insert(attrs("a"), 1, 2, false) // further occurrence, post non-prepop boundary

	s.Clear(true)
	require.Equal(t, 1, s.Len())
	kept := s.Enumerate()[0]
	assert.Equal(t, "a", kept.Attrs[0].Value.MustString())
	// The reset restores the prepopulation-time snapshot, not the extra
	// occurrence recorded afterward.
	assert.Equal(t, []int64{0}, kept.References)
}

func TestStorePrepopulationBoundaryClosesAfterFirstRealInsert(t *testing.T) {
	s := NewStore()
	s.Insert(attrs("real"), 1, 1, false)
	// Once a real occurrence has been recorded, later InsertPrepopulated
	// calls no longer count as prepopulation.
	s.InsertPrepopulated(attrs("late"), 1, 2, false)
	s.Clear(true)
	assert.Equal(t, 0, s.Len())
}
