package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	val int
}

func TestArenaAllocateGrowsAcrossSegments(t *testing.T) {
	a := New[node](4)

	var idxs []int32
	for i := 0; i < 10; i++ {
		idx, n := a.Allocate()
		n.val = i
		idxs = append(idxs, idx)
	}

	require.Equal(t, 10, a.Count())
	for i, idx := range idxs {
		assert.Equal(t, i, a.At(idx).val)
	}
}

func TestArenaUnlinkReusesSlot(t *testing.T) {
	a := New[node](4)

	idx0, n0 := a.Allocate()
	n0.val = 42
	a.Unlink(idx0)
	require.Equal(t, 0, a.Count())

	idx1, n1 := a.Allocate()
	assert.Equal(t, idx0, idx1, "freed slot should be reused before growing")
	assert.Equal(t, 42, n1.val, "Unlink does not zero the slot; caller unloads first")
}

func TestArenaReset(t *testing.T) {
	a := New[node](2)
	a.Allocate()
	a.Allocate()
	a.Allocate()
	require.Equal(t, 3, a.Count())

	a.Reset()
	assert.Equal(t, 0, a.Count())

	idx, _ := a.Allocate()
	assert.Equal(t, int32(0), idx)
}

func TestArenaDefaultSegmentSize(t *testing.T) {
	a := New[int](0)
	assert.Equal(t, DefaultSegmentSize, a.segSize)
}
