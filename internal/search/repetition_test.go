package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepetitionTable(t *testing.T) {
	r := NewRepetitionTable(1)
	for _, hash := range []uint64{2, 3, 4, 1, 2, 3, 4} {
		r.Push(hash, false)
		assert.False(t, r.IsRepeated(), hash)
	}
	r.Push(1, false)
	assert.True(t, r.IsRepeated())
	assert.Equal(t, 9, r.Len())

	r.Pop()
	assert.False(t, r.IsRepeated())
	assert.Equal(t, 8, r.Len())
}

func TestRepetitionStopsAtIrreversibleMoves(t *testing.T) {
	r := NewRepetitionTable(1)
	for _, hash := range []uint64{2, 3, 4, 1, 2, 3, 4} {
		r.Push(hash, false)
	}
	clone := r.Clone()

	// a capture in between makes the earlier positions unreachable
	r.Pop()
	r.Push(4, true)
	r.Push(1, false)
	assert.False(t, r.IsRepeated())

	clone.Push(1, false)
	assert.True(t, clone.IsRepeated())
	assert.Equal(t, 9, r.Len())
}

func TestRepetitionComparesSameSideToMove(t *testing.T) {
	r := NewRepetitionTable(1)
	// 7 is seen twice, but with the other side to move each time
	for _, hash := range []uint64{7, 2, 3, 7, 5, 6} {
		r.Push(hash, false)
	}
	r.Push(7, false)
	assert.False(t, r.IsRepeated())
}
