package search

import (
	"testing"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSEE(t *testing.T) {
	for _, c := range []struct {
		fen      string
		move     string
		expected int
	}{
		// the bishop takes back the pawn
		{"b3k3/8/8/3r4/4P3/8/8/4K3 w - - 0 1", "e4d5", 400},
		{"4k3/8/8/3r4/4P3/8/8/4K3 w - - 0 1", "e4d5", 500},
		// queen for a pawn
		{"4k3/8/2p5/3p4/8/8/3Q4/4K3 w - - 0 1", "d2d5", -800},
		// the second rook joins through the first
		{"3rk3/8/8/3p4/8/8/3R4/3RK3 w - - 0 1", "d2d5", 100},
		{"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1", "e5d6", 100},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "a1a8", 0},
	} {
		p := mustFen(t, c.fen)
		move, err := movegen.ParseMove(p, c.move)
		require.True(t, IsNil(err), err)
		assert.Equal(t, c.expected, SEE(p, move), c.fen)
	}
}

func TestSEEAfterMove(t *testing.T) {
	p := mustFen(t, "4k3/8/8/3p4/4N3/5P2/8/4K3 b - - 0 1")
	assert.Equal(t, 200, SEEAfterMove(p, E4))

	p = mustFen(t, "4k3/8/8/3p4/4N3/8/8/4K3 b - - 0 1")
	assert.Equal(t, 300, SEEAfterMove(p, E4))

	// nothing attacks the knight
	p = mustFen(t, "4k3/8/8/8/4N3/8/8/4K3 b - - 0 1")
	assert.Equal(t, 0, SEEAfterMove(p, E4))

	// taking the defended queen with a queen loses
	p = mustFen(t, "4k3/8/8/3q4/4Q3/5P2/8/4K3 b - - 0 1")
	assert.Equal(t, 0, SEEAfterMove(p, E4))
}
