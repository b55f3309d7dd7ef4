package search

import (
	"testing"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
	"github.com/stretchr/testify/assert"
)

func TestMvvLva(t *testing.T) {
	assert.Greater(t, MvvLva[Pawn][Queen], MvvLva[Queen][Queen])
	assert.Greater(t, MvvLva[Queen][Queen], MvvLva[Pawn][Rook])
	assert.Greater(t, MvvLva[Knight][Bishop], MvvLva[Bishop][Bishop])
}

func TestScoreMoves(t *testing.T) {
	p := mustFen(t, "4k3/8/8/3q4/4P3/8/8/R3K2N w - - 0 1")

	moves := []Move{}
	movegen.GenerateLegalMoves(p, &moves)
	scores := make([]int, len(moves))

	find := func(text string) int {
		for i, m := range moves {
			if m.String() == text {
				return i
			}
		}
		t.Fatalf("%v not generated", text)
		return -1
	}

	h := Heuristics{}
	killer := moves[find("a1a7")]
	counter := moves[find("h1g3")]
	previous := NewMove(D8, D5, QuietMove)
	h.StoreCutoff(3, killer, NullMove, NullMove)
	h.StoreCutoff(3, moves[find("a1a2")], previous, NullMove)
	h.Counters[previous.StartIndex()][previous.EndIndex()] = counter
	h.UpdateHistory(White, King, F2, 4)

	ttMove := moves[find("e1e2")]
	h.ScoreMoves(p, moves, scores, 3, Some(ttMove), previous, NullMove)

	assert.Equal(t, TranspositionMoveScore, scores[find("e1e2")])
	assert.Equal(t, CaptureScore+MvvLva[Pawn][Queen], scores[find("e4d5")])
	assert.Equal(t, FirstKillerScore, scores[find("a1a2")])
	assert.Equal(t, SecondKillerScore, scores[find("a1a7")])
	assert.Equal(t, CounterMoveScore, scores[find("h1g3")])
	assert.Equal(t, 16, scores[find("e1f2")])
	assert.Equal(t, 0, scores[find("a1b1")])

	for i := range moves {
		PickBest(moves, scores, i)
	}
	assert.Equal(t, "e1e2", moves[0].String())
	assert.Equal(t, "e4d5", moves[1].String())
	assert.Equal(t, "a1a2", moves[2].String())
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1], scores[i])
	}

	h.ResetIteration()
	assert.Equal(t, NullMove, h.Killers[0][3])
	assert.Equal(t, 0, h.History[White][King][F2])
	assert.Equal(t, counter, h.Counters[previous.StartIndex()][previous.EndIndex()])

	h.Reset()
	assert.Equal(t, NullMove, h.Counters[previous.StartIndex()][previous.EndIndex()])
}

func TestPairMoves(t *testing.T) {
	h := Heuristics{}
	own := NewMove(E2, E4, DoublePawnPush)
	reply := NewMove(G1, F3, QuietMove)
	h.StoreCutoff(2, reply, NullMove, own)
	assert.Equal(t, reply, h.Pairs[E2][E4])

	// storing the same killer twice keeps the second slot
	h.StoreCutoff(2, reply, NullMove, NullMove)
	assert.Equal(t, reply, h.Killers[0][2])
	assert.Equal(t, NullMove, h.Killers[1][2])
}
