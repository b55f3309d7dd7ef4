package engine

import (
	"context"
	"testing"

	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	o := options.Defaults()
	o.Hash = 4
	e, err := NewEngine(evaluation.PieceSquareEvaluator{}, WithOptions(o))
	require.True(t, IsNil(err), err)
	return e
}

func TestIndexBug2(t *testing.T) {
	e := newTestEngine(t)
	err := e.SetupPosition(Setup{
		Fen:   "2kr3r/p1p2ppp/2n1b3/2bqp3/Pp1p4/1P1P1N1P/2PBBPP1/R2Q1RK1 w - - 24 13",
		Moves: []string{},
	})
	require.True(t, IsNil(err), err)

	err = e.PerformMoveFromString("g2g4")
	require.True(t, IsNil(err), err)

	result, err := e.Search(context.Background(), search.Limits{Depth: 3}, nil)
	require.True(t, IsNil(err), err)
	assert.False(t, result.BestMove.IsNull())
}

func TestCastlingBug1(t *testing.T) {
	fen := "rn1qk2r/ppp3pp/3b1n2/3ppb2/8/2NPBNP1/PPP2PBP/R2QK2R b KQkq - 15 8"
	e := newTestEngine(t)

	for _, moves := range [][]string{
		{},
		{"e8g8"},
		{"e8g8", "d3d4"},
	} {
		err := e.SetupPosition(Setup{Fen: fen, Moves: moves})
		require.True(t, IsNil(err), err)
		assert.Equal(t, moves, e.MoveHistory())
	}
	assert.Equal(t, "rn1q1rk1/ppp3pp/3b1n2/3ppb2/3P4/2N1BNP1/PPP2PBP/R2QK2R b KQ - 0 9", e.FenString())

	// a different line from the same start
	err := e.SetupPosition(Setup{Fen: fen, Moves: []string{"e8g8", "a2a3"}})
	require.True(t, IsNil(err), err)
	assert.Equal(t, []string{"e8g8", "a2a3"}, e.MoveHistory())
	assert.Equal(t, "8... e8g8 9. a2a3 ", e.PgnFromMoveHistory())
}

func TestIllegalMoveKeepsPosition(t *testing.T) {
	e := newTestEngine(t)
	err := e.SetupPosition(Setup{Fen: StartingFen, Moves: []string{"e2e4", "e7e5"}})
	require.True(t, IsNil(err), err)
	before := e.FenString()

	err = e.SetupPosition(Setup{Fen: StartingFen, Moves: []string{"e2e4", "e7e5", "e1e3"}})
	assert.False(t, IsNil(err))
	assert.Equal(t, before, e.FenString())
	assert.Equal(t, []string{"e2e4", "e7e5"}, e.MoveHistory())

	err = e.SetupPosition(Setup{Fen: StartingFen, Moves: []string{"d2d4", "d7d5", "d4d5"}})
	assert.False(t, IsNil(err))
	assert.Equal(t, before, e.FenString())
	assert.Equal(t, []string{"e2e4", "e7e5"}, e.MoveHistory())

	err = e.SetupPosition(Setup{Fen: "4k3/8/8/8/8/8/8/4K3 w - - 0 1", Moves: []string{"e1e3"}})
	assert.False(t, IsNil(err))
	assert.Equal(t, before, e.FenString())
	assert.Equal(t, StartingFen, e.StartFen)

	err = e.SetupPosition(Setup{Fen: "not a fen"})
	assert.False(t, IsNil(err))
	assert.Equal(t, before, e.FenString())
}

func TestRewindAndNewGame(t *testing.T) {
	e := newTestEngine(t)
	err := e.SetupPosition(Setup{Fen: StartingFen, Moves: []string{"g1f3", "g8f6", "f3g1", "f6g8"}})
	require.True(t, IsNil(err), err)
	require.True(t, e.LastMove().HasValue())
	assert.Equal(t, "f6g8", e.LastMove().Value().String())

	require.True(t, IsNil(e.Rewind(2)))
	assert.Equal(t, []string{"g1f3", "g8f6"}, e.MoveHistory())
	assert.Equal(t, White, e.Player())

	require.True(t, IsNil(e.Rewind(10)))
	assert.Equal(t, StartingFen, e.FenString())

	e.NewGame()
	assert.Empty(t, e.MoveHistory())
	assert.Equal(t, StartingFen, e.FenString())
}

func TestGameMovesFeedTheRepetitionTable(t *testing.T) {
	e := newTestEngine(t)
	// a queen up, but the knights have already shuffled twice
	err := e.SetupPosition(Setup{
		Fen: "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		Moves: []string{
			"g1f3", "g8f6", "f3g1", "f6g8",
			"g1f3", "g8f6", "f3g1", "f6g8",
		},
	})
	require.True(t, IsNil(err), err)

	assert.Equal(t, 9, e.repetitions.Len())
	assert.True(t, e.repetitions.IsRepeated())

	require.True(t, IsNil(e.Rewind(1)))
	assert.False(t, e.repetitions.IsRepeated())
}

func TestMovesForSelection(t *testing.T) {
	e := newTestEngine(t)
	moves, err := e.MovesForSelection("g1")
	require.True(t, IsNil(err), err)
	assert.ElementsMatch(t, []string{"g1f3", "g1h3"}, moves)

	_, err = e.MovesForSelection("z9")
	assert.False(t, IsNil(err))
}

func TestSetOption(t *testing.T) {
	e := newTestEngine(t)
	require.True(t, IsNil(e.SetOption("threads", "2")))
	assert.Equal(t, 2, e.Options().Threads)

	assert.False(t, IsNil(e.SetOption("Threads", "0")))
	assert.Equal(t, 2, e.Options().Threads)

	store, err := options.OpenStore(t.TempDir())
	require.True(t, IsNil(err), err)
	defer store.Close()

	e, err = NewEngine(evaluation.PieceSquareEvaluator{}, WithStore(store), WithOptions(options.Options{Threads: 1, Hash: 1}))
	require.True(t, IsNil(err), err)
	require.True(t, IsNil(e.SetOption("Move Overhead", "30")))

	saved, err := store.Load()
	require.True(t, IsNil(err), err)
	assert.Equal(t, 30, saved.MoveOverhead)
	assert.Equal(t, 1, saved.Hash)
}

func TestGameStatus(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.IsInCheck())
	assert.False(t, e.NoValidMoves())

	err := e.SetupPosition(Setup{Fen: StartingFen, Moves: []string{"f2f3", "e7e5", "g2g4", "d8h4"}})
	require.True(t, IsNil(err), err)
	assert.True(t, e.IsInCheck())
	assert.True(t, e.NoValidMoves())

	err = e.SetupPosition(Setup{Fen: "7k/8/6Q1/8/8/8/8/K7 b - - 37 80"})
	require.True(t, IsNil(err), err)
	assert.False(t, e.IsInCheck())
	assert.True(t, e.NoValidMoves())
	assert.Equal(t, 37, e.DrawClock())
}
