package uci

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/engine"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/search"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	lock  sync.Mutex
	lines []string
}

func (r *recorder) logger() Logger {
	return FuncLogger(func(s string) {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.lines = append(r.lines, strings.Split(strings.TrimRight(s, "\n"), "\n")...)
	})
}

func (r *recorder) Lines() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string{}, r.lines...)
}

func (r *recorder) Last() string {
	lines := r.Lines()
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func newTestRunner(t *testing.T) (*UciRunner, *recorder) {
	o := options.Defaults()
	o.Hash = 4
	e, err := engine.NewEngine(evaluation.PieceSquareEvaluator{}, engine.WithOptions(o))
	require.True(t, IsNil(err), err)

	r := &recorder{}
	return NewUciRunner(e, r.logger(), zerolog.Nop()), r
}

func run(t *testing.T, u *UciRunner, lines ...string) []string {
	result := []string{}
	for _, line := range lines {
		out, err := u.HandleInput(line)
		require.True(t, IsNil(err), "%v: %v", line, err)
		result = append(result, out...)
	}
	return result
}

func TestUci(t *testing.T) {
	u, _ := newTestRunner(t)
	out := run(t, u, "uci")

	assert.Equal(t, "id name "+EngineName, out[0])
	assert.Equal(t, "id author "+EngineAuthor, out[1])
	assert.Contains(t, out, "option name Threads type spin default 1 min 1 max 1024")
	assert.Contains(t, out, "option name Hash type spin default 64 min 1 max 33554432")
	assert.Contains(t, out, "option name Move Overhead type spin default 10 min 0 max 1000")
	assert.Equal(t, "uciok", out[len(out)-1])

	assert.Equal(t, []string{"readyok"}, run(t, u, "isready"))
}

func TestGoDepth(t *testing.T) {
	u, r := newTestRunner(t)
	run(t, u,
		"ucinewgame",
		"position startpos moves e2e4 e7e5",
		"go depth 3",
	)
	u.Wait()

	lines := r.Lines()
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "info depth 1 score cp "), lines[0])
	assert.True(t, strings.HasPrefix(r.Last(), "bestmove "), r.Last())
	assert.False(t, u.IsSearching())
}

func TestUciIndexBug2(t *testing.T) {
	u, r := newTestRunner(t)
	run(t, u,
		"isready",
		"uci",
		"position fen 2kr3r/p1p2ppp/2n1b3/2bqp3/Pp1p4/1P1P1N1P/2PBBPP1/R2Q1RK1 w - - 24 13",
		"position fen 2kr3r/p1p2ppp/2n1b3/2bqp3/Pp1p4/1P1P1N1P/2PBBPP1/R2Q1RK1 w - - 24 13 moves g2g4",
		"go depth 2",
	)
	u.Wait()
	assert.True(t, strings.HasPrefix(r.Last(), "bestmove "), r.Last())
}

func TestUciCastlingBug1(t *testing.T) {
	u, _ := newTestRunner(t)
	fen := "rn1qk2r/ppp3pp/3b1n2/3ppb2/8/2NPBNP1/PPP2PBP/R2QK2R b KQkq - 15 8"
	run(t, u,
		"position fen "+fen,
		"position fen "+fen+" moves e8g8",
		"position fen "+fen+" moves e8g8 d3d4",
	)
	assert.Equal(t, "rn1q1rk1/ppp3pp/3b1n2/3ppb2/3P4/2N1BNP1/PPP2PBP/R2QK2R b KQ - 0 9", u.Engine.FenString())
}

func TestMateIsReportedInMoves(t *testing.T) {
	u, r := newTestRunner(t)
	run(t, u,
		"position fen 6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1",
		"go depth 3",
	)
	u.Wait()

	lines := r.Lines()
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[len(lines)-2], "score mate 1")
	assert.Equal(t, "bestmove d1d8", r.Last())
}

func TestInfiniteWaitsForStop(t *testing.T) {
	u, r := newTestRunner(t)
	run(t, u,
		"position fen 4k3/8/8/8/8/8/8/3QK3 w - - 0 1",
		"go infinite",
	)
	time.Sleep(200 * time.Millisecond)
	assert.True(t, u.IsSearching())
	for _, line := range r.Lines() {
		assert.False(t, strings.HasPrefix(line, "bestmove"), line)
	}

	run(t, u, "stop")
	assert.True(t, strings.HasPrefix(r.Last(), "bestmove "), r.Last())
	assert.False(t, u.IsSearching())
}

func TestShallowInfiniteSearchStillWaits(t *testing.T) {
	u, r := newTestRunner(t)
	run(t, u, "go depth 1 infinite")
	time.Sleep(100 * time.Millisecond)
	assert.True(t, u.IsSearching())

	run(t, u, "stop")
	assert.True(t, strings.HasPrefix(r.Last(), "bestmove "), r.Last())
}

func TestCheckmatedSideHasNoMove(t *testing.T) {
	u, r := newTestRunner(t)
	run(t, u,
		"position fen 3R2k1/5ppp/8/8/8/8/5PPP/6K1 b - - 1 1",
		"go movetime 100",
	)
	u.Wait()
	assert.Equal(t, "bestmove 0000", r.Last())
}

func TestErrorsKeepTheEngineReady(t *testing.T) {
	u, _ := newTestRunner(t)
	run(t, u, "position startpos moves e2e4")
	fen := u.Engine.FenString()

	for _, line := range []string{
		"frobnicate",
		"go depth x",
		"go depth",
		"position",
		"position fen not/a/fen w - - 0 1",
		"position startpos moves e2e4 e2e4",
		"setoption name Threads value 0",
		"setoption name Nonsense value 3",
		"setoption Threads 2",
		"perft",
		"perft 0",
	} {
		out := u.Handle(line)
		require.Len(t, out, 1, line)
		assert.True(t, strings.HasPrefix(out[0], "info string error "), out[0])
	}

	assert.Equal(t, fen, u.Engine.FenString())
	assert.Equal(t, []string{"readyok"}, u.Handle("isready"))
}

func TestSetOption(t *testing.T) {
	u, _ := newTestRunner(t)
	run(t, u,
		"setoption name Threads value 3",
		"setoption name move overhead value 25",
		"setoption name Debug value true",
	)
	o := u.Engine.Options()
	assert.Equal(t, 3, o.Threads)
	assert.Equal(t, 25, o.MoveOverhead)
	assert.True(t, o.Debug)
}

func TestHashThatCannotBeAllocatedIsReported(t *testing.T) {
	u, r := newTestRunner(t)

	out := u.Handle("setoption name Hash value 33554432")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "info string error Hash 33554432 MB cannot be allocated"), out[0])
	assert.Equal(t, search.DefaultHashMB, u.Engine.Options().Hash)

	run(t, u, "setoption name Hash value 2")
	assert.Equal(t, 2, u.Engine.Options().Hash)

	run(t, u, "go depth 1")
	u.Wait()
	assert.True(t, strings.HasPrefix(r.Last(), "bestmove "), r.Last())
}

func TestPerft(t *testing.T) {
	u, _ := newTestRunner(t)
	out := run(t, u, "position startpos", "perft 2")

	require.Len(t, out, 22)
	assert.Equal(t, "a2a3: 20", out[0])
	assert.Equal(t, "", out[20])
	assert.Equal(t, "Nodes searched: 400", out[21])
}

func TestDisplayAndEval(t *testing.T) {
	u, _ := newTestRunner(t)
	out := run(t, u, "position fen 4k3/8/8/8/8/8/8/3QK2r w - - 0 1", "d")
	assert.Contains(t, out, "Fen: 4k3/8/8/8/8/8/8/3QK2r w - - 0 1")
	assert.Contains(t, out, "Checkers: h1")

	out = run(t, u, "eval")
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], "info string eval "), out[0])
}

func TestParseGo(t *testing.T) {
	limits, ignored, err := parseGo("go wtime 60000 btime -20 winc 1000 binc 0 movestogo 12")
	require.True(t, IsNil(err), err)
	assert.Empty(t, ignored)
	assert.Equal(t, search.Limits{
		WTime:     Some(time.Minute),
		BTime:     Some(time.Duration(0)),
		WInc:      time.Second,
		MovesToGo: 12,
	}, limits)

	limits, ignored, err = parseGo("go depth 7 nodes 5000 movetime 250 ponder")
	require.True(t, IsNil(err), err)
	assert.Equal(t, search.Limits{
		Depth:    7,
		Nodes:    5000,
		MoveTime: 250 * time.Millisecond,
		Ponder:   true,
	}, limits)

	limits, ignored, err = parseGo("go")
	require.True(t, IsNil(err), err)
	assert.Equal(t, search.Limits{}, limits)
	assert.Empty(t, ignored)

	limits, ignored, err = parseGo("go searchmoves e2e4 d2d4 mate 3 depth 2 sideways")
	require.True(t, IsNil(err), err)
	assert.Equal(t, search.Limits{Depth: 2}, limits)
	assert.Equal(t, []string{"searchmoves e2e4 d2d4", "mate 3", "sideways"}, ignored)
}

func TestUnsupportedGoParametersStillSearch(t *testing.T) {
	u, r := newTestRunner(t)
	out := u.Handle("go depth 2 searchmoves e2e4 mate 3")
	u.Wait()

	assert.Equal(t, []string{
		"info string ignoring unsupported go parameter 'searchmoves e2e4'",
		"info string ignoring unsupported go parameter 'mate 3'",
	}, out)
	assert.True(t, strings.HasPrefix(r.Last(), "bestmove "), r.Last())
}

func TestParsePosition(t *testing.T) {
	setup, err := parsePosition("position startpos")
	require.True(t, IsNil(err), err)
	assert.Equal(t, []string{}, setup.Moves)

	setup, err = parsePosition("position fen 4k3/8/8/8/8/8/8/4K3 w - - 0 1 moves e1e2 e8e7")
	require.True(t, IsNil(err), err)
	assert.Equal(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1", setup.Fen)
	assert.Equal(t, []string{"e1e2", "e8e7"}, setup.Moves)

	name, value, err := parseSetOption("setoption name Move Overhead value 100")
	require.True(t, IsNil(err), err)
	assert.Equal(t, "Move Overhead", name)
	assert.Equal(t, "100", value)
}
