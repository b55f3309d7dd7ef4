package search

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Shared is the state every worker of a searcher reads and writes. Only
// atomics are used on it during a search.
type Shared struct {
	TT        *TranspositionTable
	EvalCache *EvalCache
	stop      atomic.Bool
}

// Info is a progress report of the reporting worker after each completed
// iteration.
type Info struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	PV    []Move
}

func (i Info) NPS() uint64 {
	seconds := i.Time.Seconds()
	if seconds <= 0 {
		return 0
	}
	return uint64(float64(i.Nodes) / seconds)
}

func (i Info) String() string {
	return fmt.Sprintf("info depth %v score %v nodes %v nps %v time %v pv %v",
		i.Depth, ScoreString(i.Score), i.Nodes, i.NPS(), i.Time.Milliseconds(), LineString(i.PV))
}

type Result struct {
	BestMove Move
	Score    int
	Depth    int
	Nodes    uint64
	PV       []Move
}

// Ponder is the reply expected after BestMove, when the line has one.
func (r Result) Ponder() Optional[Move] {
	if len(r.PV) < 2 {
		return Empty[Move]()
	}
	return Some(r.PV[1])
}

type searchRun struct {
	shared    *Shared
	evaluator evaluation.Evaluator
	log       zerolog.Logger
	tc        TimeControl
	limits    Limits
	age       int
	workers   []*worker
	report    func(Info)
}

func (r *searchRun) totalNodes() uint64 {
	total := uint64(0)
	for _, w := range r.workers {
		total += w.published.Load()
	}
	return total
}

func (r *searchRun) shouldStop(now time.Time) bool {
	if r.shared.stop.Load() {
		return true
	}
	if r.tc.IsOver(now) || (r.limits.Nodes > 0 && r.totalNodes() >= uint64(r.limits.Nodes)) {
		r.shared.stop.Store(true)
		return true
	}
	return false
}

// Searcher runs searches one at a time over a transposition table that lives
// between them.
type Searcher struct {
	Evaluator evaluation.Evaluator

	log    zerolog.Logger
	lock   sync.Mutex
	shared *Shared
	hashMB int
	age    int
}

func NewSearcher(evaluator evaluation.Evaluator, log zerolog.Logger, hashMB int) (*Searcher, Error) {
	tt, err := NewTranspositionTable(hashMB)
	if tt == nil {
		return nil, err
	}
	return &Searcher{
		Evaluator: evaluator,
		log:       log,
		shared: &Shared{
			TT:        tt,
			EvalCache: NewEvalCache(),
		},
		hashMB: hashMB,
	}, err
}

func (s *Searcher) SetDiagnostics(log zerolog.Logger) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.log = log
}

func (s *Searcher) Shared() *Shared {
	return s.shared
}

// Stop asks a running search to return its best move. It is safe to call
// from any goroutine.
func (s *Searcher) Stop() {
	s.shared.stop.Store(true)
}

// NewGame forgets everything learned from earlier positions.
func (s *Searcher) NewGame() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.age = 0
	s.shared.TT.Clear()
	s.shared.EvalCache.Clear()
}

// AdvanceAge marks the entries written so far as belonging to an earlier
// position, so the next search may overwrite them.
func (s *Searcher) AdvanceAge() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.age = (s.age + 1) & AgeMask
}

// resize reallocates the table when the Hash option changed. On failure the
// table falls back to the default size and the error is returned.
func (s *Searcher) resize(hashMB int) Error {
	if hashMB == s.hashMB {
		return NilError
	}
	s.shared.TT = nil
	tt, err := NewTranspositionTable(hashMB)
	if tt == nil {
		tt, _ = NewTranspositionTable(DefaultHashMB)
	}
	s.shared.TT = tt
	s.hashMB = hashMB
	if !IsNil(err) && tt != nil {
		s.hashMB = tt.SizeMB()
	}
	return err
}

// Resize applies a new Hash option right away. On failure the table keeps
// working at its fallback size, which is returned with the error.
func (s *Searcher) Resize(hashMB int) (int, Error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	err := s.resize(hashMB)
	if s.shared.TT == nil {
		return 0, err
	}
	return s.shared.TT.SizeMB(), err
}

// Search looks for the best move in p. history holds the hashes of the game
// up to and including p; nil means p is the first position. report, when
// given, receives the progress of each completed iteration.
//
// Cancelling ctx or calling Stop ends the search early; the result is then
// the best move of the last completed iteration.
func (s *Searcher) Search(
	ctx context.Context,
	p *Position,
	history *RepetitionTable,
	limits Limits,
	opts options.Options,
	report func(Info),
) (Result, Error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.resize(opts.Hash); !IsNil(err) {
		s.log.Warn().Err(err).Int("hash", opts.Hash).Int("fallback", s.shared.TT.SizeMB()).Msg("hash table too large")
	}

	if history == nil {
		history = NewRepetitionTable(p.Hash())
	}

	s.shared.stop.Store(false)
	unregister := context.AfterFunc(ctx, s.Stop)
	defer unregister()

	start := time.Now()
	run := &searchRun{
		shared:    s.shared,
		evaluator: s.Evaluator,
		log:       s.log,
		tc:        NewTimeControl(limits, p.Player, opts.Overhead(), start),
		limits:    limits,
		age:       s.age,
		report:    report,
	}

	threads := MaxInt(opts.Threads, 1)
	run.workers = make([]*worker, threads)
	for i := range run.workers {
		run.workers[i] = newWorker(i, run, p, history)
	}

	s.log.Debug().
		Int("threads", threads).
		Str("fen", p.Fen()).
		Str("limits", fmt.Sprintf("%+v", limits)).
		Msg("search started")

	g := errgroup.Group{}
	for _, w := range run.workers {
		g.Go(func() error {
			err := w.iterate()
			if w.id == 0 {
				run.shared.stop.Store(true)
			}
			if !IsNil(err) {
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	result := run.workers[0].best
	result.Nodes = run.totalNodes()

	if err != nil {
		s.log.Error().Err(err).Msg("search failed")
		return result, Wrap(err)
	}

	if result.BestMove.IsNull() {
		moves := movegen.GetMovesBuffer()
		defer movegen.ReleaseMovesBuffer(moves)
		movegen.GenerateLegalMoves(p, moves)
		if len(*moves) > 0 {
			result.BestMove = (*moves)[0]
			result.PV = []Move{(*moves)[0]}
		}
	}

	s.log.Debug().
		Str("bestmove", result.BestMove.String()).
		Int("depth", result.Depth).
		Uint64("nodes", result.Nodes).
		Dur("elapsed", time.Since(start)).
		Str("tt", s.shared.TT.Stats()).
		Msg("search finished")

	return result, NilError
}

// iterate deepens until the depth limit or a stop. Odd helpers search one
// ply deeper than the others so the workers spread over the tree.
func (w *worker) iterate() Error {
	maxDepth := MaxStoredDepth
	if w.run.limits.Depth > 0 {
		maxDepth = MinInt(w.run.limits.Depth, maxDepth)
	}

	alpha, beta := -Inf, Inf
	for depth := 1; depth <= maxDepth; depth++ {
		searchDepth := depth
		if w.id%2 == 1 {
			searchDepth = MinInt(depth+1, maxDepth)
		}

		w.heuristics.ResetIteration()

		score := w.negamax(alpha, beta, searchDepth)
		if !w.stopped() && (score <= alpha || score >= beta) {
			alpha, beta = -Inf, Inf
			score = w.negamax(alpha, beta, searchDepth)
		}
		if w.stopped() {
			break
		}

		alpha, beta = score-AspirationWindow, score+AspirationWindow
		w.completeIteration(searchDepth, score)
	}

	w.published.Store(w.nodes)
	return w.err
}

func (w *worker) completeIteration(depth int, score int) {
	w.published.Store(w.nodes)

	line := w.pv.Line()
	if len(line) > 0 {
		w.best = Result{
			BestMove: line[0],
			Score:    score,
			Depth:    depth,
			PV:       line,
		}
	}

	if w.id != 0 {
		return
	}

	now := time.Now()
	info := Info{
		Depth: depth,
		Score: score,
		Nodes: w.run.totalNodes(),
		Time:  w.run.tc.Elapsed(now),
		PV:    line,
	}
	w.run.log.Debug().Int("depth", depth).Str("score", ScoreString(score)).Str("pv", LineString(line)).Msg("iteration")
	if w.run.report != nil {
		w.run.report(info)
	}
}
