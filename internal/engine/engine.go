package engine

import (
	"context"
	"fmt"

	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/search"
	"github.com/rs/zerolog"
)

// Setup is a position as the GUI sends it: a starting FEN and the moves
// played from it.
type Setup struct {
	Fen   string
	Moves []string
}

type HistoryValue struct {
	move Move
	undo Undo
}

// Engine is the game the GUI is playing: the current position, the moves
// that led to it, and the searcher that looks for the next one.
type Engine struct {
	log      zerolog.Logger
	searcher *search.Searcher
	options  options.Options
	store    *options.Store

	position    *Position
	start       Position
	StartFen    string
	history     []HistoryValue
	repetitions *search.RepetitionTable
}

type EngineOption func(*Engine)

func WithDiagnostics(log zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

func WithOptions(o options.Options) EngineOption {
	return func(e *Engine) {
		e.options = o
	}
}

// WithStore saves every accepted setoption to store.
func WithStore(store *options.Store) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

func NewEngine(evaluator evaluation.Evaluator, engineOptions ...EngineOption) (*Engine, Error) {
	e := &Engine{
		log:     zerolog.Nop(),
		options: options.Defaults(),
	}
	for _, opt := range engineOptions {
		opt(e)
	}

	searcher, err := search.NewSearcher(evaluator, e.log, e.options.Hash)
	if searcher == nil {
		return nil, err
	}
	if !IsNil(err) {
		e.log.Warn().Err(err).Msg("hash table fell back to the default size")
	}
	e.searcher = searcher
	e.reset(StartingPosition())

	return e, NilError
}

func (e *Engine) reset(p *Position) {
	e.position = p
	e.start = *p
	e.StartFen = p.Fen()
	e.history = []HistoryValue{}
	e.repetitions = search.NewRepetitionTable(p.Hash())
}

func (e *Engine) Options() options.Options {
	return e.options
}

// SetOption changes one option. A Hash size that cannot be allocated leaves
// the table at its fallback size and is reported.
func (e *Engine) SetOption(name string, value string) Error {
	updated := e.options
	err := updated.Set(name, value)
	if !IsNil(err) {
		return err
	}

	var resizeErr Error
	if updated.Hash != e.options.Hash {
		var size int
		size, resizeErr = e.searcher.Resize(updated.Hash)
		if !IsNil(resizeErr) {
			e.log.Warn().Err(resizeErr).Int("hash", updated.Hash).Int("fallback", size).Msg("hash table too large")
			resizeErr = Errorf("Hash %v MB cannot be allocated, using %v MB: %w", updated.Hash, size, resizeErr)
			updated.Hash = size
		}
	}
	e.options = updated

	if updated.Debug {
		e.log = e.log.Level(zerolog.DebugLevel)
	} else {
		e.log = e.log.Level(zerolog.InfoLevel)
	}
	e.searcher.SetDiagnostics(e.log)

	if e.store != nil {
		if err := e.store.Save(updated); !IsNil(err) {
			return Join(resizeErr, Errorf("option set but not saved: %w", err))
		}
	}
	return resizeErr
}

// NewGame starts over from the initial position with an empty table.
func (e *Engine) NewGame() {
	e.searcher.NewGame()
	e.reset(StartingPosition())
}

func (e *Engine) Position() *Position {
	return e.position
}

func (e *Engine) Player() Player {
	return e.position.Player
}

func (e *Engine) FenString() string {
	return e.position.Fen()
}

func (e *Engine) LastMove() Optional[Move] {
	if len(e.history) > 0 {
		return Some(e.history[len(e.history)-1].move)
	}
	return Empty[Move]()
}

func (e *Engine) MoveHistory() []string {
	return MapSlice(e.history, func(h HistoryValue) string {
		return h.move.String()
	})
}

func (e *Engine) PgnFromMoveHistory() string {
	result := ""
	fullMove := e.start.FullMoveClock
	halfMove := 0
	if e.start.Player == Black {
		result += fmt.Sprintf("%v... ", fullMove)
		halfMove = 1
	}
	for _, h := range e.history {
		if halfMove == 0 {
			result += fmt.Sprintf("%v. ", fullMove)
		}

		result += fmt.Sprintf("%v ", h.move.String())

		halfMove += 1
		if halfMove == 2 {
			halfMove = 0
			fullMove += 1
		}
	}
	return result
}

func (e *Engine) PerformMove(move Move) Error {
	irreversible := e.position.IsIrreversible(move)
	undo, err := e.position.MakeMove(move)
	if !IsNil(err) {
		return Errorf("PerformMove: %w", err)
	}
	e.history = append(e.history, HistoryValue{move: move, undo: undo})
	e.repetitions.Push(e.position.Hash(), irreversible)
	return NilError
}

func (e *Engine) PerformMoveFromString(s string) Error {
	move, err := movegen.ParseMove(e.position, s)
	if !IsNil(err) {
		return err
	}
	return e.PerformMove(move)
}

func (e *Engine) Rewind(num int) Error {
	for i := 0; i < num && len(e.history) > 0; i++ {
		h := e.history[len(e.history)-1]
		e.position.UndoMove(h.move, h.undo)
		e.repetitions.Pop()
		e.history = e.history[:len(e.history)-1]
	}
	return NilError
}

func firstIndexNotMatching[A any, B any](a []A, b []B, matches func(A, B) bool) int {
	for i := 0; i < MinInt(len(a), len(b)); i++ {
		if !matches(a[i], b[i]) {
			return i
		}
	}
	return MinInt(len(a), len(b))
}

// SetupPosition moves the game to setup. When setup continues the current
// game only the new moves are played. If any move is illegal the previous
// position is kept and the error returned.
func (e *Engine) SetupPosition(setup Setup) Error {
	start, err := PositionFromFen(setup.Fen)
	if !IsNil(err) {
		return Errorf("couldn't create game from %v: %w", setup.Fen, err)
	}

	if start.Fen() == e.StartFen {
		err = e.continueGame(setup.Moves)
	} else {
		err = e.replaceGame(start, setup.Moves)
	}
	if !IsNil(err) {
		return err
	}

	e.searcher.AdvanceAge()
	e.log.Debug().Str("fen", e.FenString()).Int("moves", len(e.history)).Msg("position")
	return NilError
}

func (e *Engine) continueGame(moves []string) Error {
	common := firstIndexNotMatching(e.history, moves, func(h HistoryValue, m string) bool {
		return h.move.String() == m
	})
	rewound := append([]HistoryValue{}, e.history[common:]...)
	_ = e.Rewind(len(e.history) - common)

	for i := common; i < len(moves); i++ {
		err := e.PerformMoveFromString(moves[i])
		if IsNil(err) {
			continue
		}

		_ = e.Rewind(i - common)
		for _, h := range rewound {
			if replayErr := e.PerformMove(h.move); !IsNil(replayErr) {
				return Join(err, replayErr)
			}
		}
		return err
	}
	return NilError
}

func (e *Engine) replaceGame(start *Position, moves []string) Error {
	position, startPosition, startFen := e.position, e.start, e.StartFen
	history, repetitions := e.history, e.repetitions

	e.reset(start)
	for _, m := range moves {
		err := e.PerformMoveFromString(m)
		if !IsNil(err) {
			e.position, e.start, e.StartFen = position, startPosition, startFen
			e.history, e.repetitions = history, repetitions
			return err
		}
	}
	return NilError
}

// MovesForSelection lists the legal moves starting on the named square.
func (e *Engine) MovesForSelection(selection string) ([]string, Error) {
	index, err := SquareFromString(selection)
	if !IsNil(err) {
		return nil, Errorf("failed to parse selection %w", err)
	}

	legalMoves := movegen.GetMovesBuffer()
	defer movegen.ReleaseMovesBuffer(legalMoves)
	movegen.GenerateLegalMoves(e.position, legalMoves)

	moves := FilterSlice(*legalMoves, func(m Move) bool {
		return m.StartIndex() == index
	})
	return MapSlice(moves, func(m Move) string {
		return m.String()
	}), NilError
}

func (e *Engine) Evaluate() int {
	return e.searcher.Evaluator.Evaluate(e.position)
}

func (e *Engine) IsInCheck() bool {
	return movegen.IsCheck(e.position)
}

func (e *Engine) NoValidMoves() bool {
	return movegen.LegalMovesCount(e.position) == 0
}

func (e *Engine) DrawClock() int {
	return e.position.HalfMoveClock
}

// Search looks for the best move of the current position. The position must
// not change until it returns.
func (e *Engine) Search(ctx context.Context, limits search.Limits, report func(search.Info)) (search.Result, Error) {
	return e.searcher.Search(ctx, e.position, e.repetitions, limits, e.options, report)
}

// Stop ends a running search early.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

func (e *Engine) TableStats() string {
	return e.searcher.Shared().TT.Stats()
}
