package search

import (
	"sync/atomic"
	"time"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
)

// The shared stop flag, the deadline and the node limit are checked once
// every pollInterval nodes.
const pollInterval = 2048

const FiftyMoveHalfMoves = 100

// worker is one searching thread. Everything in it is owned by the thread;
// the only shared state is reached through run.
type worker struct {
	id  int
	run *searchRun

	pos         *Position
	repetitions *RepetitionTable
	heuristics  Heuristics
	pv          PrincipalVariation

	ply int
	// played[ply] is the move that led to the node at ply.
	played [MaxPly + 1]Move

	moves         [MaxPly + 1][movegen.MaxMoves]Move
	scores        [MaxPly + 1][movegen.MaxMoves]int
	captures      [MaxPly + 1][movegen.MaxMoves]Move
	captureScores [MaxPly + 1][movegen.MaxMoves]int

	nodes     uint64
	published atomic.Uint64
	aborted   bool
	err       Error

	best Result
}

func newWorker(id int, run *searchRun, p *Position, history *RepetitionTable) *worker {
	return &worker{
		id:          id,
		run:         run,
		pos:         p.Copy(),
		repetitions: history.Clone(),
		err:         NilError,
	}
}

func (w *worker) visit() {
	w.nodes++
	if w.nodes%pollInterval != 0 {
		return
	}
	w.published.Store(w.nodes)
	if w.run.shouldStop(time.Now()) {
		w.aborted = true
	}
}

func (w *worker) stopped() bool {
	return w.aborted
}

// fail aborts every worker. Errors here come from the board refusing a move
// the generator produced, so the tree can no longer be trusted.
func (w *worker) fail(err Error) {
	w.err = Join(w.err, err)
	w.aborted = true
	w.run.shared.stop.Store(true)
}

func (w *worker) evaluate() int {
	return w.run.shared.EvalCache.Evaluate(w.pos, w.run.evaluator)
}

func (w *worker) isDraw() bool {
	return w.pos.HalfMoveClock >= FiftyMoveHalfMoves || w.repetitions.IsRepeated()
}

func (w *worker) previousMoves() (Move, Move) {
	previous, ownPrevious := NullMove, NullMove
	if w.ply >= 1 {
		previous = w.played[w.ply]
	}
	if w.ply >= 2 {
		ownPrevious = w.played[w.ply-1]
	}
	return previous, ownPrevious
}

// enter and leave wrap a made move with the ply bookkeeping.
func (w *worker) enter(move Move, irreversible bool) {
	w.ply++
	w.played[w.ply] = move
	w.repetitions.Push(w.pos.Hash(), irreversible)
}

func (w *worker) leave() {
	w.repetitions.Pop()
	w.ply--
}

func (w *worker) negamax(alpha int, beta int, depth int) int {
	if w.stopped() {
		return 0
	}
	w.pv.InitLength(w.ply)
	w.visit()

	p := w.pos

	if w.ply > 0 && w.isDraw() {
		return DrawScore
	}

	alpha = MaxInt(alpha, -Mate+w.ply-1)
	beta = MinInt(beta, Mate-w.ply)
	if alpha >= beta {
		return alpha
	}

	pvNode := beta-alpha > 1
	hash := p.Hash()

	cached, ttMove := w.run.shared.TT.Read(hash, alpha, beta, depth, w.ply)
	if cached.HasValue() && !pvNode {
		return cached.Value()
	}

	if depth <= 0 {
		return w.quiesce(alpha, beta)
	}

	if w.ply >= MaxPly {
		return w.evaluate()
	}

	moves := w.moves[w.ply][:0]
	movegen.GenerateLegalMoves(p, &moves)
	inCheck := movegen.IsCheck(p)

	if len(moves) == 0 {
		if inCheck {
			return -Mate + w.ply
		}
		return DrawScore
	}

	if NullMovePruningApplies(p.Bitboards.Occupied.OnesCount(), depth, inCheck, w.ply, p.HasNonPawnMaterial(p.Player)) {
		undo := p.MakeNullMove()
		w.enter(NullMove, true)
		score := -w.negamax(-beta, -beta+1, depth-NullMoveReduction)
		w.leave()
		p.UndoNullMove(undo)

		if w.stopped() {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	staticEval := w.evaluate()

	if RazoringApplies(depth, inCheck, pvNode) {
		value := staticEval + RazoringMargin
		if value < beta {
			score := w.quiesce(alpha, beta)
			if depth == 1 {
				return MaxInt(score, value)
			}
			value += RazoringSecondMargin
			if value < beta && score < beta {
				return MaxInt(score, value)
			}
		}
	}

	scores := w.scores[w.ply][:len(moves)]
	previous, ownPrevious := w.previousMoves()
	w.heuristics.ScoreMoves(p, moves, scores, w.ply, ttMove, previous, ownPrevious)

	bound := UpperBound
	bestMove := ttMove.ValueOr(NullMove)
	player := p.Player

	for i := range moves {
		PickBest(moves, scores, i)
		move := moves[i]
		moved := p.PieceAt(move.StartIndex()).PieceType()
		irreversible := p.IsIrreversible(move)

		undo, err := p.MakeMove(move)
		if !IsNil(err) {
			w.fail(err)
			return 0
		}

		givesCheck := movegen.IsCheck(p)
		extend := 0
		if givesCheck && IsSafeCheck(SEEAfterMove(p, move.EndIndex()), PieceValues[moved]) {
			extend = 1
		}

		if IsFutile(depth, alpha, beta, move.IsCapture(), inCheck, givesCheck, staticEval, i) ||
			LateMovePruningApplies(i, depth, pvNode, inCheck, alpha, move) {
			p.UndoMove(move, undo)
			break
		}

		reduce := 0
		if LateMoveReductionApplies(move, depth, i, inCheck, givesCheck, pvNode, extend) {
			reduce = 1
		}

		w.enter(move, irreversible)
		score := w.searchMove(alpha, beta, depth, reduce, extend, pvNode)
		w.leave()
		p.UndoMove(move, undo)

		if w.stopped() {
			return 0
		}

		if score > alpha {
			quiet := !move.IsCapture()
			if quiet {
				w.heuristics.UpdateHistory(player, moved, move.EndIndex(), depth)
			}

			bound = ExactBound
			alpha = score
			w.pv.Push(w.ply, move)
			bestMove = move

			if score >= beta {
				w.run.shared.TT.Write(hash, beta, move, depth, w.ply, LowerBound, w.run.age)
				if quiet {
					w.heuristics.StoreCutoff(w.ply, move, previous, ownPrevious)
				}
				return beta
			}
		}
	}

	w.run.shared.TT.Write(hash, alpha, bestMove, depth, w.ply, bound, w.run.age)
	return alpha
}

// searchMove searches the child already entered with a null window first,
// and only widens it when the move looks better than alpha.
func (w *worker) searchMove(alpha int, beta int, depth int, reduce int, extend int, pvNode bool) int {
	if w.stopped() {
		return 0
	}

	score := -w.negamax(-alpha-1, -alpha, depth-reduce+extend-1)

	if score > alpha && reduce > 0 {
		score = -w.negamax(-alpha-1, -alpha, depth-1)
	}

	if score > alpha && score < beta && pvNode {
		score = -w.negamax(-beta, -alpha, depth-1)
	}

	return score
}

func (w *worker) quiesce(alpha int, beta int) int {
	if w.stopped() {
		return 0
	}
	w.visit()

	p := w.pos

	if w.ply > 0 && w.isDraw() {
		return DrawScore
	}

	if w.ply >= MaxPly {
		return w.evaluate()
	}

	standPat := w.evaluate()
	if standPat >= beta {
		return beta
	}
	if standPat < alpha-DeltaMargin {
		return alpha
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := w.captures[w.ply][:0]
	movegen.GenerateCaptures(p, &moves)
	scores := w.captureScores[w.ply][:len(moves)]
	w.heuristics.ScoreMoves(p, moves, scores, w.ply, Empty[Move](), NullMove, NullMove)

	for i := range moves {
		PickBest(moves, scores, i)
		move := moves[i]

		if !move.IsEnPassant() {
			attacker := PieceValues[p.PieceAt(move.StartIndex()).PieceType()]
			victim := PieceValues[p.PieceAt(move.EndIndex()).PieceType()]
			if attacker > victim && SEE(p, move) < 0 {
				continue
			}
		}

		undo, err := p.MakeMove(move)
		if !IsNil(err) {
			w.fail(err)
			return 0
		}
		w.enter(move, true)
		score := -w.quiesce(-beta, -alpha)
		w.leave()
		p.UndoMove(move, undo)

		if w.stopped() {
			return 0
		}

		if score > alpha {
			alpha = score
			if score >= beta {
				return beta
			}
		}
	}

	return alpha
}
