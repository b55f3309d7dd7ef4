package search

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

const (
	TranspositionMoveScore = 1 << 30
	CaptureScore           = 1_000_000
	FirstKillerScore       = 500_000
	SecondKillerScore      = 450_000
	CounterMoveScore       = 400_000
	PairMoveScore          = 350_000
)

// MvvLva[attacker][victim] prefers valuable victims, then cheap attackers.
var MvvLva = func() [6][6]int {
	result := [6][6]int{}
	for attacker := range result {
		for victim := range result[attacker] {
			result[attacker][victim] = 100*(victim+1) + 5 - attacker
		}
	}
	return result
}()

// Heuristics are the per-worker move ordering tables.
type Heuristics struct {
	// Killers[slot][ply] are quiet moves that caused a cutoff at ply.
	Killers [2][MaxPly + 1]Move
	History [2][6][64]int
	// Counters are keyed by the opponent's previous move, Pairs by our own
	// move two plies back.
	Counters [64][64]Move
	Pairs    [64][64]Move
}

// ResetIteration forgets the killers and history before each deepening
// iteration. Counter and pair moves last for the whole search.
func (h *Heuristics) ResetIteration() {
	h.Killers = [2][MaxPly + 1]Move{}
	h.History = [2][6][64]int{}
}

func (h *Heuristics) Reset() {
	h.ResetIteration()
	h.Counters = [64][64]Move{}
	h.Pairs = [64][64]Move{}
}

func (h *Heuristics) UpdateHistory(player Player, pieceType PieceType, to int, depth int) {
	h.History[player][pieceType][to] += depth * depth
}

func (h *Heuristics) StoreCutoff(ply int, move Move, previous Move, ownPrevious Move) {
	if h.Killers[0][ply] != move {
		h.Killers[1][ply] = h.Killers[0][ply]
		h.Killers[0][ply] = move
	}
	if !previous.IsNull() {
		h.Counters[previous.StartIndex()][previous.EndIndex()] = move
	}
	if !ownPrevious.IsNull() {
		h.Pairs[ownPrevious.StartIndex()][ownPrevious.EndIndex()] = move
	}
}

func victimOf(p *Position, move Move) PieceType {
	if move.IsEnPassant() {
		return Pawn
	}
	return p.PieceAt(move.EndIndex()).PieceType()
}

// ScoreMoves fills scores[i] for moves[i]. previous and ownPrevious are the
// moves one and two plies back, NullMove when there are none.
func (h *Heuristics) ScoreMoves(
	p *Position,
	moves []Move,
	scores []int,
	ply int,
	ttMove Optional[Move],
	previous Move,
	ownPrevious Move,
) {
	counter := NullMove
	if !previous.IsNull() {
		counter = h.Counters[previous.StartIndex()][previous.EndIndex()]
	}
	pair := NullMove
	if !ownPrevious.IsNull() {
		pair = h.Pairs[ownPrevious.StartIndex()][ownPrevious.EndIndex()]
	}

	for i, move := range moves {
		attacker := p.PieceAt(move.StartIndex()).PieceType()
		switch {
		case ttMove.HasValue() && ttMove.Value() == move:
			scores[i] = TranspositionMoveScore
		case move.IsCapture():
			scores[i] = CaptureScore + MvvLva[attacker][victimOf(p, move)]
		case move == h.Killers[0][ply]:
			scores[i] = FirstKillerScore
		case move == h.Killers[1][ply]:
			scores[i] = SecondKillerScore
		case move == counter:
			scores[i] = CounterMoveScore
		case move == pair:
			scores[i] = PairMoveScore
		default:
			scores[i] = h.History[p.Player][attacker][move.EndIndex()]
		}
	}
}

// PickBest swaps the best scoring move from index i onwards into i, so moves
// are only ordered as far as the search gets.
func PickBest(moves []Move, scores []int, i int) {
	best := i
	for j := i + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	moves[i], moves[best] = moves[best], moves[i]
	scores[i], scores[best] = scores[best], scores[i]
}
