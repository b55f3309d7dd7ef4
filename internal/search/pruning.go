package search

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

const (
	FutilityMargin    = 200
	FutilityMaxDepth  = 6
	futilityMaxWindow = 10000

	// LateMovePruningCounts[depth] is how many moves are searched at depth
	// before the remaining quiet moves are dropped.
	lateMovePruningDepth = 6
	MateScore            = 800_000

	LateMoveReductionMinDepth = 3
	LateMoveReductionMinMoves = 4

	NullMoveMinPieces = 10
	NullMoveReduction = 3

	RazoringMaxDepth     = 3
	RazoringMargin       = 125
	RazoringSecondMargin = 175

	DeltaMargin = 900
)

// LateMovePruningCounts[depth] is the index after which the remaining quiet
// moves are dropped.
var LateMovePruningCounts = [lateMovePruningDepth]int{999, 3, 6, 10, 15, 21}

func isTactical(move Move) bool {
	return move.IsCapture() || move.IsPromotion()
}

// IsSafeCheck is true when the opponent cannot win back more than the
// checking piece is worth.
func IsSafeCheck(opponentRecaptureGain int, movedPieceValue int) bool {
	return opponentRecaptureGain <= movedPieceValue
}

// IsFutile is true for a quiet move that cannot lift a hopeless static
// evaluation up to alpha within depth plies.
func IsFutile(depth int, alpha int, beta int, isCapture bool, inCheck bool, givesCheck bool, staticEval int, movesTried int) bool {
	if inCheck ||
		movesTried <= 1 ||
		isCapture ||
		givesCheck ||
		Abs(alpha) > futilityMaxWindow ||
		Abs(beta) > futilityMaxWindow ||
		depth > FutilityMaxDepth {
		return false
	}
	return staticEval+FutilityMargin*depth <= alpha
}

// LateMovePruningApplies is true once enough moves were tried at a shallow
// non-PV node that the remaining quiet ones are not worth searching.
func LateMovePruningApplies(order int, depth int, pvNode bool, inCheck bool, alpha int, move Move) bool {
	return depth < lateMovePruningDepth &&
		order > LateMovePruningCounts[depth] &&
		!pvNode &&
		!inCheck &&
		alpha > -MateScore &&
		!isTactical(move)
}

func LateMoveReductionApplies(move Move, depth int, movesTried int, inCheck bool, givesCheck bool, pvNode bool, extend int) bool {
	return depth >= LateMoveReductionMinDepth &&
		extend == 0 &&
		movesTried >= LateMoveReductionMinMoves &&
		!inCheck &&
		!givesCheck &&
		!pvNode &&
		!isTactical(move)
}

// NullMovePruningApplies keeps null moves out of sparse positions and
// pawn endings, where passing can be the best move.
func NullMovePruningApplies(occupied int, depth int, inCheck bool, ply int, hasNonPawnMaterial bool) bool {
	return occupied > NullMoveMinPieces &&
		depth >= NullMoveReduction &&
		!inCheck &&
		ply > 0 &&
		hasNonPawnMaterial
}

func RazoringApplies(depth int, inCheck bool, pvNode bool) bool {
	return depth <= RazoringMaxDepth && !inCheck && !pvNode
}
