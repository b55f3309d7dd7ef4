package evaluation

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

// Evaluator scores a position in centipawns from the side to move's point of
// view. Implementations must be deterministic.
type Evaluator interface {
	Evaluate(p *Position) int
}

type EvaluationBitboard struct {
	multiplier int
	b          Bitboard
}

var _developmentScale = 10

var RookDevelopmentBitboards = evaluationsPerPlayer([8][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{1, 2, 2, 2, 2, 2, 2, 1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{0, 0, 0, 2, 2, 0, 0, 0},
}, _developmentScale)

var PawnDevelopmentBitboards = evaluationsPerPlayer([8][8]int{
	{4, 4, 4, 4, 4, 4, 4, 4},
	{3, 3, 3, 4, 4, 3, 3, 3},
	{2, 2, 2, 3, 3, 2, 2, 2},
	{2, 2, 2, 3, 3, 2, 2, 2},
	{1, 1, 1, 3, 3, 1, 1, 1},
	{0, 0, 0, 2, 2, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0},
}, _developmentScale*2)

var BishopDevelopmentBitboards = evaluationsPerPlayer([8][8]int{
	{-1, -1, -1, -1, -1, -1, -1, -1},
	{-1, 0, 0, 0, 0, 0, 0, -1},
	{-1, 0, 1, 2, 2, 1, 0, -1},
	{-1, 1, 1, 2, 2, 1, 1, -1},
	{-1, 0, 2, 2, 2, 2, 0, -1},
	{-1, 2, 2, 2, 2, 2, 2, -1},
	{-1, 1, 0, 0, 0, 0, 1, -1},
	{-1, -1, -1, -1, -1, -1, -1, -1},
}, _developmentScale)

var KnightDevelopmentBitboards = evaluationsPerPlayer([8][8]int{
	{-2, -2, -2, -2, -2, -2, -2, -2},
	{-2, -1, 0, 0, 0, 0, -1, -2},
	{-2, 0, 1, 2, 2, 1, 0, -2},
	{-2, 1, 2, 2, 2, 2, 1, -2},
	{-2, 0, 2, 2, 2, 2, 0, -2},
	{-2, 1, 1, 2, 2, 1, 1, -2},
	{-2, -1, 0, 0, 0, 0, -1, -2},
	{-2, -2, -2, -2, -2, -2, -2, -2},
}, _developmentScale)

var QueenDevelopmentBitboards = evaluationsPerPlayer([8][8]int{
	{-2, -2, -2, -1, -1, -2, -2, -2},
	{-2, 0, 0, 0, 0, 0, 0, -2},
	{-2, 0, 1, 1, 1, 1, 0, -2},
	{-1, 0, 1, 1, 1, 1, 0, -1},
	{0, 0, 1, 1, 1, 1, 0, 0},
	{-2, 0, 1, 1, 1, 1, 0, -2},
	{-2, 0, 1, 0, 0, 1, 0, -2},
	{-2, -2, -2, -1, -1, -2, -2, -2},
}, _developmentScale/2)

// Kings are kept home behind their pawns until the board empties out.
var KingDevelopmentBitboards = evaluationsPerPlayer([8][8]int{
	{-3, -4, -4, -5, -5, -4, -4, -3},
	{-3, -4, -4, -5, -5, -4, -4, -3},
	{-3, -4, -4, -5, -5, -4, -4, -3},
	{-3, -4, -4, -5, -5, -4, -4, -3},
	{-2, -3, -3, -4, -4, -3, -3, -2},
	{-1, -2, -2, -2, -2, -2, -2, -1},
	{2, 2, 0, 0, 0, 0, 2, 2},
	{2, 3, 1, 0, 0, 1, 3, 2},
}, _developmentScale)

// Indexed by PieceType.
var AllDevelopmentBitboards = [6][2][]EvaluationBitboard{
	PawnDevelopmentBitboards,
	KnightDevelopmentBitboards,
	BishopDevelopmentBitboards,
	RookDevelopmentBitboards,
	QueenDevelopmentBitboards,
	KingDevelopmentBitboards,
}

// PieceValues is indexed by PieceType.
var PieceValues = [6]int{100, 300, 320, 500, 900, 10000}

const (
	StackedPawnPenalty    = -5
	IsolatedPawnPenalty   = -12
	PassedPawnBonus       = 20
	RookOpenFileBonus     = 30
	RookSemiOpenFileBonus = 18
	MobilityBonus         = 2
)

func bitboardFromArray(lookup int, array [8][8]int) Bitboard {
	b := Bitboard(0)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if array[i][j] == lookup {
				index := (7-i)*8 + j
				b |= SingleBitboard(index)
			}
		}
	}
	return b
}

func evaluationsFromArray(array [8][8]int, scale int) []EvaluationBitboard {
	result := []EvaluationBitboard{}
	scores := map[int]bool{}
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			scores[array[i][j]] = true
		}
	}
	for k := range scores {
		if k == 0 {
			continue
		}
		result = append(result, EvaluationBitboard{
			multiplier: k * scale,
			b:          bitboardFromArray(k, array),
		})
	}
	return result
}

func evaluationsPerPlayer(whiteOrientedEvalArray [8][8]int, scale int) [2][]EvaluationBitboard {
	return [2][]EvaluationBitboard{
		evaluationsFromArray(whiteOrientedEvalArray, scale),
		evaluationsFromArray(FlipArray(whiteOrientedEvalArray), scale),
	}
}

func evaluateDevelopmentForPiece(b Bitboard, e []EvaluationBitboard) int {
	result := 0
	for _, eval := range e {
		result += eval.multiplier * (eval.b & b).OnesCount()
	}
	return result
}

func EvaluateDevelopment(b *Bitboards, player Player) int {
	development := 0
	for _, pieceType := range AllPieceTypes {
		development += evaluateDevelopmentForPiece(b.Players[player].Pieces[pieceType], AllDevelopmentBitboards[pieceType][player])
	}
	return development
}

func EvaluateMaterial(b *Bitboards, player Player) int {
	material := 0
	for _, pieceType := range [5]PieceType{Pawn, Knight, Bishop, Rook, Queen} {
		material += PieceValues[pieceType] * b.Players[player].Pieces[pieceType].OnesCount()
	}
	return material
}

// passedPawnMasks[player][square] covers the squares in front of a pawn on
// its own and adjacent files.
var passedPawnMasks = func() [2][64]Bitboard {
	result := [2][64]Bitboard{}
	for index := 0; index < 64; index++ {
		fileRank := FileRankFromIndex(index)
		files := FileMasks[fileRank.File]
		if fileRank.File > 0 {
			files |= FileMasks[fileRank.File-1]
		}
		if fileRank.File < 7 {
			files |= FileMasks[fileRank.File+1]
		}
		for rank := 0; rank < 8; rank++ {
			if Rank(rank) > fileRank.Rank {
				result[White][index] |= files & RankMasks[rank]
			}
			if Rank(rank) < fileRank.Rank {
				result[Black][index] |= files & RankMasks[rank]
			}
		}
	}
	return result
}()

func EvaluatePawnStructure(b *Bitboards, player Player) int {
	pawns := b.Players[player].Pieces[Pawn]
	enemyPawns := b.Players[player.Other()].Pieces[Pawn]

	score := 0
	for file := 0; file < 8; file++ {
		count := (pawns & FileMasks[file]).OnesCount()
		if count == 0 {
			continue
		}
		if count > 1 {
			score += StackedPawnPenalty * (count - 1)
		}

		neighbours := Bitboard(0)
		if file > 0 {
			neighbours |= FileMasks[file-1]
		}
		if file < 7 {
			neighbours |= FileMasks[file+1]
		}
		if pawns&neighbours == 0 {
			score += IsolatedPawnPenalty * count
		}
	}

	pawns.EachIndexOfOne(func(index int) {
		if passedPawnMasks[player][index]&enemyPawns == 0 {
			score += PassedPawnBonus
		}
	})

	return score
}

func EvaluateRooks(b *Bitboards, player Player) int {
	pawns := b.Players[player].Pieces[Pawn]
	enemyPawns := b.Players[player.Other()].Pieces[Pawn]

	score := 0
	b.Players[player].Pieces[Rook].EachIndexOfOne(func(index int) {
		file := FileMasks[FileRankFromIndex(index).File]
		if file&pawns != 0 {
			return
		}
		if file&enemyPawns == 0 {
			score += RookOpenFileBonus
		} else {
			score += RookSemiOpenFileBonus
		}
	})
	return score
}

func EvaluateMobility(b *Bitboards, player Player) int {
	own := b.Players[player].Occupied
	pieces := &b.Players[player].Pieces

	squares := 0
	pieces[Bishop].EachIndexOfOne(func(index int) {
		squares += (BishopAttacks(index, b.Occupied) &^ own).OnesCount()
	})
	pieces[Rook].EachIndexOfOne(func(index int) {
		squares += (RookAttacks(index, b.Occupied) &^ own).OnesCount()
	})
	pieces[Queen].EachIndexOfOne(func(index int) {
		squares += (QueenAttacks(index, b.Occupied) &^ own).OnesCount()
	})
	return squares * MobilityBonus
}

func evaluateForPlayer(b *Bitboards, player Player) int {
	return EvaluateMaterial(b, player) +
		EvaluateDevelopment(b, player) +
		EvaluatePawnStructure(b, player) +
		EvaluateRooks(b, player) +
		EvaluateMobility(b, player)
}

func Evaluate(b *Bitboards, player Player) int {
	return evaluateForPlayer(b, player) - evaluateForPlayer(b, player.Other())
}

type PieceSquareEvaluator struct{}

var _ Evaluator = (*PieceSquareEvaluator)(nil)

func (PieceSquareEvaluator) Evaluate(p *Position) int {
	return Evaluate(&p.Bitboards, p.Player)
}

// MaterialEvaluator only counts material. Searches over it are easy to
// check by hand.
type MaterialEvaluator struct{}

var _ Evaluator = (*MaterialEvaluator)(nil)

func (MaterialEvaluator) Evaluate(p *Position) int {
	return EvaluateMaterial(&p.Bitboards, p.Player) - EvaluateMaterial(&p.Bitboards, p.Player.Other())
}
