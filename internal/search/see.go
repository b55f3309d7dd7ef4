package search

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
)

func leastValuableAttacker(p *Position, attackers Bitboard, player Player) (Bitboard, PieceType) {
	for _, pieceType := range AllPieceTypes {
		if b := attackers & p.Bitboards.Players[player].Pieces[pieceType]; b != 0 {
			return b.LeastSignificantOne(), pieceType
		}
	}
	return 0, NoPieceType
}

// exchange plays out the captures on target, starting with the piece on from,
// always recapturing with the cheapest piece. Removing a piece from occupied
// exposes the sliders behind it.
func exchange(p *Position, target int, from Bitboard, attacker PieceType, victim int, side Player, occupied Bitboard) int {
	var gain [32]int
	depth := 0
	gain[0] = victim

	for from != 0 && depth < len(gain)-1 {
		depth++
		gain[depth] = PieceValues[attacker] - gain[depth-1]

		occupied &^= from
		side = side.Other()
		from, attacker = leastValuableAttacker(p, movegen.AttackersOf(p, target, side, occupied), side)
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -MaxInt(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// SEE is the material the side to move expects to win with a capture once
// all the recaptures on the square are played out.
func SEE(p *Position, move Move) int {
	start := move.StartIndex()
	end := move.EndIndex()
	occupied := p.Bitboards.Occupied

	victim := p.PieceAt(end).PieceType()
	if move.IsEnPassant() {
		victim = Pawn
		occupied &^= SingleBitboard(end - PawnPushOffsets[p.Player])
	}
	if !victim.IsValid() {
		return 0
	}

	attacker := p.PieceAt(start).PieceType()
	return exchange(p, end, SingleBitboard(start), attacker, PieceValues[victim], p.Player, occupied)
}

// SEEAfterMove is what the side to move can win by capturing on square, or
// zero when every capture there loses material. It is called after a move
// has been made, to see whether the piece that moved can be taken.
func SEEAfterMove(p *Position, square int) int {
	victim := p.PieceAt(square).PieceType()
	if !victim.IsValid() {
		return 0
	}

	occupied := p.Bitboards.Occupied
	from, attacker := leastValuableAttacker(p, movegen.AttackersOf(p, square, p.Player, occupied), p.Player)
	if from == 0 {
		return 0
	}
	return MaxInt(0, exchange(p, square, from, attacker, PieceValues[victim], p.Player, occupied))
}
