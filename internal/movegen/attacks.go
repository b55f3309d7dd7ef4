package movegen

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

// AttackersOf returns the pieces of `by` that attack index, with sliders
// blocked by occupied. Pieces missing from occupied are ignored.
func AttackersOf(p *Position, index int, by Player, occupied Bitboard) Bitboard {
	pieces := &p.Bitboards.Players[by].Pieces

	attackers := PawnAttackMasks[by.Other()][index] & pieces[Pawn]
	attackers |= KnightAttackMasks[index] & pieces[Knight]
	attackers |= KingAttackMasks[index] & pieces[King]
	attackers |= BishopAttacks(index, occupied) & (pieces[Bishop] | pieces[Queen])
	attackers |= RookAttacks(index, occupied) & (pieces[Rook] | pieces[Queen])

	return attackers & occupied
}

// AttackersTo returns the attackers of both players.
func AttackersTo(p *Position, index int, occupied Bitboard) Bitboard {
	return AttackersOf(p, index, White, occupied) | AttackersOf(p, index, Black, occupied)
}

func IsSquareAttacked(p *Position, index int, by Player, occupied Bitboard) bool {
	return AttackersOf(p, index, by, occupied) != 0
}

// Checkers returns the enemy pieces giving check to the side to move.
func Checkers(p *Position) Bitboard {
	return AttackersOf(p, p.KingIndex(p.Player), p.Player.Other(), p.Bitboards.Occupied)
}

func IsCheck(p *Position) bool {
	return Checkers(p) != 0
}

// PinnedPieces returns the pieces of player that stand alone between their
// king and an enemy slider.
func PinnedPieces(p *Position, player Player) Bitboard {
	king := p.KingIndex(player)
	enemy := &p.Bitboards.Players[player.Other()].Pieces
	own := p.Bitboards.Players[player].Occupied

	snipers := RookAttacks(king, 0) & (enemy[Rook] | enemy[Queen])
	snipers |= BishopAttacks(king, 0) & (enemy[Bishop] | enemy[Queen])

	pinned := Bitboard(0)
	for temp := snipers; temp != 0; temp &= temp - 1 {
		sniper := temp.FirstIndexOfOne()
		blockers := Between[king][sniper] & p.Bitboards.Occupied
		if blockers != 0 && !blockers.MoreThanOne() && blockers&own != 0 {
			pinned |= blockers
		}
	}
	return pinned
}
