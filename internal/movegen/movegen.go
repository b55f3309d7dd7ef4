package movegen

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

// MaxMoves bounds the legal moves of any reachable position.
const MaxMoves = 256

var GetMovesBuffer, ReleaseMovesBuffer, StatsMovesBuffer = CreatePool(
	func() []Move { return make([]Move, 0, MaxMoves) },
	func(t *[]Move) { *t = (*t)[:0] },
)

var possiblePromotions = [4]PieceType{Queen, Knight, Rook, Bishop}

// GenerateLegalMoves appends every legal move of the side to move.
func GenerateLegalMoves(p *Position, moves *[]Move) {
	generate(p, moves, false /* onlyCaptures */)
}

// GenerateCaptures appends the legal captures, including en passant and
// capturing promotions.
func GenerateCaptures(p *Position, moves *[]Move) {
	generate(p, moves, true /* onlyCaptures */)
}

func appendTargets(moves *[]Move, start int, targets Bitboard, enemy Bitboard, onlyCaptures bool) {
	for temp := targets & enemy; temp != 0; temp &= temp - 1 {
		*moves = append(*moves, NewMove(start, temp.FirstIndexOfOne(), CaptureMove))
	}
	if onlyCaptures {
		return
	}
	for temp := targets &^ enemy; temp != 0; temp &= temp - 1 {
		*moves = append(*moves, NewMove(start, temp.FirstIndexOfOne(), QuietMove))
	}
}

func appendPawnMove(moves *[]Move, player Player, start int, end int, capture bool) {
	if IsPromotionIndex(end, player) {
		for _, piece := range possiblePromotions {
			*moves = append(*moves, NewPromotion(start, end, piece, capture))
		}
		return
	}
	if capture {
		*moves = append(*moves, NewMove(start, end, CaptureMove))
	} else {
		*moves = append(*moves, NewMove(start, end, QuietMove))
	}
}

func generate(p *Position, moves *[]Move, onlyCaptures bool) {
	player := p.Player
	enemyPlayer := player.Other()
	b := &p.Bitboards

	own := b.Players[player].Occupied
	enemy := b.Players[enemyPlayer].Occupied
	occupied := b.Occupied
	pieces := &b.Players[player].Pieces

	king := p.KingIndex(player)
	checkers := AttackersOf(p, king, enemyPlayer, occupied)

	// The king is re-validated with itself removed, so it cannot step back
	// along the ray of a slider checking it.
	{
		withoutKing := occupied &^ SingleBitboard(king)
		targets := KingAttackMasks[king] &^ own
		if onlyCaptures {
			targets &= enemy
		}
		for temp := targets; temp != 0; temp &= temp - 1 {
			end := temp.FirstIndexOfOne()
			if IsSquareAttacked(p, end, enemyPlayer, withoutKing) {
				continue
			}
			if enemy.IsSet(end) {
				*moves = append(*moves, NewMove(king, end, CaptureMove))
			} else {
				*moves = append(*moves, NewMove(king, end, QuietMove))
			}
		}
	}

	if checkers.MoreThanOne() {
		return
	}

	// Squares a non-king move may land on.
	allowed := ^own
	if checkers != 0 {
		checker := checkers.FirstIndexOfOne()
		allowed = Between[king][checker] | checkers
	} else if !onlyCaptures {
		for _, side := range AllCastlingSides {
			if !p.CastlingRights.Has(player, side) {
				continue
			}
			req := &AllCastlingRequirements[player][side]
			if occupied&req.Empty != 0 || king != req.KingStart || p.PieceAt(req.RookStart) != NewPiece(player, Rook) {
				continue
			}
			safe := true
			for _, index := range req.Safe {
				if IsSquareAttacked(p, index, enemyPlayer, occupied) {
					safe = false
					break
				}
			}
			if safe {
				kind := KingCastle
				if side == Queenside {
					kind = QueenCastle
				}
				*moves = append(*moves, NewMove(req.KingStart, req.KingEnd, kind))
			}
		}
	}

	pinned := PinnedPieces(p, player)

	restrict := func(start int) Bitboard {
		if pinned.IsSet(start) {
			return allowed & Line[king][start]
		}
		return allowed
	}

	{
		push := PawnPushOffsets[player]
		for temp := pieces[Pawn]; temp != 0; temp &= temp - 1 {
			start := temp.FirstIndexOfOne()
			targets := restrict(start)

			for captures := PawnAttackMasks[player][start] & enemy & targets; captures != 0; captures &= captures - 1 {
				appendPawnMove(moves, player, start, captures.FirstIndexOfOne(), true)
			}

			if onlyCaptures {
				continue
			}

			single := start + push
			if occupied.IsSet(single) {
				continue
			}
			if targets.IsSet(single) {
				appendPawnMove(moves, player, start, single, false)
			}
			if PawnStartRank[player].IsSet(start) {
				double := single + push
				if !occupied.IsSet(double) && targets.IsSet(double) {
					*moves = append(*moves, NewMove(start, double, DoublePawnPush))
				}
			}
		}

		if p.EnPassantTarget.HasValue() {
			generateEnPassant(p, moves, king, checkers, allowed)
		}
	}

	for _, pieceType := range [4]PieceType{Knight, Bishop, Rook, Queen} {
		for temp := pieces[pieceType]; temp != 0; temp &= temp - 1 {
			start := temp.FirstIndexOfOne()

			var attacks Bitboard
			switch pieceType {
			case Knight:
				attacks = KnightAttackMasks[start]
			case Bishop:
				attacks = BishopAttacks(start, occupied)
			case Rook:
				attacks = RookAttacks(start, occupied)
			case Queen:
				attacks = QueenAttacks(start, occupied)
			}

			appendTargets(moves, start, attacks&restrict(start), enemy, onlyCaptures)
		}
	}
}

// generateEnPassant checks each capture by removing both pawns from the
// board, which also catches the horizontal pin through both of them.
func generateEnPassant(p *Position, moves *[]Move, king int, checkers Bitboard, allowed Bitboard) {
	player := p.Player
	enemyPlayer := player.Other()
	target := p.EnPassantTarget.Value()
	captured := target - PawnPushOffsets[player]

	if p.PieceAt(captured) != NewPiece(enemyPlayer, Pawn) || p.PieceAt(target) != XX {
		return
	}
	if checkers != 0 && !allowed.IsSet(target) && !checkers.IsSet(captured) {
		return
	}

	enemyPieces := &p.Bitboards.Players[enemyPlayer].Pieces
	attackers := PawnAttackMasks[enemyPlayer][target] & p.Bitboards.Players[player].Pieces[Pawn]

	for temp := attackers; temp != 0; temp &= temp - 1 {
		start := temp.FirstIndexOfOne()
		occupied := p.Bitboards.Occupied&^SingleBitboard(start)&^SingleBitboard(captured) | SingleBitboard(target)

		if RookAttacks(king, occupied)&(enemyPieces[Rook]|enemyPieces[Queen]) != 0 {
			continue
		}
		if BishopAttacks(king, occupied)&(enemyPieces[Bishop]|enemyPieces[Queen]) != 0 {
			continue
		}
		*moves = append(*moves, NewMove(start, target, EnPassantMove))
	}
}

// ParseMove finds the legal move written in long algebraic notation.
func ParseMove(p *Position, text string) (Move, Error) {
	moves := GetMovesBuffer()
	defer ReleaseMovesBuffer(moves)

	GenerateLegalMoves(p, moves)
	for _, move := range *moves {
		if move.String() == text {
			return move, NilError
		}
	}
	return NullMove, Errorf("illegal move %v in %v", text, p.Fen())
}

// LegalMovesCount is used by terminal-node checks outside the search.
func LegalMovesCount(p *Position) int {
	moves := GetMovesBuffer()
	defer ReleaseMovesBuffer(moves)

	GenerateLegalMoves(p, moves)
	return len(*moves)
}
