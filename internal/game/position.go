package game

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/zobrist"
)

type Position struct {
	Bitboards       Bitboards
	Board           BoardArray
	Player          Player
	CastlingRights  CastlingRights
	EnPassantTarget Optional[int]
	HalfMoveClock   int
	FullMoveClock   int

	hash uint64
}

// Undo holds the state a move destroys.
type Undo struct {
	Captured            Piece
	PrevCastlingRights  CastlingRights
	PrevEnPassantTarget Optional[int]
	PrevHalfMoveClock   int
	PrevHash            uint64
}

// castlingRightsKept[index] is cleared of every right that is lost when a
// move starts or ends on index.
var castlingRightsKept = func() [64]CastlingRights {
	result := [64]CastlingRights{}
	for i := range result {
		result[i] = AllCastlingRights
	}
	for _, player := range []Player{White, Black} {
		for _, side := range AllCastlingSides {
			req := AllCastlingRequirements[player][side]
			result[req.KingStart] &^= CastlingRight(player, side)
			result[req.RookStart] &^= CastlingRight(player, side)
		}
	}
	return result
}()

func NewPosition(
	board BoardArray,
	player Player,
	castlingRights CastlingRights,
	enPassantTarget Optional[int],
	halfMoveClock int,
	fullMoveClock int,
) *Position {
	p := &Position{
		Board:           board,
		Player:          player,
		CastlingRights:  castlingRights,
		EnPassantTarget: enPassantTarget,
		HalfMoveClock:   halfMoveClock,
		FullMoveClock:   fullMoveClock,
	}
	for index, piece := range board {
		if piece != XX {
			p.Bitboards.SetSquare(index, piece)
		}
	}
	p.hash = p.ComputeHash()
	return p
}

func (p *Position) Copy() *Position {
	result := *p
	return &result
}

func (p *Position) Hash() uint64 {
	return p.hash
}

func (p *Position) ComputeHash() uint64 {
	return zobrist.HashForBoardPosition(&p.Board, p.Player, p.CastlingRights, p.EnPassantTarget)
}

func (p *Position) PieceAt(index int) Piece {
	return p.Board[index]
}

func (p *Position) KingIndex(player Player) int {
	return p.Bitboards.Players[player].Pieces[King].FirstIndexOfOne()
}

// HasNonPawnMaterial is false for king-and-pawn armies, where passing the
// move is most likely to be a mistake.
func (p *Position) HasNonPawnMaterial(player Player) bool {
	pieces := p.Bitboards.Players[player]
	return pieces.Occupied&^(pieces.Pieces[Pawn]|pieces.Pieces[King]) != 0
}

func (p *Position) putPiece(index int, piece Piece) {
	p.Board[index] = piece
	p.Bitboards.SetSquare(index, piece)
	p.hash ^= zobrist.PieceKey(piece, index)
}

func (p *Position) removePiece(index int) Piece {
	piece := p.Board[index]
	p.Board[index] = XX
	// The caller has already checked the square holds a valid piece.
	_ = p.Bitboards.ClearSquare(index, piece)
	p.hash ^= zobrist.PieceKey(piece, index)
	return piece
}

func (p *Position) capturedIndex(move Move) int {
	if move.IsEnPassant() {
		return move.EndIndex() - PawnPushOffsets[p.Player]
	}
	return move.EndIndex()
}

func (p *Position) validateMove(move Move) Error {
	start, end := move.StartIndex(), move.EndIndex()
	piece := p.Board[start]

	if piece == XX {
		return Errorf("%v: no piece at %v", move.DebugString(), StringFromBoardIndex(start))
	}
	if piece.Player() != p.Player {
		return Errorf("%v: piece %v at %v does not belong to %v", move.DebugString(), piece, StringFromBoardIndex(start), p.Player)
	}

	if move.IsCapture() {
		captured := p.Board[p.capturedIndex(move)]
		if captured == XX || captured.Player() == p.Player {
			return Errorf("%v: nothing to capture at %v", move.DebugString(), StringFromBoardIndex(p.capturedIndex(move)))
		}
		if captured.PieceType() == King {
			return Errorf("%v: captures a king", move.DebugString())
		}
		if move.IsEnPassant() && (p.EnPassantTarget.IsEmpty() || p.EnPassantTarget.Value() != end) {
			return Errorf("%v: %v is not the en passant target", move.DebugString(), StringFromBoardIndex(end))
		}
	} else if p.Board[end] != XX {
		return Errorf("%v: destination %v is occupied", move.DebugString(), StringFromBoardIndex(end))
	}

	if move.IsPromotion() && piece.PieceType() != Pawn {
		return Errorf("%v: only pawns promote", move.DebugString())
	}

	if move.IsCastle() {
		req := castlingRequirements(p.Player, move)
		if start != req.KingStart || end != req.KingEnd || piece.PieceType() != King {
			return Errorf("%v: not a castling move", move.DebugString())
		}
		if p.Board[req.RookStart] != NewPiece(p.Player, Rook) {
			return Errorf("%v: no rook at %v", move.DebugString(), StringFromBoardIndex(req.RookStart))
		}
	}

	return NilError
}

func castlingRequirements(player Player, move Move) *CastlingRequirements {
	if move.Kind() == QueenCastle {
		return &AllCastlingRequirements[player][Queenside]
	}
	return &AllCastlingRequirements[player][Kingside]
}

// MakeMove applies a move. The move must be pseudo-legal for this position;
// anything else returns an error and leaves the position untouched.
func (p *Position) MakeMove(move Move) (Undo, Error) {
	err := p.validateMove(move)
	if !IsNil(err) {
		return Undo{}, err
	}

	undo := Undo{
		PrevCastlingRights:  p.CastlingRights,
		PrevEnPassantTarget: p.EnPassantTarget,
		PrevHalfMoveClock:   p.HalfMoveClock,
		PrevHash:            p.hash,
	}

	start, end := move.StartIndex(), move.EndIndex()
	player := p.Player

	p.hash ^= zobrist.EnPassantKey(p.EnPassantTarget)
	p.EnPassantTarget = Empty[int]()

	if move.IsCapture() {
		undo.Captured = p.removePiece(p.capturedIndex(move))
	}

	// Both from-squares are cleared before either to-square is written.
	piece := p.removePiece(start)
	var rook Piece
	if move.IsCastle() {
		rook = p.removePiece(castlingRequirements(player, move).RookStart)
	}
	if promotion := move.PromotionPiece(); promotion.HasValue() {
		p.putPiece(end, NewPiece(player, promotion.Value()))
	} else {
		p.putPiece(end, piece)
	}

	switch move.Kind() {
	case DoublePawnPush:
		target := start + PawnPushOffsets[player]
		p.EnPassantTarget = Some(target)
		p.hash ^= zobrist.EnPassantKey(p.EnPassantTarget)
	case KingCastle, QueenCastle:
		p.putPiece(castlingRequirements(player, move).RookEnd, rook)
	}

	p.hash ^= zobrist.CastlingKey(p.CastlingRights)
	p.CastlingRights &= castlingRightsKept[start] & castlingRightsKept[end]
	p.hash ^= zobrist.CastlingKey(p.CastlingRights)

	if piece.PieceType() == Pawn || move.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if player == Black {
		p.FullMoveClock++
	}

	p.Player = player.Other()
	p.hash ^= zobrist.SideToMove

	return undo, NilError
}

// UndoMove reverts MakeMove. The move and undo must be the ones returned by
// the matching MakeMove call.
func (p *Position) UndoMove(move Move, undo Undo) {
	player := p.Player.Other()
	p.Player = player
	if player == Black {
		p.FullMoveClock--
	}

	start, end := move.StartIndex(), move.EndIndex()

	piece := p.removePiece(end)
	if move.IsPromotion() {
		piece = NewPiece(player, Pawn)
	}
	if move.IsCastle() {
		req := castlingRequirements(player, move)
		rook := p.removePiece(req.RookEnd)
		p.putPiece(start, piece)
		p.putPiece(req.RookStart, rook)
	} else {
		p.putPiece(start, piece)
	}

	if move.IsCapture() {
		p.putPiece(p.capturedIndex(move), undo.Captured)
	}

	p.CastlingRights = undo.PrevCastlingRights
	p.EnPassantTarget = undo.PrevEnPassantTarget
	p.HalfMoveClock = undo.PrevHalfMoveClock
	p.hash = undo.PrevHash
}

// MakeNullMove passes the turn.
func (p *Position) MakeNullMove() Undo {
	undo := Undo{
		PrevCastlingRights:  p.CastlingRights,
		PrevEnPassantTarget: p.EnPassantTarget,
		PrevHalfMoveClock:   p.HalfMoveClock,
		PrevHash:            p.hash,
	}

	p.hash ^= zobrist.EnPassantKey(p.EnPassantTarget)
	p.EnPassantTarget = Empty[int]()
	p.HalfMoveClock++
	p.Player = p.Player.Other()
	p.hash ^= zobrist.SideToMove

	return undo
}

func (p *Position) UndoNullMove(undo Undo) {
	p.Player = p.Player.Other()
	p.EnPassantTarget = undo.PrevEnPassantTarget
	p.HalfMoveClock = undo.PrevHalfMoveClock
	p.hash = undo.PrevHash
}

// IsIrreversible reports whether a move resets the fifty-move counter, after
// which no earlier position can repeat.
func (p *Position) IsIrreversible(move Move) bool {
	return move.IsCapture() || p.Board[move.StartIndex()].PieceType() == Pawn
}
