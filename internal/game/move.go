package game

import (
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

type MoveKind uint16

const (
	QuietMove MoveKind = iota
	DoublePawnPush
	KingCastle
	QueenCastle
	CaptureMove
	EnPassantMove
	_
	_
	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromotionCapture
	BishopPromotionCapture
	RookPromotionCapture
	QueenPromotionCapture
)

const (
	captureFlag   MoveKind = 0b0100
	promotionFlag MoveKind = 0b1000
)

func (k MoveKind) String() string {
	switch k {
	case QuietMove:
		return "QuietMove"
	case DoublePawnPush:
		return "DoublePawnPush"
	case KingCastle:
		return "KingCastle"
	case QueenCastle:
		return "QueenCastle"
	case CaptureMove:
		return "CaptureMove"
	case EnPassantMove:
		return "EnPassantMove"
	}
	if k&promotionFlag != 0 {
		if k&captureFlag != 0 {
			return "PromotionCapture"
		}
		return "Promotion"
	}
	return "Invalid"
}

// Move packs source (bits 0-5), destination (bits 6-11) and kind (bits 12-15).
// The zero value is NullMove.
type Move uint16

const NullMove Move = 0

func NewMove(start int, end int, kind MoveKind) Move {
	return Move(uint16(start) | uint16(end)<<6 | uint16(kind)<<12)
}

func NewPromotion(start int, end int, pieceType PieceType, capture bool) Move {
	kind := promotionFlag | MoveKind(pieceType-Knight)
	if capture {
		kind |= captureFlag
	}
	return NewMove(start, end, kind)
}

func (m Move) StartIndex() int {
	return int(m & 0x3f)
}

func (m Move) EndIndex() int {
	return int((m >> 6) & 0x3f)
}

func (m Move) Kind() MoveKind {
	return MoveKind(m >> 12)
}

func (m Move) IsNull() bool {
	return m == NullMove
}

func (m Move) IsCapture() bool {
	return m.Kind()&captureFlag != 0
}

func (m Move) IsPromotion() bool {
	return m.Kind()&promotionFlag != 0
}

// IsQuiet is true for moves that neither capture nor promote.
func (m Move) IsQuiet() bool {
	return m.Kind()&(captureFlag|promotionFlag) == 0
}

func (m Move) IsEnPassant() bool {
	return m.Kind() == EnPassantMove
}

func (m Move) IsCastle() bool {
	kind := m.Kind()
	return kind == KingCastle || kind == QueenCastle
}

func (m Move) PromotionPiece() Optional[PieceType] {
	if !m.IsPromotion() {
		return Empty[PieceType]()
	}
	return Some(Knight + PieceType(m.Kind()&0b11))
}

func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := StringFromBoardIndex(m.StartIndex()) + StringFromBoardIndex(m.EndIndex())
	if promotion := m.PromotionPiece(); promotion.HasValue() {
		s += promotion.Value().String()
	}
	return s
}

func (m Move) DebugString() string {
	if m.IsCapture() {
		return StringFromBoardIndex(m.StartIndex()) + "x" + StringFromBoardIndex(m.EndIndex()) + m.String()[4:]
	}
	return m.String()
}
