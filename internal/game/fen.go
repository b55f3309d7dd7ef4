package game

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

const StartingFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func StartingPosition() *Position {
	p, err := PositionFromFen(StartingFen)
	if !IsNil(err) {
		panic(err)
	}
	return p
}

func FenStringForPlayer(p Player) string {
	if p == White {
		return "w"
	} else {
		return "b"
	}
}

func fenStringForEnPassant(enPassant Optional[int]) string {
	if enPassant.IsEmpty() {
		return "-"
	}
	return StringFromBoardIndex(enPassant.Value())
}

func FenStringForBoard(b BoardArray) string {
	s := ""
	for rank := 7; rank >= 0; rank-- {
		numSpaces := 0
		for file := 0; file < 8; file++ {
			index := IndexFromFileRank(FileRank{File: File(file), Rank: Rank(rank)})
			piece := b[index]
			if piece == XX {
				numSpaces++
				continue
			}
			if numSpaces > 0 {
				s += fmt.Sprint(numSpaces)
				numSpaces = 0
			}
			s += piece.String()
		}
		if numSpaces > 0 {
			s += fmt.Sprint(numSpaces)
		}
		if rank != 0 {
			s += "/"
		}
	}
	return s
}

func (p *Position) Fen() string {
	return fmt.Sprintf("%v %v %v %v %v %v",
		FenStringForBoard(p.Board),
		FenStringForPlayer(p.Player),
		p.CastlingRights,
		fenStringForEnPassant(p.EnPassantTarget),
		p.HalfMoveClock,
		p.FullMoveClock)
}

// PositionFromFen accepts the full six-field form as well as the shortened
// two- and four-field forms some GUIs send.
func PositionFromFen(s string) (*Position, Error) {
	ss := strings.Fields(s)
	if len(ss) != 6 && len(ss) != 4 && len(ss) != 2 {
		return nil, Errorf("wrong num %v of fields in str '%v'", len(ss), s)
	}

	boardStr, playerString := ss[0], ss[1]

	var board BoardArray
	var castlingRights CastlingRights
	enPassantTarget := Empty[int]()

	rankIndex := 7
	fileIndex := 0
	for _, c := range boardStr {
		if c == '/' {
			if fileIndex != 8 {
				return nil, Errorf("not enough squares in rank, '%v'", s)
			}
			rankIndex--
			fileIndex = 0
			if rankIndex < 0 {
				return nil, Errorf("too many ranks in '%v'", s)
			}
		} else if c >= '1' && c <= '8' {
			fileIndex += int(c - '0')
			if fileIndex > 8 {
				return nil, Errorf("too many squares in rank, '%v'", s)
			}
		} else if piece, err := PieceFromRune(c); IsNil(err) {
			if fileIndex >= 8 {
				return nil, Errorf("too many squares in rank, '%v'", s)
			}
			board[IndexFromFileRank(FileRank{File: File(fileIndex), Rank: Rank(rankIndex)})] = piece
			fileIndex++
		} else {
			return nil, Errorf("unknown character '%c' in '%v'", c, s)
		}
	}
	if rankIndex != 0 || fileIndex != 8 {
		return nil, Errorf("incomplete board in '%v'", s)
	}

	player, err := PlayerFromString(playerString)
	if !IsNil(err) {
		return nil, Errorf("invalid player '%v' in '%v'", playerString, s)
	}

	castlingRightsString, enPassantTargetString := "-", "-"
	if len(ss) >= 4 {
		castlingRightsString, enPassantTargetString = ss[2], ss[3]
	}

	halfMoveClockString, fullMoveClockString := "0", "1"
	if len(ss) == 6 {
		halfMoveClockString, fullMoveClockString = ss[4], ss[5]
	}

	for _, c := range castlingRightsString {
		switch c {
		case '-':
			continue
		case 'K':
			castlingRights |= WhiteKingsideRight
		case 'Q':
			castlingRights |= WhiteQueensideRight
		case 'k':
			castlingRights |= BlackKingsideRight
		case 'q':
			castlingRights |= BlackQueensideRight
		default:
			return nil, Errorf("invalid castling rights '%v' in '%v'", castlingRightsString, s)
		}
	}

	if enPassantTargetString != "-" {
		index, err := SquareFromString(enPassantTargetString)
		if !IsNil(err) {
			return nil, Errorf("invalid en-passant target '%v' in '%v'", enPassantTargetString, s)
		}
		enPassantTarget = Some(index)
	}

	halfMoveClock, parseErr := strconv.Atoi(halfMoveClockString)
	if parseErr != nil || halfMoveClock < 0 {
		return nil, Errorf("invalid half move clock '%v' in '%v'", halfMoveClockString, s)
	}

	fullMoveClock, parseErr := strconv.Atoi(fullMoveClockString)
	if parseErr != nil || fullMoveClock < 1 {
		return nil, Errorf("invalid full move clock '%v' in '%v'", fullMoveClockString, s)
	}

	for _, player := range []Player{White, Black} {
		count := 0
		for _, piece := range board {
			if piece == NewPiece(player, King) {
				count++
			}
		}
		if count != 1 {
			return nil, Errorf("%v must have exactly one king in '%v'", player, s)
		}
	}

	castlingRights = castlingRightsOnBoard(&board, castlingRights)
	return NewPosition(board, player, castlingRights, enPassantTarget, halfMoveClock, fullMoveClock), NilError
}

// castlingRightsOnBoard drops the rights whose king or rook is not on its
// home square.
func castlingRightsOnBoard(board *BoardArray, rights CastlingRights) CastlingRights {
	for _, player := range []Player{White, Black} {
		for _, side := range AllCastlingSides {
			req := &AllCastlingRequirements[player][side]
			if board[req.KingStart] != NewPiece(player, King) || board[req.RookStart] != NewPiece(player, Rook) {
				rights &^= CastlingRight(player, side)
			}
		}
	}
	return rights
}
