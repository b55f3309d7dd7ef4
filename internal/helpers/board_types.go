package helpers

import "strings"

type File uint
type Rank uint

type FileRank struct {
	File File
	Rank Rank
}

type Player uint

const (
	White Player = iota
	Black
)

func (p Player) String() string {
	if p == Black {
		return "black"
	}
	return "white"
}

func (p Player) Other() Player {
	return 1 - p
}

// Sign is +1 for white and -1 for black.
func (p Player) Sign() int {
	return 1 - 2*int(p)
}

func PlayerFromString(c string) (Player, Error) {
	switch c {
	case "b":
		return Black, NilError
	case "w":
		return White, NilError
	default:
		return White, Errorf("invalid player char %v", c)
	}
}

type PieceType uint

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var AllPieceTypes = [6]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

func (p PieceType) String() string {
	return "pnbrqk?"[p : p+1]
}

func (p PieceType) IsValid() bool {
	return p < NoPieceType
}

// Piece packs player and piece type; XX is an empty square.
type Piece uint8

const (
	XX Piece = iota
	WP
	WN
	WB
	WR
	WQ
	WK
	BP
	BN
	BB
	BR
	BQ
	BK
)

const NumPieces = 13

func NewPiece(player Player, pieceType PieceType) Piece {
	return PieceForPlayer[player][pieceType]
}

var PieceForPlayer = [2][7]Piece{
	{WP, WN, WB, WR, WQ, WK, XX},
	{BP, BN, BB, BR, BQ, BK, XX},
}

var _pieceTypeLookup = [NumPieces]PieceType{
	NoPieceType,
	Pawn, Knight, Bishop, Rook, Queen, King,
	Pawn, Knight, Bishop, Rook, Queen, King,
}

func (p Piece) PieceType() PieceType {
	return _pieceTypeLookup[p]
}

func (p Piece) Player() Player {
	if p >= BP {
		return Black
	}
	return White
}

func (p Piece) IsEmpty() bool {
	return p == XX
}

func (p Piece) IsWhite() bool {
	return p >= WP && p <= WK
}

// _pieceLetters is indexed by Piece.
const _pieceLetters = " PNBRQKpnbrqk"

func PieceFromRune(c rune) (Piece, Error) {
	if c != ' ' {
		if i := strings.IndexRune(_pieceLetters, c); i > 0 {
			return Piece(i), NilError
		}
	}
	return XX, Errorf("invalid piece %q", c)
}

func (p Piece) String() string {
	return _pieceLetters[p : p+1]
}

var _pieceTypeSymbols = [7]string{"♟", "♞", "♝", "♜", "♛", "♚", " "}

func (p PieceType) Unicode() string {
	return _pieceTypeSymbols[p]
}

func (f File) String() string {
	return string(rune('a' + f))
}

func (r Rank) String() string {
	return string(rune('1' + r))
}

func RankFromChar(c byte) (Rank, Error) {
	rank := int(c) - '1'
	if rank < 0 || rank >= 8 {
		return 0, Errorf("rank invalid %q", c)
	}
	return Rank(rank), NilError
}

func FileFromChar(c byte) (File, Error) {
	file := int(c) - 'a'
	if file < 0 || file >= 8 {
		return 0, Errorf("file invalid %q", c)
	}
	return File(file), NilError
}

func (v FileRank) String() string {
	return v.File.String() + v.Rank.String()
}

func FileRankFromString(s string) (FileRank, Error) {
	if len(s) != 2 {
		return FileRank{}, Errorf("invalid location %v", s)
	}

	file, fileErr := FileFromChar(s[0])
	rank, rankErr := RankFromChar(s[1])

	if !IsNil(fileErr) || !IsNil(rankErr) {
		return FileRank{}, Errorf("invalid location %v", s)
	}

	return FileRank{file, rank}, NilError
}

func IndexFromFileRank(location FileRank) int {
	return int(location.Rank)*8 + int(location.File)
}

func FileRankFromIndex(index int) FileRank {
	f := File(index & 0b111)
	r := Rank(index >> 3)
	return FileRank{f, r}
}

func StringFromBoardIndex(index int) string {
	return FileRankFromIndex(index).String()
}

func BoardIndexFromString(s string) int {
	location, err := FileRankFromString(s)
	if !IsNil(err) {
		panic(err)
	}
	return IndexFromFileRank(location)
}

func SquareFromString(s string) (int, Error) {
	location, err := FileRankFromString(s)
	if !IsNil(err) {
		return 0, err
	}
	return IndexFromFileRank(location), NilError
}

type CastlingSide int

const (
	Kingside CastlingSide = iota
	Queenside
)

var AllCastlingSides = [2]CastlingSide{Kingside, Queenside}

type BoardArray [64]Piece

// String prints rank 8 first, one character per square.
func (b BoardArray) String() string {
	ranks := make([]string, 0, 8)
	for rank := 7; rank >= 0; rank-- {
		var row strings.Builder
		for _, piece := range b[rank*8 : rank*8+8] {
			row.WriteString(piece.String())
		}
		ranks = append(ranks, row.String())
	}
	return strings.Join(ranks, "\n")
}

const (
	_hintForeground  = "\033[38;5;244m"
	_whiteForeground = "\033[38;5;255m"
	_blackForeground = "\033[38;5;232m"
	_lightBackground = "\033[48;5;244m"
	_darkBackground  = "\033[48;5;243m"
	_resetColors     = "\x1b[0m"
)

// Unicode draws the board with terminal colours and file/rank hints.
func (b BoardArray) Unicode() string {
	var out strings.Builder
	out.WriteString("  ")
	for file := File(0); file < 8; file++ {
		out.WriteString(_hintForeground + " " + file.String() + " " + _resetColors)
	}
	out.WriteString("\n")

	for r := 7; r >= 0; r-- {
		rank := Rank(r)
		out.WriteString(_hintForeground + rank.String() + " " + _resetColors)
		for file := File(0); file < 8; file++ {
			piece := b[IndexFromFileRank(FileRank{file, rank})]

			background, foreground := _darkBackground, _blackForeground
			if (int(file)+int(rank))%2 == 1 {
				background = _lightBackground
			}
			if piece.IsWhite() {
				foreground = _whiteForeground
			}
			out.WriteString(background + foreground + " " + piece.PieceType().Unicode() + " " + _resetColors)
		}
		out.WriteString("\n")
	}
	return out.String()
}

type CastlingRights uint8

const (
	WhiteKingsideRight CastlingRights = 1 << iota
	WhiteQueensideRight
	BlackKingsideRight
	BlackQueensideRight

	NoCastlingRights  CastlingRights = 0
	AllCastlingRights CastlingRights = 0b1111
)

func CastlingRight(player Player, side CastlingSide) CastlingRights {
	return CastlingRights(1) << (2*int(player) + int(side))
}

func (c CastlingRights) Has(player Player, side CastlingSide) bool {
	return c&CastlingRight(player, side) != 0
}

// String uses FEN notation.
func (c CastlingRights) String() string {
	var s strings.Builder
	for i, letter := range "KQkq" {
		if c&(1<<i) != 0 {
			s.WriteRune(letter)
		}
	}
	if s.Len() == 0 {
		return "-"
	}
	return s.String()
}
