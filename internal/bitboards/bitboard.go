package bitboards

import (
	"fmt"
	"math/bits"
	"strings"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

type Bitboard uint64

type PlayerBitboards struct {
	Occupied Bitboard
	Pieces   [6]Bitboard // indexed via PieceType
}

type Bitboards struct {
	Occupied Bitboard
	Players  [2]PlayerBitboards
}

const (
	A1 = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

func (b Bitboard) NextIndexOfOne() (int, Bitboard) {
	index := bits.TrailingZeros64(uint64(b))
	return index, b & (b - 1)
}

func (b Bitboard) LeastSignificantOne() Bitboard {
	return b & -b
}

func (b Bitboard) FirstIndexOfOne() int {
	return bits.TrailingZeros64(uint64(b))
}

func (b Bitboard) OnesCount() int {
	return bits.OnesCount64(uint64(b))
}

func (b Bitboard) IsSet(index int) bool {
	return b&SingleBitboard(index) != 0
}

func (b Bitboard) MoreThanOne() bool {
	return b&(b-1) != 0
}

func (b Bitboard) EachIndexOfOne(callback func(int)) {
	for temp := b; temp != 0; temp &= temp - 1 {
		callback(bits.TrailingZeros64(uint64(temp)))
	}
}

type Dir int

const (
	N Dir = iota
	S
	E
	W

	NE
	NW
	SE
	SW

	NNE
	NNW
	SSE
	SSW
	ENE
	ESE
	WNW
	WSW

	NumDirs
)

var KnightDirs = []Dir{NNE, NNW, SSE, SSW, ENE, ESE, WNW, WSW}
var RookDirs = []Dir{N, S, E, W}
var BishopDirs = []Dir{NE, NW, SE, SW}
var KingDirs = []Dir{N, S, E, W, NE, NW, SE, SW}

const (
	OffsetN int = 8
	OffsetS int = -8
	OffsetE int = 1
	OffsetW int = -1
)

var Offsets = [NumDirs]int{
	OffsetN,
	OffsetS,
	OffsetE,
	OffsetW,

	OffsetN + OffsetE,
	OffsetN + OffsetW,
	OffsetS + OffsetE,
	OffsetS + OffsetW,

	OffsetN + OffsetN + OffsetE,
	OffsetN + OffsetN + OffsetW,
	OffsetS + OffsetS + OffsetE,
	OffsetS + OffsetS + OffsetW,
	OffsetE + OffsetN + OffsetE,
	OffsetE + OffsetS + OffsetE,
	OffsetW + OffsetN + OffsetW,
	OffsetW + OffsetS + OffsetW,
}

var PawnPushOffsets = [2]int{
	OffsetN,
	OffsetS,
}

var RankMasks = func() [8]Bitboard {
	result := [8]Bitboard{}
	for rank := 0; rank < 8; rank++ {
		result[rank] = Bitboard(0xff) << (8 * rank)
	}
	return result
}()

var FileMasks = func() [8]Bitboard {
	result := [8]Bitboard{}
	for file := 0; file < 8; file++ {
		result[file] = Bitboard(0x0101010101010101) << file
	}
	return result
}()

// Pawns on this rank may push two squares.
var PawnStartRank = [2]Bitboard{RankMasks[1], RankMasks[6]}

func IsPromotionIndex(index int, player Player) bool {
	if player == White {
		return index >= 56
	}
	return index < 8
}

var (
	MaskN Bitboard = ^RankMasks[7]
	MaskS Bitboard = ^RankMasks[0]
	MaskE Bitboard = ^FileMasks[7]
	MaskW Bitboard = ^FileMasks[0]

	MaskNN Bitboard = ^RankMasks[6]
	MaskSS Bitboard = ^RankMasks[1]
	MaskEE Bitboard = ^FileMasks[6]
	MaskWW Bitboard = ^FileMasks[1]
)

// PreMoveMasks[dir] holds the squares a piece can step from in that direction
// without wrapping around the board.
var PreMoveMasks = [NumDirs]Bitboard{
	MaskN,
	MaskS,
	MaskE,
	MaskW,

	MaskN & MaskE,
	MaskN & MaskW,
	MaskS & MaskE,
	MaskS & MaskW,

	MaskNN & MaskN & MaskE,
	MaskNN & MaskN & MaskW,
	MaskSS & MaskS & MaskE,
	MaskSS & MaskS & MaskW,
	MaskEE & MaskN & MaskE,
	MaskEE & MaskS & MaskE,
	MaskWW & MaskN & MaskW,
	MaskWW & MaskS & MaskW,
}

func stepAttackMasks(dirs []Dir) [64]Bitboard {
	result := [64]Bitboard{}
	for i := 0; i < 64; i++ {
		pieceBoard := SingleBitboard(i)
		for _, dir := range dirs {
			result[i] |= RotateTowardsIndex64(pieceBoard&PreMoveMasks[dir], Offsets[dir])
		}
	}
	return result
}

var KnightAttackMasks = stepAttackMasks(KnightDirs)
var KingAttackMasks = stepAttackMasks(KingDirs)

// PawnAttackMasks[player][square] are the squares a pawn of that player on
// that square attacks.
var PawnAttackMasks = [2][64]Bitboard{
	stepAttackMasks([]Dir{NE, NW}),
	stepAttackMasks([]Dir{SE, SW}),
}

var SingleBitboards [64]Bitboard = func() [64]Bitboard {
	result := [64]Bitboard{}
	for i := 0; i < 64; i++ {
		result[i] = Bitboard(1) << i
	}
	return result
}()

func SingleBitboard(index int) Bitboard {
	return SingleBitboards[index]
}

func BitboardWithAllLocationsSet(locations []string) Bitboard {
	return ReduceSlice(
		MapSlice(locations, BoardIndexFromString),
		0,
		func(result Bitboard, index int) Bitboard {
			return result | SingleBitboard(index)
		},
	)
}

func RotateTowardsIndex64(b Bitboard, n int) Bitboard {
	return Bitboard(bits.RotateLeft64(uint64(b), n))
}

func (b Bitboard) String() string {
	ranks := [8]string{}
	for rank := 0; rank < 8; rank++ {
		r := uint8(b >> (8 * rank))
		// mirror the bits so a-file prints first
		ranks[7-rank] = fmt.Sprintf("%08b", ReverseBits(r))
	}
	return strings.Join(ranks[0:], "\n")
}

func BitboardFromStrings(strings [8]string) Bitboard {
	b := Bitboard(0)
	for inverseRank, line := range strings {
		for file, c := range line {
			if c == '1' {
				index := IndexFromFileRank(FileRank{File: File(file), Rank: Rank(7 - inverseRank)})
				b |= SingleBitboard(index)
			}
		}
	}
	return b
}

type CastlingRequirements struct {
	// Squares between king and rook that must be empty.
	Empty Bitboard
	// Squares the king stands on, crosses or lands on; none may be attacked.
	Safe      []int
	KingStart int
	KingEnd   int
	RookStart int
	RookEnd   int
}

var AllCastlingRequirements = [2][2]CastlingRequirements{
	{
		{
			Empty:     BitboardWithAllLocationsSet([]string{"f1", "g1"}),
			Safe:      []int{E1, F1, G1},
			KingStart: E1, KingEnd: G1, RookStart: H1, RookEnd: F1,
		},
		{
			Empty:     BitboardWithAllLocationsSet([]string{"b1", "c1", "d1"}),
			Safe:      []int{E1, D1, C1},
			KingStart: E1, KingEnd: C1, RookStart: A1, RookEnd: D1,
		},
	},
	{
		{
			Empty:     BitboardWithAllLocationsSet([]string{"f8", "g8"}),
			Safe:      []int{E8, F8, G8},
			KingStart: E8, KingEnd: G8, RookStart: H8, RookEnd: F8,
		},
		{
			Empty:     BitboardWithAllLocationsSet([]string{"b8", "c8", "d8"}),
			Safe:      []int{E8, D8, C8},
			KingStart: E8, KingEnd: C8, RookStart: A8, RookEnd: D8,
		},
	},
}

func (b *Bitboards) ClearSquare(index int, piece Piece) Error {
	pieceType := piece.PieceType()
	if !pieceType.IsValid() {
		return Errorf("clearing %v: piece %q is not valid", StringFromBoardIndex(index), piece.String())
	}
	player := piece.Player()
	zeroBitboard := ^SingleBitboard(index)

	b.Occupied &= zeroBitboard
	b.Players[player].Occupied &= zeroBitboard
	b.Players[player].Pieces[pieceType] &= zeroBitboard

	return NilError
}

func (b *Bitboards) SetSquare(index int, piece Piece) {
	player := piece.Player()
	pieceType := piece.PieceType()
	oneBitboard := SingleBitboard(index)

	b.Occupied |= oneBitboard
	b.Players[player].Occupied |= oneBitboard
	b.Players[player].Pieces[pieceType] |= oneBitboard
}

// Pieces returns the bitboard of one piece type across both players.
func (b *Bitboards) Pieces(pieceType PieceType) Bitboard {
	return b.Players[White].Pieces[pieceType] | b.Players[Black].Pieces[pieceType]
}
