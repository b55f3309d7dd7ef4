package bitboards

import (
	"math/rand"
	"strings"
	"testing"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestBitboardString(t *testing.T) {
	b := BitboardWithAllLocationsSet([]string{"a1", "h8", "e4"})
	assert.Equal(t, strings.Join([]string{
		"00000001",
		"00000000",
		"00000000",
		"00000000",
		"00001000",
		"00000000",
		"00000000",
		"10000000",
	}, "\n"), b.String())

	assert.Equal(t, b, BitboardFromStrings([8]string{
		"00000001",
		"00000000",
		"00000000",
		"00000000",
		"00001000",
		"00000000",
		"00000000",
		"10000000",
	}))
}

func TestIteration(t *testing.T) {
	b := BitboardWithAllLocationsSet([]string{"b1", "c3", "h8"})
	indices := []int{}
	for temp := b; temp != 0; {
		var index int
		index, temp = temp.NextIndexOfOne()
		indices = append(indices, index)
	}
	assert.Equal(t, []int{B1, C3, H8}, indices)
	assert.Equal(t, 3, b.OnesCount())
	assert.True(t, b.MoreThanOne())
	assert.False(t, SingleBitboard(C3).MoreThanOne())
}

func TestLeaperMasks(t *testing.T) {
	assert.Equal(t, 2, KnightAttackMasks[A1].OnesCount())
	assert.Equal(t, 8, KnightAttackMasks[E4].OnesCount())
	assert.Equal(t, BitboardWithAllLocationsSet([]string{"b3", "c2"}), KnightAttackMasks[A1])

	assert.Equal(t, 3, KingAttackMasks[H8].OnesCount())
	assert.Equal(t, 8, KingAttackMasks[D5].OnesCount())

	assert.Equal(t, BitboardWithAllLocationsSet([]string{"d5", "f5"}), PawnAttackMasks[White][E4])
	assert.Equal(t, BitboardWithAllLocationsSet([]string{"d3", "f3"}), PawnAttackMasks[Black][E4])
	assert.Equal(t, BitboardWithAllLocationsSet([]string{"b3"}), PawnAttackMasks[White][A2])
}

func TestMagicTablesMatchSlidingWalk(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20000; i++ {
		index := r.Intn(64)
		occupied := Bitboard(r.Uint64() & r.Uint64())
		assert.Equal(t, SlidingAttacks(index, occupied, RookDirs), RookAttacks(index, occupied))
		assert.Equal(t, SlidingAttacks(index, occupied, BishopDirs), BishopAttacks(index, occupied))
	}
}

func TestMagicsAreCollisionFree(t *testing.T) {
	for _, table := range []*MagicMoveTable{&RookMagicTable, &BishopMagicTable} {
		dirs := RookDirs
		if table == &BishopMagicTable {
			dirs = BishopDirs
		}
		for i := 0; i < 64; i++ {
			moves := generateMoveBoards(i, table.BlockerMasks[i], dirs)
			assert.True(t, magicIndexWorks(table.Magics[i].Magic, moves, table.Magics[i].BitsInMagicIndex), "square %v", i)
		}
	}
}

func TestFindMagic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	mask := generateBlockerMask(D4, BishopDirs)
	moves := generateMoveBoards(D4, mask, BishopDirs)
	magic, err := FindMagic(r, mask, moves)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, mask.OnesCount(), magic.BitsInMagicIndex)
	assert.True(t, magicIndexWorks(magic.Magic, moves, magic.BitsInMagicIndex))
}

func TestBlockerMask(t *testing.T) {
	assert.Equal(t, 12, generateBlockerMask(A1, RookDirs).OnesCount())
	assert.Equal(t, 10, generateBlockerMask(D4, RookDirs).OnesCount())
	assert.Equal(t, 6, generateBlockerMask(A1, BishopDirs).OnesCount())
	assert.Equal(t, 9, generateBlockerMask(D4, BishopDirs).OnesCount())
}

func TestRookAttacks(t *testing.T) {
	occupied := BitboardWithAllLocationsSet([]string{"d6", "b4", "d2"})
	assert.Equal(t,
		BitboardWithAllLocationsSet([]string{"d5", "d6", "c4", "b4", "e4", "f4", "g4", "h4", "d3", "d2"}),
		RookAttacks(D4, occupied))
}

func TestBetweenAndLine(t *testing.T) {
	assert.Equal(t, BitboardWithAllLocationsSet([]string{"b1", "c1", "d1"}), Between[A1][E1])
	assert.Equal(t, BitboardWithAllLocationsSet([]string{"b2", "c3"}), Between[D4][A1])
	assert.Equal(t, Bitboard(0), Between[A1][B3])
	assert.Equal(t, Bitboard(0), Between[A1][B2])

	assert.Equal(t, FileMasks[4], Line[E1][E5])
	assert.Equal(t, RankMasks[0], Line[C1][G1])
	assert.Equal(t, Bitboard(0), Line[A1][B3])
	assert.True(t, Aligned(A1, H8, D4))
	assert.False(t, Aligned(A1, H8, D5))
}

func TestCastlingRequirements(t *testing.T) {
	req := AllCastlingRequirements[Black][Queenside]
	assert.Equal(t, E8, req.KingStart)
	assert.Equal(t, C8, req.KingEnd)
	assert.Equal(t, A8, req.RookStart)
	assert.Equal(t, D8, req.RookEnd)
	assert.Equal(t, Between[E8][A8], req.Empty)
}

func TestSetClearSquare(t *testing.T) {
	b := Bitboards{}
	b.SetSquare(E4, WN)
	assert.Equal(t, SingleBitboard(E4), b.Players[White].Pieces[Knight])
	assert.Equal(t, SingleBitboard(E4), b.Pieces(Knight))

	err := b.ClearSquare(E4, WN)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, Bitboard(0), b.Occupied)

	err = b.ClearSquare(E4, XX)
	assert.False(t, IsNil(err))
}
