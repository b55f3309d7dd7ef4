package search

import (
	"strings"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

// PrincipalVariation is the triangular PV table: row ply holds the best line
// found from ply onwards, in columns ply..length[ply].
type PrincipalVariation struct {
	table  [MaxPly + 1][MaxPly + 1]Move
	length [MaxPly + 1]int
}

func (pv *PrincipalVariation) InitLength(ply int) {
	pv.length[ply] = ply
}

func (pv *PrincipalVariation) Push(ply int, move Move) {
	pv.table[ply][ply] = move
	next := ply
	if ply+1 <= MaxPly {
		next = pv.length[ply+1]
		for i := ply + 1; i < next; i++ {
			pv.table[ply][i] = pv.table[ply+1][i]
		}
	}
	pv.length[ply] = MaxInt(next, ply+1)
}

func (pv *PrincipalVariation) Best() Move {
	if pv.length[0] == 0 {
		return NullMove
	}
	return pv.table[0][0]
}

func (pv *PrincipalVariation) Line() []Move {
	result := make([]Move, pv.length[0])
	copy(result, pv.table[0][:pv.length[0]])
	return result
}

func LineString(line []Move) string {
	return strings.Join(MapSlice(line, func(m Move) string { return m.String() }), " ")
}
