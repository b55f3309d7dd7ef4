package search

import (
	"testing"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/bitboards"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestPrincipalVariation(t *testing.T) {
	pv := PrincipalVariation{}
	assert.Equal(t, NullMove, pv.Best())

	e2e4 := NewMove(E2, E4, DoublePawnPush)
	e7e5 := NewMove(E7, E5, DoublePawnPush)
	g1f3 := NewMove(G1, F3, QuietMove)

	for ply := 0; ply <= 3; ply++ {
		pv.InitLength(ply)
	}
	pv.Push(2, g1f3)
	pv.Push(1, e7e5)
	pv.Push(0, e2e4)

	assert.Equal(t, e2e4, pv.Best())
	assert.Equal(t, []Move{e2e4, e7e5, g1f3}, pv.Line())
	assert.Equal(t, "e2e4 e7e5 g1f3", LineString(pv.Line()))

	// a new best move at the root with a shorter line below it
	pv.InitLength(1)
	pv.Push(0, g1f3)
	assert.Equal(t, []Move{g1f3}, pv.Line())
}
