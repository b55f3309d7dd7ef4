package evaluation

import (
	"strings"
	"testing"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFen(t *testing.T, fen string) *Position {
	p, err := PositionFromFen(fen)
	require.True(t, IsNil(err), err)
	return p
}

func TestDevelopment(t *testing.T) {
	p := mustFen(t, "4k3/2R5/8/7r/8/r7/3R4/4K3 b - - 10 5")

	assert.Equal(t, strings.Join([]string{
		"    k   ",
		"  R     ",
		"        ",
		"       r",
		"        ",
		"r       ",
		"   R    ",
		"    K   ",
	}, "\n"), p.Board.String())

	rooks := func(player Player) int {
		return evaluateDevelopmentForPiece(p.Bitboards.Players[player].Pieces[Rook], RookDevelopmentBitboards[player])
	}
	assert.Equal(t, 2*_developmentScale, rooks(White))
	assert.Equal(t, -2*_developmentScale, rooks(Black))
}

func TestStartingPositionIsBalanced(t *testing.T) {
	p := StartingPosition()
	assert.Equal(t, 0, PieceSquareEvaluator{}.Evaluate(p))
	assert.Equal(t, 0, MaterialEvaluator{}.Evaluate(p))
}

func TestEvaluationIsSideRelative(t *testing.T) {
	white := mustFen(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := mustFen(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")

	e := PieceSquareEvaluator{}
	assert.Greater(t, e.Evaluate(white), 800)
	assert.Equal(t, e.Evaluate(white), -e.Evaluate(black))
	assert.Equal(t, 900, MaterialEvaluator{}.Evaluate(white))
}

func TestMirroredPositionsScoreTheSame(t *testing.T) {
	a := mustFen(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3")
	b := mustFen(t, "rnbqkb1r/pppp1ppp/5n2/4p3/4P3/2N5/PPPP1PPP/R1BQKBNR b KQkq - 2 3")

	e := PieceSquareEvaluator{}
	assert.Equal(t, e.Evaluate(a), e.Evaluate(b))
}

func TestPawnStructure(t *testing.T) {
	// doubled and isolated c-pawns against a healthy pair
	p := mustFen(t, "4k3/5pp1/8/8/2P5/2P5/8/4K3 w - - 0 1")
	white := EvaluatePawnStructure(&p.Bitboards, White)
	black := EvaluatePawnStructure(&p.Bitboards, Black)

	assert.Equal(t, StackedPawnPenalty+2*IsolatedPawnPenalty+2*PassedPawnBonus, white)
	assert.Equal(t, 2*PassedPawnBonus, black)
}

func TestRookFiles(t *testing.T) {
	p := mustFen(t, "3rk3/4p3/8/8/8/8/3P4/R3K3 w - - 0 1")
	assert.Equal(t, RookOpenFileBonus, EvaluateRooks(&p.Bitboards, White))
	assert.Equal(t, RookSemiOpenFileBonus, EvaluateRooks(&p.Bitboards, Black))
}
