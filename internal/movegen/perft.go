package movegen

import (
	"sort"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

// Perft counts the leaves of the legal move tree.
func Perft(p *Position, depth int) (int, Error) {
	if depth <= 0 {
		return 1, NilError
	}

	moves := GetMovesBuffer()
	defer ReleaseMovesBuffer(moves)

	GenerateLegalMoves(p, moves)
	if depth == 1 {
		return len(*moves), NilError
	}

	total := 0
	for _, move := range *moves {
		undo, err := p.MakeMove(move)
		if !IsNil(err) {
			return total, err
		}
		count, err := Perft(p, depth-1)
		p.UndoMove(move, undo)
		if !IsNil(err) {
			return total, err
		}
		total += count
	}
	return total, NilError
}

type DivideResult struct {
	Move  string
	Count int
}

// Divide reports the perft count below each root move, sorted by move text.
// onMove, when given, is called after each root move completes.
func Divide(p *Position, depth int, onMove func(DivideResult)) ([]DivideResult, Error) {
	moves := GetMovesBuffer()
	defer ReleaseMovesBuffer(moves)

	GenerateLegalMoves(p, moves)

	result := make([]DivideResult, 0, len(*moves))
	for _, move := range *moves {
		undo, err := p.MakeMove(move)
		if !IsNil(err) {
			return result, err
		}
		count, err := Perft(p, depth-1)
		p.UndoMove(move, undo)
		if !IsNil(err) {
			return result, err
		}

		r := DivideResult{Move: move.String(), Count: count}
		result = append(result, r)
		if onMove != nil {
			onMove(r)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Move < result[j].Move
	})
	return result, NilError
}
