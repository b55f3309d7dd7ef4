package search

import (
	"fmt"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

const (
	Inf  = 1_000_000
	Mate = 900_000

	// MaxPly bounds the distance from the root, including quiescence.
	MaxPly = 128

	DrawScore        = 0
	AspirationWindow = 50
)

// IsMate is true for scores that encode a forced mate within MaxPly.
func IsMate(score int) bool {
	return score > Mate-MaxPly || score < -Mate+MaxPly
}

// MateInMoves converts a mate score to full moves: positive when the side to
// move mates, negative when it gets mated.
func MateInMoves(score int) Optional[int] {
	if score > Mate-MaxPly {
		return Some((Mate - score + 1) / 2)
	}
	if score < -Mate+MaxPly {
		return Some(-(Mate + score) / 2)
	}
	return Empty[int]()
}

// ScoreString renders a score the way `info score` expects it.
func ScoreString(score int) string {
	if mate := MateInMoves(score); mate.HasValue() {
		return fmt.Sprint("mate ", mate.Value())
	}
	return fmt.Sprint("cp ", score)
}

// scoreToTable makes mate scores relative to the node storing them, so they
// stay correct when the entry is found at another ply.
func scoreToTable(score int, ply int) int {
	if score > Mate-MaxPly {
		return score + ply
	}
	if score < -Mate+MaxPly {
		return score - ply
	}
	return score
}

func scoreFromTable(score int, ply int) int {
	if score > Mate-MaxPly {
		return score - ply
	}
	if score < -Mate+MaxPly {
		return score + ply
	}
	return score
}
