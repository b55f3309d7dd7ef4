package search

import (
	"time"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

// Limits are the parameters of a `go` command. Zero values mean "not given";
// the clocks are optional because zero time left is a valid clock.
type Limits struct {
	Depth     int
	Nodes     int
	MoveTime  time.Duration
	Infinite  bool
	Ponder    bool
	WTime     Optional[time.Duration]
	BTime     Optional[time.Duration]
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

const DefaultMovesToGo = 40

// StopMargin is kept back from every deadline on top of the Move Overhead
// option, for the time between the deadline passing and bestmove being written.
const StopMargin = 10 * time.Millisecond

type TimeControl struct {
	start    time.Time
	deadline Optional[time.Time]
}

func NewTimeControl(limits Limits, side Player, overhead time.Duration, now time.Time) TimeControl {
	tc := TimeControl{start: now}

	if limits.Infinite || limits.Ponder {
		return tc
	}

	if limits.MoveTime > 0 {
		tc.deadline = Some(now.Add(withMargin(limits.MoveTime - overhead)))
		return tc
	}

	clock, inc := limits.WTime, limits.WInc
	if side == Black {
		clock, inc = limits.BTime, limits.BInc
	}
	if clock.IsEmpty() {
		return tc
	}

	movesToGo := limits.MovesToGo
	if movesToGo <= 0 {
		movesToGo = DefaultMovesToGo
	}

	left := clock.Value()
	budget := left/time.Duration(movesToGo) + inc - overhead
	if budget > left {
		budget = left
	}
	tc.deadline = Some(now.Add(withMargin(budget)))
	return tc
}

func withMargin(budget time.Duration) time.Duration {
	return max(time.Millisecond, budget-StopMargin)
}

func (tc TimeControl) Deadline() Optional[time.Time] {
	return tc.deadline
}

func (tc TimeControl) Elapsed(now time.Time) time.Duration {
	return now.Sub(tc.start)
}

// RemainingTime is empty when the search has no deadline.
func (tc TimeControl) RemainingTime(now time.Time) Optional[time.Duration] {
	if tc.deadline.IsEmpty() {
		return Empty[time.Duration]()
	}
	return Some(max(0, tc.deadline.Value().Sub(now)))
}

func (tc TimeControl) IsOver(now time.Time) bool {
	return tc.deadline.HasValue() && !now.Before(tc.deadline.Value())
}
