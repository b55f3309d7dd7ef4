package search

import (
	"testing"
	"time"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeControl(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	overhead := 10 * time.Millisecond

	budget := func(limits Limits, side Player) Optional[time.Duration] {
		tc := NewTimeControl(limits, side, overhead, now)
		return tc.RemainingTime(now)
	}

	assert.Equal(t, Some(980*time.Millisecond), budget(Limits{MoveTime: time.Second}, White))
	assert.Equal(t, Some(time.Millisecond), budget(Limits{MoveTime: 5 * time.Millisecond}, White))

	clock := Limits{
		WTime: Some(60 * time.Second),
		BTime: Some(20 * time.Second),
		WInc:  time.Second,
	}
	assert.Equal(t, Some(2480*time.Millisecond), budget(clock, White))
	assert.Equal(t, Some(480*time.Millisecond), budget(clock, Black))

	clock.MovesToGo = 10
	assert.Equal(t, Some(6980*time.Millisecond), budget(clock, White))

	// the increment never pushes past the clock
	assert.Equal(t, Some(90*time.Millisecond), budget(Limits{WTime: Some(100 * time.Millisecond), WInc: 5 * time.Second}, White))
	assert.Equal(t, Some(time.Millisecond), budget(Limits{WTime: Some(time.Duration(0))}, White))

	assert.True(t, budget(Limits{}, White).IsEmpty())
	assert.True(t, budget(Limits{Infinite: true, MoveTime: time.Second}, White).IsEmpty())
	assert.True(t, budget(Limits{Ponder: true, WTime: Some(time.Second)}, White).IsEmpty())
	assert.True(t, budget(Limits{BTime: Some(time.Second)}, White).IsEmpty())
}

func TestDeadlineLeavesRoomToAnswer(t *testing.T) {
	now := time.Now()
	for _, movetime := range []time.Duration{20 * time.Millisecond, 100 * time.Millisecond, time.Second} {
		tc := NewTimeControl(Limits{MoveTime: movetime}, White, 0, now)
		require.True(t, tc.Deadline().HasValue())
		assert.True(t, tc.Deadline().Value().Before(now.Add(movetime)), movetime.String())
		assert.Equal(t, movetime-StopMargin, tc.Deadline().Value().Sub(now))
	}
}

func TestTimeControlExpires(t *testing.T) {
	now := time.Now()
	tc := NewTimeControl(Limits{MoveTime: 100 * time.Millisecond}, White, 0, now)

	assert.False(t, tc.IsOver(now))
	assert.False(t, tc.IsOver(now.Add(89*time.Millisecond)))
	assert.True(t, tc.IsOver(now.Add(90*time.Millisecond)))
	assert.Equal(t, Some(now.Add(100*time.Millisecond-StopMargin)), tc.Deadline())
	assert.Equal(t, Some(time.Duration(0)), tc.RemainingTime(now.Add(time.Second)))
	assert.Equal(t, 250*time.Millisecond, tc.Elapsed(now.Add(250*time.Millisecond)))

	fixedDepth := NewTimeControl(Limits{Depth: 5}, White, 0, now)
	assert.False(t, fixedDepth.IsOver(now.Add(time.Hour)))
	assert.True(t, fixedDepth.Deadline().IsEmpty())
}
