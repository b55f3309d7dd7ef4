package helpers

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestProgressLine(t *testing.T) {
	b := CreateProgressBar(100, "perft")
	line := b.line(50, 2*time.Second, 60)

	assert.Equal(t, 60, utf8.RuneCountInString(line))
	assert.Equal(t, "perft  50% "+strings.Repeat("=", 16)+strings.Repeat(" ", 17)+" 2s => 4s @ 25/s", line)

	b = CreateProgressBar(1000000, "big")
	line = b.line(1000000, time.Second, 40)
	assert.True(t, strings.HasSuffix(line, "@ 1,000,000/s"), line)
}

func TestRoundingUnit(t *testing.T) {
	assert.Equal(t, time.Nanosecond, roundingUnit(500*time.Nanosecond))
	assert.Equal(t, time.Millisecond, roundingUnit(20*time.Millisecond))
	assert.Equal(t, time.Minute, roundingUnit(3*time.Minute))
}
