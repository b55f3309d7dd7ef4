package helpers

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// ProgressBar prints a progress line whenever enough time has passed since
// the previous one, doubling the interval after each line. Add and Set may be
// called from several goroutines.
type ProgressBar struct {
	label string
	total int
	start time.Time
	done  atomic.Int64

	lock     sync.Mutex
	interval time.Duration
}

func CreateProgressBar(total int, label string) *ProgressBar {
	return &ProgressBar{
		label:    label,
		total:    MaxInt(total, 1),
		start:    time.Now(),
		interval: 200 * time.Millisecond,
	}
}

func (b *ProgressBar) Set(n int) {
	b.done.Store(int64(n))
	b.print(false)
}

func (b *ProgressBar) Add(n int) {
	b.done.Add(int64(n))
	b.print(false)
}

// Close prints the final line.
func (b *ProgressBar) Close() {
	b.print(true)
}

func termWidth() int {
	width, _, err := term.GetSize(0)
	if !IsNil(err) {
		return 80
	}
	return ClampInt(width, 80, 120)
}

func roundingUnit(d time.Duration) time.Duration {
	for _, unit := range []time.Duration{time.Minute, time.Second, time.Millisecond, time.Microsecond} {
		if d >= unit {
			return unit
		}
	}
	return time.Nanosecond
}

func (b *ProgressBar) print(force bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	elapsed := time.Since(b.start)
	if elapsed <= b.interval && !force {
		return
	}
	b.interval *= 2

	current := MinInt(int(b.done.Load()), b.total)
	if current <= 0 {
		return
	}
	fmt.Println(b.line(current, elapsed, termWidth()))
}

func (b *ProgressBar) line(current int, elapsed time.Duration, width int) string {
	fraction := float64(current) / float64(b.total)
	eta := time.Duration(float64(elapsed) / fraction)
	unit := roundingUnit(elapsed)

	rate := int64(0)
	if elapsed > 0 {
		rate = int64(float64(current) / elapsed.Seconds())
	}

	prefix := fmt.Sprintf("%s %3d%% ", b.label, int(fraction*100))
	suffix := fmt.Sprintf(" %v => %v @ %v/s", elapsed.Round(unit), eta.Round(unit), humanize.Comma(rate))

	barWidth := MaxInt(width-utf8.RuneCountInString(prefix)-utf8.RuneCountInString(suffix), 0)
	filled := ClampInt(int(float64(barWidth)*fraction), 0, barWidth)
	return prefix + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + suffix
}
