package helpers

import (
	"math/bits"
	"strings"
)

func MapSlice[T, U any](ts []T, f func(T) U) []U {
	us := make([]U, len(ts))
	for i := range ts {
		us[i] = f(ts[i])
	}
	return us
}

func FilterSlice[T any](ts []T, f func(T) bool) []T {
	filtered := []T{}
	for i := range ts {
		if f(ts[i]) {
			filtered = append(filtered, ts[i])
		}
	}
	return filtered
}

func FindInSlice[T any](ts []T, f func(T) bool) Optional[T] {
	for i := range ts {
		if f(ts[i]) {
			return Some(ts[i])
		}
	}
	return Empty[T]()
}

func ReduceSlice[T, U any](ts []T, initial U, f func(U, T) U) U {
	u := initial
	for _, t := range ts {
		u = f(u, t)
	}
	return u
}

func Contains[T comparable](ts []T, t T) bool {
	for i := range ts {
		if ts[i] == t {
			return true
		}
	}
	return false
}

// ReverseBits mirrors a rank of a bitboard so that file a prints first.
func ReverseBits(n uint8) uint8 {
	return bits.Reverse8(n)
}

// Optional is a value that may be missing, such as an en passant square.
type Optional[T any] struct {
	ok    bool
	value T
}

func Some[T any](t T) Optional[T] {
	return Optional[T]{ok: true, value: t}
}

func Empty[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) IsEmpty() bool {
	return !o.ok
}

func (o Optional[T]) HasValue() bool {
	return o.ok
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) ValueOr(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func MinInt(x int, y int) int {
	if x < y {
		return x
	}
	return y
}

func MaxInt(x int, y int) int {
	if x > y {
		return x
	}
	return y
}

func ClampInt(x int, lo int, hi int) int {
	return MaxInt(lo, MinInt(hi, x))
}

func Indent(s string, indent string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := range lines {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

func FlipArray(array [8][8]int) [8][8]int {
	result := [8][8]int{}
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			result[i][j] = array[7-i][j]
		}
	}
	return result
}
