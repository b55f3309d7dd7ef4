package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
)

type Options struct {
	MoveOverhead int  `json:"move_overhead"`
	Threads      int  `json:"threads"`
	Hash         int  `json:"hash"`
	Debug        bool `json:"debug"`
}

type spinRange struct {
	name    string
	min     int
	max     int
	def     int
	pointer func(o *Options) *int
}

var spins = []spinRange{
	{"Move Overhead", 0, 1000, 10, func(o *Options) *int { return &o.MoveOverhead }},
	{"Threads", 1, 1024, 1, func(o *Options) *int { return &o.Threads }},
	{"Hash", 1, 33554432, 64, func(o *Options) *int { return &o.Hash }},
}

func Defaults() Options {
	o := Options{}
	for _, s := range spins {
		*s.pointer(&o) = s.def
	}
	return o
}

func (o Options) Overhead() time.Duration {
	return time.Duration(o.MoveOverhead) * time.Millisecond
}

// normalize makes option names case and space insensitive, so "move overhead"
// and "MoveOverhead" name the same option.
func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// Set parses value into the named option. The options are left unchanged on
// error.
func (o *Options) Set(name string, value string) Error {
	key := normalize(name)
	value = strings.TrimSpace(value)

	if key == "debug" {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Errorf("debug must be true or false, got %q", value)
		}
		o.Debug = b
		return NilError
	}

	for _, s := range spins {
		if normalize(s.name) != key {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return Errorf("%v must be a number, got %q", s.name, value)
		}
		if n < s.min || n > s.max {
			return Errorf("%v must be between %v and %v, got %v", s.name, s.min, s.max, n)
		}
		*s.pointer(o) = n
		return NilError
	}

	return Errorf("unknown option %q", name)
}

// Validate checks every field against its range. Stored options may come from
// an older binary with different limits.
func (o Options) Validate() Error {
	errs := []Error{}
	for _, s := range spins {
		n := *s.pointer(&o)
		if n < s.min || n > s.max {
			errs = append(errs, Errorf("%v must be between %v and %v, got %v", s.name, s.min, s.max, n))
		}
	}
	return Join(errs...)
}

// Declarations lists the `option` lines sent in reply to `uci`.
func Declarations() []string {
	result := MapSlice(spins, func(s spinRange) string {
		return fmt.Sprintf("option name %v type spin default %v min %v max %v", s.name, s.def, s.min, s.max)
	})
	return append(result, "option name Debug type check default false")
}
