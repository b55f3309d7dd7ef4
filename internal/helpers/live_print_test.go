package helpers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiveLogger(t *testing.T) {
	out := &bytes.Buffer{}
	l := NewLiveLogger(out)
	l.Footer(0).Print("a")
	l.Println("1")
	l.Footer(1).Print("b")
	l.Println("2")
	l.Flush()

	assert.Contains(t, out.String(), "1\n")
	assert.Contains(t, out.String(), "2\n")
	assert.Contains(t, out.String(), "a\nb\n")
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "abc", truncateLine("abc", 5))
	assert.Equal(t, "ab…", truncateLine("\033[31mabcdef\033[0m", 3))
}
