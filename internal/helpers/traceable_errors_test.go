package helpers

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNil(t *testing.T) {
	var err error
	assert.True(t, IsNil(err))

	var traceableErr Error = NilError
	assert.True(t, IsNil(traceableErr))

	var pointerErr *Error
	assert.True(t, IsNil(pointerErr))

	assert.False(t, IsNil(Errorf("boom")))
}

func TestJoin(t *testing.T) {
	assert.True(t, IsNil(Join(NilError, NilError)))

	a := Errorf("a")
	b := Errorf("b")
	assert.Equal(t, 1, Join(NilError, a).NumErrors())
	assert.Equal(t, 2, Join(a, NilError, b).NumErrors())
	assert.Contains(t, Join(a, b).Error(), "a")
	assert.Contains(t, Join(a, b).Error(), "b")
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(io.EOF)
	assert.False(t, IsNil(err))
	assert.True(t, errors.Is(err, io.EOF))

	assert.True(t, IsNil(Wrap(nil)))
	assert.Equal(t, 1, Wrap(err).NumErrors())
}
