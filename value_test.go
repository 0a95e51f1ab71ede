package micropy_test

import (
	"testing"

	"micropy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		value    micropy.Value
		expected string
	}{
		{micropy.Int(0), "0"},
		{micropy.Int(-42), "-42"},
		{micropy.NewList(), "[]"},
		{micropy.NewList(micropy.Int(1), micropy.Int(2)), "[1, 2]"},
		{micropy.NewList(micropy.NewList(micropy.Int(1)), micropy.NewList()), "[[1], []]"},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.value.String())
	}
}

func TestList_ConsMutatesInPlace(t *testing.T) {
	l := micropy.NewList()
	alias := l
	res := l.Cons(micropy.Int(1)).Cons(micropy.Int(2))
	assert.Same(t, l, res)
	assert.Equal(t, "[1, 2]", alias.String())
	assert.Equal(t, 2, alias.Len())
}

func TestList_HeadTail(t *testing.T) {
	l := micropy.NewList(micropy.Int(1), micropy.Int(2), micropy.Int(3))
	head, ok := l.Head()
	require.True(t, ok)
	assert.Equal(t, micropy.Int(1), head)

	tail, ok := l.Tail()
	require.True(t, ok)
	assert.Equal(t, "[2, 3]", tail.String())
	tail.Cons(micropy.Int(4))
	assert.Equal(t, "[1, 2, 3]", l.String())

	empty := micropy.NewList()
	_, ok = empty.Head()
	assert.False(t, ok)
	_, ok = empty.Tail()
	assert.False(t, ok)
}

func TestIdentical(t *testing.T) {
	a := micropy.NewList()
	b := micropy.NewList()
	assert.True(t, micropy.Identical(micropy.Int(3), micropy.Int(3)))
	assert.False(t, micropy.Identical(micropy.Int(3), micropy.Int(4)))
	assert.True(t, micropy.Identical(a, a))
	assert.False(t, micropy.Identical(a, b))
	assert.False(t, micropy.Identical(micropy.Int(0), a))
	assert.Equal(t, micropy.Int(1), micropy.Bool(true))
	assert.Equal(t, micropy.Int(0), micropy.Bool(false))
}
