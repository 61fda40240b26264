package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateSet_IncrDecr(t *testing.T) {
	s := NewStateSet()
	assert.Equal(t, 0, s.Size())

	s.Incr(5)
	s.Incr(5)
	s.Incr(7)
	assert.Equal(t, 2, s.Size())
	assert.Equal(t, []int{5, 7}, s.GetArray())

	s.Decr(5)
	assert.Equal(t, 2, s.Size(), "refcounted state should survive one Decr")
	assert.Equal(t, []int{5, 7}, s.GetArray())

	s.Decr(5)
	assert.Equal(t, 1, s.Size(), "second Decr should drop the state entirely")
	assert.Equal(t, []int{7}, s.GetArray())

	s.Decr(99)
	assert.Equal(t, 1, s.Size(), "Decr of an absent state is a no-op")
}

func TestStateSet_Equals(t *testing.T) {
	a := NewStateSet()
	a.Incr(1)
	a.Incr(2)

	b := NewStateSet()
	b.Incr(2)
	b.Incr(1)

	assert.True(t, a.Equals(b))
	assert.True(t, b.Equals(a))

	b.Incr(3)
	assert.False(t, a.Equals(b))

	assert.False(t, a.Equals(MockIntSet{}))
}

func TestStateSet_Freeze(t *testing.T) {
	a := NewStateSet()
	a.Incr(1)
	a.Incr(2)

	frozen := a.Freeze(4)
	assert.Equal(t, []int{1, 2}, frozen.GetArray())
	assert.Equal(t, a.Hash(), frozen.Hash(), "Freeze must carry over the live hash, not a stale one")

	b := NewStateSet()
	b.Incr(2)
	b.Incr(1)
	assert.Equal(t, frozen.Hash(), b.Freeze(4).Hash())
}
