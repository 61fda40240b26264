package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_concatenate(t *testing.T) {
	automata := &Automata{}

	a1 := automata.MakeString("m")
	a2, err := automata.MakeAnyString()
	assert.Nil(t, err)
	a3 := automata.MakeString("n")
	a4, err := automata.MakeAnyString()
	assert.Nil(t, err)

	a, err := concatenate(a1, a2, a3, a4)
	assert.Nil(t, err)
	a = Determinize(a)

	assert.True(t, Run(a, "mn"))
	assert.True(t, Run(a, "mone"))
	assert.False(t, Run(a, "m"))
}

func Test_union(t *testing.T) {
	automata := &Automata{}
	a1 := automata.MakeString("cat")
	a2 := automata.MakeString("dog")

	a, err := union(a1, a2)
	assert.Nil(t, err)
	a = Determinize(a)

	assert.True(t, Run(a, "cat"))
	assert.True(t, Run(a, "dog"))
	assert.False(t, Run(a, "bird"))
}

func Test_optional(t *testing.T) {
	automata := &Automata{}
	a1 := automata.MakeString("cat")

	a, err := optional(a1)
	assert.Nil(t, err)
	a = Determinize(a)

	assert.True(t, Run(a, "cat"))
	assert.True(t, Run(a, ""))
	assert.False(t, Run(a, "ca"))
}

func Test_intersection(t *testing.T) {
	automata := &Automata{}
	any, err := automata.MakeAnyString()
	assert.Nil(t, err)
	cat := automata.MakeString("cat")

	a, err := intersection(any, cat, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	a = Determinize(a)

	assert.True(t, Run(a, "cat"))
	assert.False(t, Run(a, "dog"))
}

func Test_complement(t *testing.T) {
	automata := &Automata{}
	cat := automata.MakeString("cat")

	a, err := complement(cat, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.False(t, Run(a, "cat"))
	assert.True(t, Run(a, "dog"))
	assert.True(t, Run(a, ""))
}

func Test_repeat(t *testing.T) {
	automata := &Automata{}
	a1 := automata.MakeString("ab")

	a, err := repeat(a1)
	assert.Nil(t, err)
	a = Determinize(a)

	assert.True(t, Run(a, ""))
	assert.True(t, Run(a, "ab"))
	assert.True(t, Run(a, "abab"))
	assert.False(t, Run(a, "aba"))
}

func Test_repeatRange(t *testing.T) {
	automata := &Automata{}
	a1 := automata.MakeChar('a')

	a, err := repeatRange(a1, 1, 3)
	assert.Nil(t, err)
	a = Determinize(a)

	assert.False(t, Run(a, ""))
	assert.True(t, Run(a, "a"))
	assert.True(t, Run(a, "aa"))
	assert.True(t, Run(a, "aaa"))
	assert.False(t, Run(a, "aaaa"))
}

func Test_removeDeadStates(t *testing.T) {
	automata := &Automata{}
	a1 := automata.MakeString("cat")

	a, err := removeDeadStates(a1)
	assert.Nil(t, err)
	assert.True(t, Run(a, "cat"))
}

func Test_getCommonPrefixBytesRef(t *testing.T) {
	automata := &Automata{}
	a1 := automata.MakeString("catalog")
	a2 := automata.MakeString("catapult")

	a, err := union(a1, a2)
	assert.Nil(t, err)
	a = Determinize(a)
	a, err = removeDeadStates(a)
	assert.Nil(t, err)

	prefix, err := getCommonPrefixBytesRef(a)
	assert.Nil(t, err)
	assert.Equal(t, "cata", string(prefix))
}

func Test_GetSingletonAutomaton(t *testing.T) {
	automata := &Automata{}

	t.Run("singleton string", func(t *testing.T) {
		a := automata.MakeString("ab")
		ints, err := GetSingletonAutomaton(a)
		assert.Nil(t, err)
		assert.Equal(t, []int{'a', 'b'}, ints)
	})

	t.Run("non-singleton via branch", func(t *testing.T) {
		cat := automata.MakeString("cat")
		dog := automata.MakeString("dog")
		u, err := union(cat, dog)
		assert.Nil(t, err)
		a := Determinize(u)

		ints, err := GetSingletonAutomaton(a)
		assert.Nil(t, err)
		assert.Nil(t, ints)
	})

	t.Run("non-singleton via cycle", func(t *testing.T) {
		star, err := repeat(automata.MakeChar('a'))
		assert.Nil(t, err)
		a := Determinize(star)

		ints, err := GetSingletonAutomaton(a)
		assert.Nil(t, err)
		assert.Nil(t, ints)
	})
}

func Test_IsFiniteAutomaton(t *testing.T) {
	automata := &Automata{}
	cat := automata.MakeString("cat")
	assert.True(t, IsFiniteAutomaton(cat).Load())

	star, err := repeat(cat)
	assert.Nil(t, err)
	assert.False(t, IsFiniteAutomaton(star).Load())
}
