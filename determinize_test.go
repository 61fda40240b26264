package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildNFA(t *testing.T) *Automaton {
	t.Helper()
	regExp, err := NewRegExp("(a|b)*abb")
	assert.Nil(t, err)
	nfa, err := regExp.ToAutomaton()
	assert.Nil(t, err)
	return nfa
}

func TestEpsilonClosureReflexiveAndTransitive(t *testing.T) {
	nfa := buildNFA(t)
	closure := EpsilonClosure(nfa)

	for s, set := range closure {
		assert.Contains(t, set, s, "closure(%d) must contain itself", s)

		// Transitivity: closure of everything already in closure(s) is a subset of closure(s).
		for _, member := range set {
			for _, transitive := range closure[member] {
				assert.Contains(t, set, transitive,
					"closure(%d) must contain %d reachable via %d", s, transitive, member)
			}
		}
	}
}

func TestDeterminizeIsDeterministic(t *testing.T) {
	nfa := buildNFA(t)
	dfa := Determinize(nfa)
	assert.True(t, dfa.IsDeterministic())
}

func TestDeterminizePreservesLanguage(t *testing.T) {
	nfa := buildNFA(t)
	dfa := Determinize(nfa)

	inputs := []string{"abb", "ababb", "aabb", "ab", "abbb", "", "aaaabb"}
	for _, in := range inputs {
		assert.Equal(t, nfaAcceptsViaClosure(nfa, in), Run(dfa, in), "mismatch for input %q", in)
	}
}

func TestDeterminizeWithStateSets(t *testing.T) {
	nfa := buildNFA(t)
	dfa, stateSets := DeterminizeWithStateSets(nfa)

	assert.Equal(t, dfa.GetNumStates(), len(stateSets))
	for _, set := range stateSets {
		assert.NotNil(t, set)
	}
}

func TestMinimizeIsDeterministic(t *testing.T) {
	nfa := buildNFA(t)
	dfa := Determinize(nfa)
	minDFA, err := Minimize(dfa, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.True(t, minDFA.IsDeterministic())
}

func TestMinimizePreservesLanguage(t *testing.T) {
	nfa := buildNFA(t)
	dfa := Determinize(nfa)
	minDFA, err := Minimize(dfa, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	inputs := []string{"abb", "ababb", "aabb", "ab", "abbb", "", "aaaabb"}
	for _, in := range inputs {
		assert.Equal(t, Run(dfa, in), Run(minDFA, in), "mismatch for input %q", in)
	}
}

func TestMinimizeIsIdempotent(t *testing.T) {
	nfa := buildNFA(t)
	dfa := Determinize(nfa)
	once, err := Minimize(dfa, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	twice, err := Minimize(once, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.Equal(t, once.GetNumStates(), twice.GetNumStates())
}

func TestMinimizeIsMinimal(t *testing.T) {
	// (a|b)*abb is the textbook example with a 4-state minimal DFA over {a,b} (states:
	// not-seen-a, seen-a, seen-ab, seen-abb). Every other codepoint leads to one shared dead
	// state, which Minimize keeps because other states transition into it: 5 states in all.
	// Minimize must not do better or worse than that.
	nfa := buildNFA(t)
	dfa := Determinize(nfa)
	minDFA, err := Minimize(dfa, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)
	assert.Equal(t, 5, minDFA.GetNumStates())
}

func TestMinimizeDeadStateStability(t *testing.T) {
	automata := &Automata{}
	cat := Determinize(automata.MakeString("cat"))
	minDFA, err := Minimize(cat, DefaultDeterminizeWorkLimit)
	assert.Nil(t, err)

	assert.True(t, Run(minDFA, "cat"))
	assert.False(t, Run(minDFA, "car"))
	assert.False(t, Run(minDFA, "cats"))
}

func TestAlphabet(t *testing.T) {
	automata := &Automata{}
	a := automata.MakeString("ab")
	symbols := Alphabet(a)
	assert.Equal(t, []int{'a', 'b'}, symbols)
}
