package automaton

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRegExp(t *testing.T) {
	regExp, err := NewRegExp("(a|b)*c", WithSyntaxFlags(ALL))
	assert.Nil(t, err)
	assert.NotNil(t, regExp)

	nfa, err := regExp.ToAutomaton()
	assert.Nil(t, err)
	assert.NotNil(t, nfa)
}

func TestRegExpPipeline(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		accept  []string
		reject  []string
	}{
		{
			name:    "union",
			pattern: "(a|b)",
			accept:  []string{"a", "b"},
			reject:  []string{"", "ab", "c"},
		},
		{
			name:    "star then literal",
			pattern: "a*b",
			accept:  []string{"b", "ab", "aaab"},
			reject:  []string{"", "a", "ba"},
		},
		{
			name:    "union of stars",
			pattern: "a*|b*",
			accept:  []string{"", "a", "aaa", "b", "bbb"},
			reject:  []string{"ab", "ba"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regExp, err := NewRegExp(tt.pattern)
			assert.Nil(t, err)

			nfa, err := regExp.ToAutomaton()
			assert.Nil(t, err)

			dfa := Determinize(nfa)
			assert.True(t, dfa.IsDeterministic())

			minDFA, err := Minimize(dfa, DefaultDeterminizeWorkLimit)
			assert.Nil(t, err)
			assert.True(t, minDFA.IsDeterministic())

			for _, s := range tt.accept {
				assert.True(t, Run(nfa, s) || nfaAcceptsViaClosure(nfa, s), "nfa should accept %q", s)
				assert.True(t, Run(dfa, s), "dfa should accept %q", s)
				assert.True(t, Run(minDFA, s), "minimized dfa should accept %q", s)
			}
			for _, s := range tt.reject {
				assert.False(t, Run(dfa, s), "dfa should reject %q", s)
				assert.False(t, Run(minDFA, s), "minimized dfa should reject %q", s)
			}
		})
	}
}

func TestRegExpCaseInsensitive(t *testing.T) {
	regExp, err := NewRegExp("abc", WithMatchFlags(ASCII_CASE_INSENSITIVE))
	assert.Nil(t, err)

	nfa, err := regExp.ToAutomaton()
	assert.Nil(t, err)

	dfa := Determinize(nfa)
	assert.True(t, Run(dfa, "abc"))
	assert.True(t, Run(dfa, "ABC"))
	assert.True(t, Run(dfa, "AbC"))
	assert.False(t, Run(dfa, "abd"))
}

func TestRegExpAnyCharMatchesFullRange(t *testing.T) {
	regExp, err := NewRegExp("a.c")
	assert.Nil(t, err)

	nfa, err := regExp.ToAutomaton()
	assert.Nil(t, err)

	dfa := Determinize(nfa)
	assert.True(t, Run(dfa, "abc"))
	assert.True(t, Run(dfa, "aZc"))
	assert.True(t, Run(dfa, "a9c"))
	assert.False(t, Run(dfa, "ac"))
	assert.False(t, Run(dfa, "abbc"))
}

// TestConcreteScenarios reproduces the exact regex/input/accept table against all three
// automaton forms (epsilon-NFA, subset-constructed DFA, minimized DFA).
func TestConcreteScenarios(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		accept  bool
	}{
		{"(a|b)", "a", true},
		{"(a|b)", "b", true},
		{"(a|b)", "c", false},
		{"(a|b)", "", false},
		{"(a*b)", "", false},
		{"(a*b)", "b", true},
		{"(a*b)", "ab", true},
		{"(a*b)", "bb", false},
		{"(a*b)", "aaaaab", true},
		{"(a*|b*)", "", true},
		{"(a*|b*)", "ab", false},
		{"(a*|b*)", strings.Repeat("a", 100), true},
		{"(a*|b*)", strings.Repeat("b", 100), true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			regExp, err := NewRegExp(tt.pattern)
			assert.Nil(t, err)

			nfa, err := regExp.ToAutomaton()
			assert.Nil(t, err)

			dfa := Determinize(nfa)
			minDFA, err := Minimize(dfa, DefaultDeterminizeWorkLimit)
			assert.Nil(t, err)

			assert.Equal(t, tt.accept, nfaAcceptsViaClosure(nfa, tt.input), "epsilon-NFA")
			assert.Equal(t, tt.accept, Run(dfa, tt.input), "subset-constructed DFA")
			assert.Equal(t, tt.accept, Run(minDFA, tt.input), "minimized DFA")
		})
	}
}

// nfaAcceptsViaClosure runs s against nfa by stepping through epsilon-closures directly,
// since Run/Step alone assume determinism and an epsilon-NFA generally isn't one.
func nfaAcceptsViaClosure(nfa *Automaton, s string) bool {
	closure := EpsilonClosure(nfa)
	current := map[int]struct{}{}
	for _, st := range closure[0] {
		current[st] = struct{}{}
	}

	t := NewTransition()
	for _, r := range s {
		next := map[int]struct{}{}
		for st := range current {
			count := nfa.InitTransition(st, t)
			for i := 0; i < count; i++ {
				nfa.GetNextTransition(t)
				if isEpsilon(t.Min) {
					continue
				}
				if t.Min <= int(r) && int(r) <= t.Max {
					for _, c := range closure[t.Dest] {
						next[c] = struct{}{}
					}
				}
			}
		}
		current = next
	}

	for st := range current {
		if nfa.IsAccept(st) {
			return true
		}
	}
	return false
}
