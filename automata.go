package automaton

import (
	"math"
	"unicode"
)

type Automata struct {
}

// MakeEmpty
// Returns a new (deterministic) automaton with the empty language.
func (*Automata) MakeEmpty() *Automaton {
	a := NewAutomaton()
	a.FinishState()
	return a
}

// MakeEmptyString
// Returns a new (deterministic) automaton that accepts only the empty string.
func (*Automata) MakeEmptyString() *Automaton {
	a := NewAutomaton()
	a.CreateState()
	a.SetAccept(0, true)
	return a
}

// MakeAnyString
// Returns a new (deterministic) automaton that accepts all strings.
func (*Automata) MakeAnyString() (*Automaton, error) {
	a := NewAutomaton()
	s := a.CreateState()
	a.SetAccept(s, true)
	if err := a.AddTransition(s, s, 0, unicode.MaxRune); err != nil {
		return nil, err
	}
	a.FinishState()
	return a, nil
}

func (*Automata) MakeAnyBinary() (*Automaton, error) {
	a := NewAutomaton()
	s := a.CreateState()
	a.SetAccept(s, true)
	if err := a.AddTransition(s, s, 0, math.MaxUint8); err != nil {
		return nil, err
	}
	a.FinishState()
	return a, nil
}

// MakeAnyChar
// Returns a new (deterministic) automaton that accepts a single codepoint of any value.
func (*Automata) MakeAnyChar() (*Automaton, error) {
	return defaultAutomata.MakeCharRange(0, unicode.MaxRune)
}

// MakeChar
// Returns a new (deterministic) automaton that accepts a single codepoint of the given value.
func (*Automata) MakeChar(c int) *Automaton {
	a := NewAutomaton()
	s := a.CreateState()
	accept := a.CreateState()
	a.SetAccept(accept, true)
	_ = a.AddTransitionLabel(s, accept, c)
	a.FinishState()
	return a
}

// MakeCharRange
// Returns a new (deterministic) automaton that accepts a single codepoint whose value lies
// between min and max, inclusive.
func (*Automata) MakeCharRange(min, max int) (*Automaton, error) {
	if min > max {
		return defaultAutomata.MakeEmpty(), nil
	}
	a := NewAutomaton()
	s1 := a.CreateState()
	s2 := a.CreateState()
	a.SetAccept(s2, true)
	if err := a.AddTransition(s1, s2, min, max); err != nil {
		return nil, err
	}
	a.FinishState()
	return a, nil
}

// MakeString
// Returns a new (deterministic) automaton that accepts exactly the single given string, one
// state transition per rune.
func (*Automata) MakeString(s string) *Automaton {
	a := NewAutomaton()
	state := a.CreateState()
	for _, r := range s {
		next := a.CreateState()
		_ = a.AddTransitionLabel(state, next, int(r))
		state = next
	}
	a.SetAccept(state, true)
	a.FinishState()
	return a
}

// defaultAutomata is the shared constructor set used by the regex parser and the combining
// operations (union, concatenate, repeat...) to build leaf automata.
var defaultAutomata = &Automata{}
