package automaton

// Run Simulates a deterministic automaton over s, consuming one rune at a time via Step.
// Returns true iff the run ends in an accept state; rejects immediately if any rune has no
// outgoing transition from the current state.
func Run(a *Automaton, s string) bool {
	state := 0
	for _, v := range s {
		nextState := a.Step(state, int(v))
		if nextState == -1 {
			return false
		}
		state = nextState
	}
	return a.IsAccept(state)
}

// Simulate Same as Run, but takes a pre-decoded rune slice instead of a string.
func Simulate(a *Automaton, input []rune) bool {
	state := 0
	for _, v := range input {
		nextState := a.Step(state, int(v))
		if nextState == -1 {
			return false
		}
		state = nextState
	}
	return a.IsAccept(state)
}
