package automaton

import "unicode"

// DefaultDeterminizeWorkLimit is the advisory budget plumbed through the regex-level
// ToAutomaton entry point (complement/intersection, which determinize internally as part of
// De Morgan's law); Determinize itself imposes no limit, since subset construction has no
// failure mode in this spec.
const DefaultDeterminizeWorkLimit = 10000

// stateSetOf builds a StateSet (refcounted, hashable, sortable) out of a plain slice of states,
// the common shape both closureOf and the per-symbol destination-state bookkeeping below need.
func stateSetOf(values []int) *StateSet {
	s := NewStateSet()
	for _, v := range values {
		s.Incr(v)
	}
	return s
}

func closureOf(closureTable map[int][]int, states []int) []int {
	seen := NewStateSet()
	for _, s := range states {
		for _, c := range closureTable[s] {
			seen.Incr(c)
		}
	}
	return seen.GetArray()
}

func intersectsAccept(a *Automaton, states []int) bool {
	for _, s := range states {
		if a.IsAccept(s) {
			return true
		}
	}
	return false
}

// Determinize Runs the subset construction over a and discards the epsilon-NFA state-set side
// table; see DeterminizeWithStateSets for the variant that keeps it.
func Determinize(a *Automaton) *Automaton {
	result, _ := DeterminizeWithStateSets(a)
	return result
}

// DeterminizeWithStateSets Converts an epsilon-NFA into a deterministic, epsilon-free Automaton
// via subset construction, returning alongside it the set of original NFA states each DFA state
// packs (indexed by DFA state id).
func DeterminizeWithStateSets(a *Automaton) (*Automaton, []*FrozenIntSet) {
	if a.GetNumStates() == 0 {
		return NewAutomaton(), nil
	}

	closureTable := EpsilonClosure(a)
	points := startPoints(a)

	builder := NewBuilder()
	assigned := NewHashMap[int](WithCapacity(16))
	var stateSets []*FrozenIntSet

	startSet := closureOf(closureTable, []int{0})
	builder.CreateState()
	// The dedup key always freezes at state 0, a neutral placeholder so that two visits of the
	// same epsilon-NFA state set compare equal regardless of which DFA id gets assigned; for the
	// start state specifically the real id happens to be 0 too, so one Freeze call serves both
	// the HashMap key and the stored side-table entry.
	startKey := stateSetOf(startSet).Freeze(0)
	assigned.Set(startKey, 0)
	stateSets = append(stateSets, startKey)

	type pending struct {
		id  int
		set []int
	}
	worklist := []pending{{0, startSet}}

	t := NewTransition()
	for len(worklist) > 0 {
		item := worklist[0]
		worklist = worklist[1:]

		builder.SetAccept(item.id, intersectsAccept(a, item.set))

		for i, lo := range points {
			hi := int(unicode.MaxRune)
			if i+1 < len(points) {
				hi = points[i+1] - 1
			}

			destStates := NewStateSet()
			for _, s := range item.set {
				count := a.InitTransition(s, t)
				for j := 0; j < count; j++ {
					a.GetNextTransition(t)
					if isEpsilon(t.Min) {
						continue
					}
					if t.Min <= lo && lo <= t.Max {
						destStates.Incr(t.Dest)
					}
				}
			}

			destSet := closureOf(closureTable, destStates.GetArray())
			destKey := stateSetOf(destSet)

			id, ok := assigned.Get(destKey.Freeze(0))
			if !ok {
				id = builder.CreateState()
				frozen := destKey.Freeze(id)
				assigned.Set(destKey.Freeze(0), id)
				stateSets = append(stateSets, frozen)
				worklist = append(worklist, pending{id, destSet})
			}

			_ = builder.AddTransition(item.id, id, lo, hi)
		}
	}

	result := builder.Finish()
	return result, stateSets
}
