package automaton

// IntPair Two state ids considered together, used while building the initial "possibly
// equivalent" relation and while recording merge candidates during quotienting.
type IntPair struct {
	n1 int
	n2 int
}

// Minimize Minimizes (determinizing first if necessary) the given automaton by iterative
// refinement of the "possibly equivalent" pair relation, rather than Hopcroft's partition
// refinement: starting from every same-side-of-accept-boundary pair, a pair is dropped the
// first time some symbol steps it to a pair already known to be distinguishable, and the
// process repeats to a fixed point. Surviving pairs are merged via a union-find pass so that
// equivalence classes of any size collapse correctly, not just pairs and triples.
func Minimize(a *Automaton, determinizeWorkLimit int) (*Automaton, error) {
	if a.GetNumStates() == 0 || (a.IsAccept(0) == false && a.GetNumTransitionsWithState(0) == 0) {
		// Fast match for common case
		return NewAutomaton(), nil
	}

	if !a.IsDeterministic() {
		a = Determinize(a)
	}

	total, err := totalize(a)
	if err != nil {
		return nil, err
	}

	numStates := total.GetNumStates()
	deadState := numStates - 1
	points := startPoints(total)

	related := make(map[IntPair]struct{})
	for p := 0; p < numStates; p++ {
		for q := p + 1; q < numStates; q++ {
			if total.IsAccept(p) == total.IsAccept(q) {
				related[IntPair{p, q}] = struct{}{}
			}
		}
	}

	isRelated := func(x, y int) bool {
		if x == y {
			return true
		}
		lo, hi := x, y
		if lo > hi {
			lo, hi = hi, lo
		}
		_, ok := related[IntPair{lo, hi}]
		return ok
	}

	for changed := true; changed; {
		changed = false
		for pr := range related {
			keep := true
			for _, sym := range points {
				x := total.Step(pr.n1, sym)
				y := total.Step(pr.n2, sym)
				if !isRelated(x, y) {
					keep = false
					break
				}
			}
			if !keep {
				delete(related, pr)
				changed = true
			}
		}
	}

	// Union-find, always attaching the smaller root to the larger so a class's
	// representative converges to its maximum member ("max wins").
	parent := make([]int, numStates)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	canonicalize := func(x, y int) {
		rx, ry := find(x), find(y)
		if rx == ry {
			return
		}
		if rx < ry {
			parent[rx] = ry
		} else {
			parent[ry] = rx
		}
	}
	for pr := range related {
		canonicalize(pr.n1, pr.n2)
	}

	classOf := make([]int, numStates)
	for s := 0; s < numStates; s++ {
		classOf[s] = find(s)
	}

	order := make([]int, 0, numStates)
	newID := make(map[int]int, numStates)
	startClass := classOf[0]
	newID[startClass] = 0
	order = append(order, startClass)
	for s := 0; s < numStates; s++ {
		c := classOf[s]
		if _, ok := newID[c]; !ok {
			newID[c] = len(order)
			order = append(order, c)
		}
	}

	acceptClass := make(map[int]bool, len(order))
	for s := 0; s < numStates; s++ {
		if total.IsAccept(s) {
			acceptClass[classOf[s]] = true
		}
	}

	quotient := NewAutomaton()
	for range order {
		quotient.CreateState()
	}
	for _, c := range order {
		quotient.SetAccept(newID[c], acceptClass[c])
	}

	t := NewTransition()
	for _, c := range order {
		srcNew := newID[c]
		count := total.InitTransition(c, t)
		for i := 0; i < count; i++ {
			total.GetNextTransition(t)
			destNew := newID[classOf[t.Dest]]
			if err := quotient.AddTransition(srcNew, destNew, t.Min, t.Max); err != nil {
				return nil, err
			}
		}
	}
	quotient.FinishState()

	return stripSyntheticDeadState(quotient, newID[classOf[deadState]]), nil
}

// stripSyntheticDeadState Drops the dead-state class produced by totalize if it has no
// accepting representative and nothing but its own self-loop points into it. When any other
// state transitions into the dead class, the class is kept and the result stays total.
func stripSyntheticDeadState(a *Automaton, deadID int) *Automaton {
	if a.IsAccept(deadID) {
		return a
	}
	if deadID == 0 {
		// The dead state is also the start state; nothing meaningful survives without it.
		return a
	}

	numStates := a.GetNumStates()
	t := NewTransition()
	for s := 0; s < numStates; s++ {
		if s == deadID {
			continue
		}
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			if t.Dest == deadID {
				return a
			}
		}
	}

	mp := make([]int, numStates)
	result := NewAutomaton()
	for s := 0; s < numStates; s++ {
		if s == deadID {
			continue
		}
		mp[s] = result.CreateState()
		result.SetAccept(mp[s], a.IsAccept(s))
	}

	for s := 0; s < numStates; s++ {
		if s == deadID {
			continue
		}
		count := a.InitTransition(s, t)
		for i := 0; i < count; i++ {
			a.GetNextTransition(t)
			if t.Dest == deadID {
				continue
			}
			_ = result.AddTransition(mp[s], mp[t.Dest], t.Min, t.Max)
		}
	}
	result.FinishState()
	return result
}
