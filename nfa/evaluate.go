package nfa

import "sort"

// stateSet is a map-backed set of StateIDs; iteration order is not
// defined, so callers that need a deterministic choice sort explicitly
// (see smallestFinal).
type stateSet map[StateID]struct{}

func newStateSet() stateSet { return make(stateSet) }

func (s stateSet) add(id StateID) { s[id] = struct{}{} }

func (s stateSet) has(id StateID) bool {
	_, ok := s[id]
	return ok
}

// epsilonClosure returns the set of states reachable from every state in
// seed via zero or more epsilon transitions (seed included).
func (n *NFA) epsilonClosure(seed stateSet) stateSet {
	closure := newStateSet()
	var stack []StateID
	for id := range seed {
		closure.add(id)
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, tr := range n.states[id].out {
			if tr.label != nil {
				continue
			}
			if !closure.has(tr.to) {
				closure.add(tr.to)
				stack = append(stack, tr.to)
			}
		}
	}
	return closure
}

// step consumes one rune from the current active set and returns the
// set of states reachable by a single matching transition (before
// taking the epsilon closure of the result).
func (n *NFA) step(active stateSet, r rune) stateSet {
	next := newStateSet()
	for id := range active {
		for _, tr := range n.states[id].out {
			if tr.label == nil {
				continue
			}
			if tr.label.match(r) {
				next.add(tr.to)
			}
		}
	}
	return next
}

// Evaluate runs the word through the automaton and returns the final
// state it lands on, or (0, false) if the word is rejected. Because
// every pattern is anchored, a word is accepted only if the automaton's
// active state set after consuming every rune contains at least one
// final state — a partial match never counts.
//
// When multiple finals would accept the same word (ambiguity across
// measures, which the spec explicitly allows — spec.md §9 Open
// Questions resolves this as "each measure classified independently"),
// Evaluate tie-breaks deterministically by the smallest final state id.
// Repeated calls on the same word return the same result (NFA
// determinism under freeze, spec.md §8).
func (n *NFA) Evaluate(word string) (StateID, bool, error) {
	if !n.frozen {
		return 0, false, ErrNotFrozen
	}
	active := n.epsilonClosure(stateSet{n.start: {}})
	for _, r := range word {
		stepped := n.step(active, r)
		active = n.epsilonClosure(stepped)
		if len(active) == 0 {
			return 0, false, nil
		}
	}
	return n.smallestFinal(active)
}

// EvaluateAll is the diagnostic fallback of spec.md §4.3: it returns
// every final state the word's run touches, not just the tie-broken
// winner. Package classify uses it to classify each measure on its own.
// Also useful for reporting *why* a path was unclassified (no final
// reached at all vs. reached one but Evaluate doesn't surface it —
// EvaluateAll will always be a superset of {Evaluate's result}).
func (n *NFA) EvaluateAll(word string) (map[StateID]struct{}, error) {
	if !n.frozen {
		return nil, ErrNotFrozen
	}
	active := n.epsilonClosure(stateSet{n.start: {}})
	for _, r := range word {
		stepped := n.step(active, r)
		active = n.epsilonClosure(stepped)
		if len(active) == 0 {
			return map[StateID]struct{}{}, nil
		}
	}
	hits := make(map[StateID]struct{})
	for id := range active {
		if _, ok := n.finals[id]; ok {
			hits[id] = struct{}{}
		}
	}
	return hits, nil
}

func (n *NFA) smallestFinal(active stateSet) (StateID, bool, error) {
	var candidates []StateID
	for id := range active {
		if _, ok := n.finals[id]; ok {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, false, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	return candidates[0], true, nil
}
