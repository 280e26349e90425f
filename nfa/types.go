package nfa

import (
	"github.com/google/uuid"

	"github.com/norkamer/icgs/decimal"
)

// StateID identifies a state in the automaton. State 0 is always the
// shared entry point every compiled pattern epsilon-joins into.
type StateID int

// MeasureID names the measure (source/target/secondary constraint, see
// package lp) a final state's weight contributes to.
type MeasureID string

// FinalInfo is the payload carried by a final state: which measure it
// belongs to and the weight a word landing there contributes. Label is a
// stable, unique debug identifier (independent of the pattern text or
// StateID, which can be reassigned across builds) a diagnostic trace can
// print instead of a bare integer state id.
type FinalInfo struct {
	Measure MeasureID
	Weight  decimal.Decimal
	Label   string
}

func newFinalLabel() string {
	return uuid.NewString()
}

// matcher is the label on a consuming transition: it decides whether a
// single rune is accepted. literalMatcher, rangeMatcher and classMatcher
// are the three kinds the grammar produces (spec.md §3 "Literal | Range
// | NegatedClass").
type matcher interface {
	match(r rune) bool
}

type literalMatcher struct{ r rune }

func (m literalMatcher) match(r rune) bool { return r == m.r }

type rangeMatcher struct{ lo, hi rune }

func (m rangeMatcher) match(r rune) bool { return r >= m.lo && r <= m.hi }

type classMatcher struct {
	items   []rangeMatcher
	negated bool
}

func (m classMatcher) match(r rune) bool {
	hit := false
	for _, it := range m.items {
		if it.match(r) {
			hit = true
			break
		}
	}
	if m.negated {
		return !hit
	}
	return hit
}

type transition struct {
	to    StateID
	label matcher // nil means epsilon
}

type state struct {
	out []transition
}

// NFA is the weighted anchored automaton described by spec.md §3/§4.3.
// The zero value is not usable; construct with New.
type NFA struct {
	states  []*state
	start   StateID
	finals  map[StateID]FinalInfo
	seen    map[MeasureID]map[string]bool // measure -> pattern text -> exists, for trivial ambiguity detection
	frozen  bool
	nextGen int
}

// New creates an empty, unfrozen NFA with a single shared start state.
func New() *NFA {
	n := &NFA{
		finals: make(map[StateID]FinalInfo),
		seen:   make(map[MeasureID]map[string]bool),
	}
	n.start = n.newState()
	return n
}

func (n *NFA) newState() StateID {
	n.states = append(n.states, &state{})
	return StateID(len(n.states) - 1)
}

func (n *NFA) addEpsilon(from, to StateID) {
	n.states[from].out = append(n.states[from].out, transition{to: to})
}

func (n *NFA) addTransition(from, to StateID, label matcher) {
	n.states[from].out = append(n.states[from].out, transition{to: to, label: label})
}

// Frozen reports whether the automaton has been frozen.
func (n *NFA) Frozen() bool { return n.frozen }

// Freeze locks the automaton: further AddPattern calls fail with
// ErrFrozen, and evaluation is guaranteed stable thereafter.
func (n *NFA) Freeze() { n.frozen = true }

// FinalInfo returns the (measure, weight) pair for a final state id, or
// false if q is not a final state.
func (n *NFA) FinalInfo(q StateID) (FinalInfo, bool) {
	info, ok := n.finals[q]
	return info, ok
}
