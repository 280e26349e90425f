// Package nfa implements C3: a weighted, anchored, Thompson-constructed
// NFA. add_pattern compiles a pattern.Node (via package pattern) into a
// fragment of the shared automaton and labels its final state with a
// measure id and weight; freeze locks the automaton for evaluation;
// evaluate runs an on-the-fly subset-construction simulation and
// returns at most one final state per word.
package nfa

import "errors"

// ErrFrozen indicates a mutation (AddPattern) was attempted after Freeze.
var ErrFrozen = errors.New("nfa: classifier is frozen")

// ErrNotFrozen indicates Evaluate/EvaluateAll was called before Freeze;
// only frozen NFAs may be consulted by the pipeline (spec.md §4.3).
var ErrNotFrozen = errors.New("nfa: classifier must be frozen before evaluation")

// ErrAmbiguousPattern indicates AddPattern was called twice with the
// same literal pattern string under the same measure id — a trivial,
// structurally-detectable case of the "genuine ambiguity" spec.md §4.3
// asks the builder to reject. Deeper semantic ambiguity (two distinct
// patterns whose languages overlap) would require a language-
// equivalence check; that is not attempted here.
var ErrAmbiguousPattern = errors.New("nfa: pattern is ambiguous within its measure")
