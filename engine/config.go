// Package engine is the one exported front door over C1–C9: it wires
// decimal scale, character sets, taxonomy, pattern/NFA, the DAG, LP
// building and Simplex solving behind the public operations table
// spec.md §6 describes (add_account, define_character_set, add_pattern,
// freeze_classifier, submit, lookup_character), the way the teacher's
// core.NewGraph is the front door over Vertex/Edge/adjacency.
package engine

import (
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/simplex"
)

// config holds every knob an Option can set, defaulted by New before
// options are applied left-to-right — the same two-step shape as the
// teacher's NewGraph(opts ...GraphOption).
type config struct {
	decimalScale               int
	epsilon                    decimal.Decimal
	maxPathsPerTransaction     int
	maxPathLength              int
	maxSimplexIterations       int
	warmStartPolicy            simplex.WarmStartPolicy
	crossValidateOnInstability bool
	characterAutoAllocate      bool
	characterSetName           string
}

func defaultConfig() config {
	return config{
		decimalScale:               decimal.DefaultScale,
		epsilon:                    decimal.MustParse("0.000000000000000001"),
		maxPathsPerTransaction:     10000,
		maxPathLength:              100,
		maxSimplexIterations:       simplex.DefaultMaxIterations,
		warmStartPolicy:            simplex.WarmStartWhenStable,
		crossValidateOnInstability: true,
		characterAutoAllocate:      false,
		characterSetName:           "default",
	}
}

// Option configures an Engine before construction, in New's opts list.
type Option func(*config)

// WithDecimalScale sets the division rounding scale (§4.1) every Decimal
// value this engine produces is held to. Negative values fall back to
// decimal.DefaultScale.
func WithDecimalScale(scale int) Option {
	return func(c *config) { c.decimalScale = scale }
}

// WithEpsilon sets the tolerance Simplex cross-validation (§4.8) and any
// objective-comparison uses to treat two decimals as equal.
func WithEpsilon(epsilon decimal.Decimal) Option {
	return func(c *config) { c.epsilon = epsilon }
}

// WithMaxPathsPerTransaction caps how many reverse DAG paths one Submit
// enumerates before giving up (§4.5's enumeration budget).
func WithMaxPathsPerTransaction(max int) Option {
	return func(c *config) { c.maxPathsPerTransaction = max }
}

// WithMaxPathLength caps the number of edges a single enumerated path
// may contain.
func WithMaxPathLength(max int) Option {
	return func(c *config) { c.maxPathLength = max }
}

// WithMaxSimplexIterations bounds how many pivot steps Phase 1 and
// Phase 2 may together take before a Submit reports MaxIterations.
func WithMaxSimplexIterations(max int) Option {
	return func(c *config) { c.maxSimplexIterations = max }
}

// WithWarmStartPolicy selects how aggressively the prior Submit's basis
// is trusted as a starting point for the next one.
func WithWarmStartPolicy(policy simplex.WarmStartPolicy) Option {
	return func(c *config) { c.warmStartPolicy = policy }
}

// WithCrossValidateOnInstability toggles the independent cold re-solve
// that otherwise always runs when a warm start is anything but
// HighlyStable. Defaults on; disabling it trades the triple-validation
// guarantee for fewer solves per Submit.
func WithCrossValidateOnInstability(enabled bool) Option {
	return func(c *config) { c.crossValidateOnInstability = enabled }
}

// WithCharacterAutoAllocate enables the taxonomy's auto-allocation path
// (a nil character in a mapping request asks the named character set for
// the next free rune) and names which charset.Manager set backs it.
func WithCharacterAutoAllocate(setName string) Option {
	return func(c *config) {
		c.characterAutoAllocate = true
		c.characterSetName = setName
	}
}
