// Package simplex implements C8: a two-phase Simplex solver over exact
// decimal arithmetic, with the triple validation spec.md §4.8 requires —
// a pivot-stability classification gating warm-start reuse, a
// cross-validation re-solve from an independent basis when stability is
// anything but high, and a hard iteration bound.
package simplex

import (
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/nfa"
)

// Status is the terminal classification of a solve attempt.
type Status int

const (
	Feasible Status = iota
	Infeasible
	Unbounded
	MaxIterations
	ValidationMismatch
)

func (s Status) String() string {
	switch s {
	case Feasible:
		return "Feasible"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	case MaxIterations:
		return "MaxIterations"
	case ValidationMismatch:
		return "ValidationMismatch"
	default:
		return "Unknown"
	}
}

// Stability is the pivot-stability tag a warm-start basis is classified
// under before it is trusted.
type Stability int

const (
	HighlyStable Stability = iota
	ModeratelyStable
	GeometricallyUnstable
)

func (s Stability) String() string {
	switch s {
	case HighlyStable:
		return "HighlyStable"
	case ModeratelyStable:
		return "ModeratelyStable"
	case GeometricallyUnstable:
		return "GeometricallyUnstable"
	default:
		return "Unknown"
	}
}

// WarmStartPolicy controls whether and when a caller-supplied basis is
// trusted as a starting point.
type WarmStartPolicy int

const (
	// WarmStartWhenStable uses the warm-start basis only if it classifies
	// HighlyStable; ModeratelyStable falls back to re-checked feasibility
	// from the hinted basis, GeometricallyUnstable discards it entirely.
	WarmStartWhenStable WarmStartPolicy = iota
	WarmStartAlways
	WarmStartNever
)

// Options configures one Solve call.
type Options struct {
	Epsilon         decimal.Decimal
	MaxIterations   int
	WarmStartPolicy WarmStartPolicy
	Maximize        bool

	// SkipCrossValidation disables the independent cold re-solve triple
	// validation step §4.8 otherwise runs whenever a warm start
	// classifies anything but HighlyStable. The zero value (false)
	// keeps validation on, matching every existing caller's expectation;
	// engine exposes this inverted as WithCrossValidateOnInstability.
	SkipCrossValidation bool
}

// DefaultMaxIterations is spec.md §4.8's bound.
const DefaultMaxIterations = 10000

// Basis is a pivot-stability fingerprint: the variable index occupying
// each tableau row, in row order. It is opaque outside this package
// except for passing a prior Solution's Basis back in as a warm start.
type Basis []int

// Solution is the outcome of one Solve call.
type Solution struct {
	Status      Status
	Values      map[nfa.StateID]decimal.Decimal // LP variable (final state) → value
	Objective   decimal.Decimal
	Iterations  int
	Stability   Stability
	WarmStarted bool
	CrossChecked bool
	Basis       Basis

	// InfeasibilityResidual is Phase 1's final artificial-variable sum,
	// the certificate spec.md §4.8 asks an Infeasible result to carry.
	InfeasibilityResidual decimal.Decimal
}
