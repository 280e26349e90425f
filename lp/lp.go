// Package lp implements C7: it translates the measures registered against
// the automaton, together with C6's per-final-state class weights, into a
// linear program that C8 can solve.
//
// lp never talks to dag or taxonomy; it only needs nfa.StateID/MeasureID
// (to name variables) and classify.Result (to read accumulated weight),
// continuing the "no cyclic references" layering the rest of the stack
// follows.
package lp

import (
	"fmt"
	"sort"

	"github.com/norkamer/icgs/classify"
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/nfa"
)

// Op is a constraint's relational operator.
type Op int

const (
	LE Op = iota // ≤
	GE           // ≥
	EQ           // =
)

func (o Op) String() string {
	switch o {
	case LE:
		return "<="
	case GE:
		return ">="
	case EQ:
		return "="
	default:
		return "?"
	}
}

// Kind classifies a measure the way spec.md §4.7 does, which determines
// the relational operator its constraint is built with.
type Kind int

const (
	SourceMeasure Kind = iota
	TargetMeasure
	SecondaryMeasure
)

// Measure is one constraint-producing group of final states: every final
// state in FinalStates contributes `weight(q) * f_q` to the same
// constraint. For SecondaryMeasure, Op selects ≤ or ≥ explicitly; Source
// and Target measures fix their own operator regardless of the value
// supplied here.
type Measure struct {
	ID          nfa.MeasureID
	Kind        Kind
	FinalStates []nfa.StateID
	Bound       decimal.Decimal
	SecondaryOp Op
}

// Constraint is one row of the LP: Σ Coefficients[q] * f_q {Op} RHS.
type Constraint struct {
	Label        string
	Coefficients map[nfa.StateID]decimal.Decimal
	Op           Op
	RHS          decimal.Decimal
}

// Problem is the LP builder's output: spec.md §4.7's (objective,
// constraints, bounds). Variables is the deterministic, sorted variable
// ordering every downstream component (C8's tableau, diagnostics) uses;
// bounds are implicit: every variable is non-negative, enforced by C8
// rather than carried as an explicit Constraint row.
type Problem struct {
	Variables   []nfa.StateID
	Objective   map[nfa.StateID]decimal.Decimal
	Constraints []Constraint
	Feasibility bool // true when Objective is all-zero (feasibility-only mode)
}

// ObjectiveFunc supplies the per-final-state objective coefficient for
// optimization mode (the chosen source-price function, spec.md §4.7). A
// nil ObjectiveFunc builds a feasibility-mode problem (all-zero
// objective).
type ObjectiveFunc func(measure nfa.MeasureID, final nfa.StateID) decimal.Decimal

// Build constructs the LP problem for one candidate transaction: one
// constraint per measure (source ≤ acceptable, target ≥ required,
// secondary per its own operator), non-negativity handled implicitly, a
// per-variable upper bound equal to the accumulated class mass C6
// classified into it (emitted as its own ≤ constraint row — a class's
// flow variable can never carry more than the path-mass actually
// classified into it), and a flow-conservation constraint Σ f_q = amount
// across every variable that appears in any measure.
//
// automaton supplies the per-final-state registered weight (spec.md
// §4.7: "use the final state's weight as the coefficient") — the weight
// `AddPattern` attached to the pattern, not the classifier's accumulated
// mass, which instead bounds the variable (see above).
func Build(measures []Measure, result *classify.Result, amount decimal.Decimal, automaton *nfa.NFA, objective ObjectiveFunc) (*Problem, error) {
	if amount.Sign() <= 0 {
		return nil, ErrNegativeAmount
	}

	varSet := make(map[nfa.StateID]struct{})
	constraints := make([]Constraint, 0, len(measures)+1)
	bounds := make(map[nfa.StateID]decimal.Decimal)

	for _, m := range measures {
		if len(m.FinalStates) == 0 {
			return nil, fmt.Errorf("%w: measure %q", ErrEmptyMeasure, m.ID)
		}
		coeffs := make(map[nfa.StateID]decimal.Decimal, len(m.FinalStates))
		for _, final := range m.FinalStates {
			info, ok := automaton.FinalInfo(final)
			if !ok {
				return nil, fmt.Errorf("%w: measure %q final state %v", ErrUnknownFinalState, m.ID, final)
			}
			coeffs[final] = info.Weight
			varSet[final] = struct{}{}
			bounds[final] = classWeight(result, m.ID, final)
		}

		op := m.SecondaryOp
		switch m.Kind {
		case SourceMeasure:
			op = LE
		case TargetMeasure:
			op = GE
		}

		constraints = append(constraints, Constraint{
			Label:        string(m.ID),
			Coefficients: coeffs,
			Op:           op,
			RHS:          m.Bound,
		})
	}

	variables := make([]nfa.StateID, 0, len(varSet))
	for v := range varSet {
		variables = append(variables, v)
	}
	sort.Slice(variables, func(i, j int) bool { return variables[i] < variables[j] })

	for _, v := range variables {
		constraints = append(constraints, Constraint{
			Label:        fmt.Sprintf("class-mass:%d", v),
			Coefficients: map[nfa.StateID]decimal.Decimal{v: decimal.NewFromInt(1)},
			Op:           LE,
			RHS:          bounds[v],
		})
	}

	conservation := Constraint{
		Label:        "flow-conservation",
		Coefficients: make(map[nfa.StateID]decimal.Decimal, len(variables)),
		Op:           EQ,
		RHS:          amount,
	}
	for _, v := range variables {
		conservation.Coefficients[v] = decimal.NewFromInt(1)
	}
	constraints = append(constraints, conservation)

	obj := make(map[nfa.StateID]decimal.Decimal, len(variables))
	feasibility := objective == nil
	for _, v := range variables {
		if feasibility {
			obj[v] = decimal.Zero
			continue
		}
		obj[v] = objective(measureOf(measures, v), v)
	}

	return &Problem{
		Variables:   variables,
		Objective:   obj,
		Constraints: constraints,
		Feasibility: feasibility,
	}, nil
}

// classWeight reads the accumulated class weight for (measure, final),
// defaulting to zero — a final state no path classified into this
// transaction contributes nothing, which is a legitimate upper bound
// (the variable is pinned to zero), not an error.
func classWeight(result *classify.Result, measure nfa.MeasureID, final nfa.StateID) decimal.Decimal {
	byFinal, ok := result.ByMeasure[measure]
	if !ok {
		return decimal.Zero
	}
	return byFinal[final]
}

func measureOf(measures []Measure, final nfa.StateID) nfa.MeasureID {
	for _, m := range measures {
		for _, f := range m.FinalStates {
			if f == final {
				return m.ID
			}
		}
	}
	return ""
}
