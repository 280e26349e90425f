package simplex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/norkamer/icgs/classify"
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/nfa"
	"github.com/norkamer/icgs/simplex"
)

func feasibilityOptions() simplex.Options {
	return simplex.Options{Epsilon: decimal.MustParse("0.0000001"), MaxIterations: 0}
}

func buildSimpleProblem(t *testing.T, targetBound, amount string) *lp.Problem {
	t.Helper()
	automaton := nfa.New()
	final, err := automaton.AddPattern("src", "A", decimal.NewFromInt(1))
	require.NoError(t, err)
	// Accumulated class mass well above anything these tests submit as
	// amount, so the new class-mass upper bound never gates feasibility
	// on its own — these tests exercise the source/target bounds, not
	// the mass cap (see lp.TestBuildUsesFinalWeightNotClassMass for
	// that distinction).
	res := &classify.Result{
		ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{
			"src": {final: decimal.NewFromInt(1000)},
			"tgt": {final: decimal.NewFromInt(1000)},
		},
	}
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(100)},
		{ID: "tgt", Kind: lp.TargetMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.MustParse(targetBound)},
	}
	problem, err := lp.Build(measures, res, decimal.MustParse(amount), automaton, nil)
	require.NoError(t, err)
	return problem
}

func TestSolveFeasible(t *testing.T) {
	require := require.New(t)
	problem := buildSimpleProblem(t, "1", "5")
	final := problem.Variables[0]

	sol, err := simplex.Solve(problem, feasibilityOptions(), nil)
	require.NoError(err)
	require.Equal(simplex.Feasible, sol.Status)
	require.True(sol.Values[final].Equal(decimal.NewFromInt(5)))
}

func TestSolveInfeasible(t *testing.T) {
	require := require.New(t)
	problem := buildSimpleProblem(t, "1000", "5")

	sol, err := simplex.Solve(problem, feasibilityOptions(), nil)
	require.NoError(err)
	require.Equal(simplex.Infeasible, sol.Status)
	require.True(sol.InfeasibilityResidual.GreaterThan(decimal.Zero))
}

func TestSolveOptimizationModeMinimizesObjective(t *testing.T) {
	require := require.New(t)
	automaton := nfa.New()
	f1, err := automaton.AddPattern("src", "A", decimal.NewFromInt(1))
	require.NoError(err)
	f2, err := automaton.AddPattern("src", "B", decimal.NewFromInt(1))
	require.NoError(err)
	res := &classify.Result{
		ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{
			"src": {f1: decimal.NewFromInt(1000), f2: decimal.NewFromInt(1000)},
		},
	}
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{f1, f2}, Bound: decimal.NewFromInt(100)},
	}
	// price f1 cheaper than f2: optimum should load entirely onto f1.
	objective := func(_ nfa.MeasureID, final nfa.StateID) decimal.Decimal {
		if final == f1 {
			return decimal.NewFromInt(1)
		}
		return decimal.NewFromInt(5)
	}
	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, objective)
	require.NoError(err)

	sol, err := simplex.Solve(problem, feasibilityOptions(), nil)
	require.NoError(err)
	require.Equal(simplex.Feasible, sol.Status)
	require.True(sol.Values[f1].Equal(decimal.NewFromInt(10)))
	require.True(sol.Values[f2].IsZero())
	require.True(sol.Objective.Equal(decimal.NewFromInt(10)))
}

func TestSolveUnbounded(t *testing.T) {
	require := require.New(t)
	// Deliberately built without a flow-conservation row: minimizing -f1
	// (i.e. maximizing f1) subject only to f1 >= 0 is unbounded.
	problem := &lp.Problem{
		Variables: []nfa.StateID{1},
		Objective: map[nfa.StateID]decimal.Decimal{1: decimal.NewFromInt(-1)},
		Constraints: []lp.Constraint{
			{Label: "noop", Coefficients: map[nfa.StateID]decimal.Decimal{1: decimal.NewFromInt(0)}, Op: lp.LE, RHS: decimal.NewFromInt(1)},
		},
	}

	sol, err := simplex.Solve(problem, feasibilityOptions(), nil)
	require.NoError(err)
	require.Equal(simplex.Unbounded, sol.Status)
}

func TestSolveWarmStartReproducesBasis(t *testing.T) {
	require := require.New(t)
	problem := buildSimpleProblem(t, "1", "5")
	final := problem.Variables[0]

	first, err := simplex.Solve(problem, feasibilityOptions(), nil)
	require.NoError(err)
	require.False(first.WarmStarted)

	opts := feasibilityOptions()
	opts.WarmStartPolicy = simplex.WarmStartAlways
	second, err := simplex.Solve(problem, opts, first.Basis)
	require.NoError(err)
	require.Equal(simplex.Feasible, second.Status)
	require.True(second.Values[final].Equal(first.Values[final]))
}

// TestSolveCrossValidatesOnDiscardedUnstableWarmStart pins down spec.md
// §4.8 step 2: a warm-start basis that classifies GeometricallyUnstable
// must still trigger the independent cross-check, and the Outcome must
// keep reporting the real instability tag, even though the default
// WarmStartWhenStable policy discards the warm basis and solves cold.
func TestSolveCrossValidatesOnDiscardedUnstableWarmStart(t *testing.T) {
	require := require.New(t)
	automaton := nfa.New()
	final, err := automaton.AddPattern("src", "A", decimal.NewFromInt(1))
	require.NoError(err)

	roomy := &lp.Problem{
		Variables: []nfa.StateID{final},
		Objective: map[nfa.StateID]decimal.Decimal{final: decimal.Zero},
		Constraints: []lp.Constraint{
			{Label: "bound", Coefficients: map[nfa.StateID]decimal.Decimal{final: decimal.NewFromInt(1)}, Op: lp.LE, RHS: decimal.NewFromInt(100)},
		},
	}
	opts := feasibilityOptions()
	first, err := simplex.Solve(roomy, opts, nil)
	require.NoError(err)
	require.Equal(simplex.HighlyStable, first.Stability)

	// Warm-starting the same (slack-basic) basis against a problem whose
	// bound sits a hair above zero reconstructs a basis whose row value
	// is tiny relative to its own norm — geometrically unstable.
	nearDegenerate := &lp.Problem{
		Variables: []nfa.StateID{final},
		Objective: map[nfa.StateID]decimal.Decimal{final: decimal.Zero},
		Constraints: []lp.Constraint{
			{Label: "bound", Coefficients: map[nfa.StateID]decimal.Decimal{final: decimal.NewFromInt(1)}, Op: lp.LE, RHS: decimal.MustParse("0.0000000001")},
		},
	}

	sol, err := simplex.Solve(nearDegenerate, opts, first.Basis)
	require.NoError(err)
	require.Equal(simplex.GeometricallyUnstable, sol.Stability)
	require.False(sol.WarmStarted)
	require.True(sol.CrossChecked)
}

func TestSolveRejectsEmptyProblem(t *testing.T) {
	_, err := simplex.Solve(&lp.Problem{}, feasibilityOptions(), nil)
	require.ErrorIs(t, err, simplex.ErrEmptyProblem)
}
