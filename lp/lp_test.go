package lp_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/norkamer/icgs/classify"
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/nfa"
)

// addFinal registers a single-literal pattern under measure with weight
// and returns its final state id, so each test can build an automaton
// whose FinalInfo.Weight is independent of the classifier's accumulated
// class mass.
func addFinal(t *testing.T, automaton *nfa.NFA, measure nfa.MeasureID, literal string, weight decimal.Decimal) nfa.StateID {
	t.Helper()
	final, err := automaton.AddPattern(measure, literal, weight)
	require.NoError(t, err)
	return final
}

func resultWith(measure nfa.MeasureID, final nfa.StateID, mass decimal.Decimal) *classify.Result {
	return &classify.Result{
		ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{
			measure: {final: mass},
		},
	}
}

func TestBuildSourceConstraintUsesLE(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final := addFinal(t, automaton, "src", "A", decimal.NewFromInt(3))
	res := resultWith("src", final, decimal.NewFromInt(10))
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(100)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.NoError(err)
	require.Len(problem.Constraints, 3) // measure row + class-mass bound + flow-conservation
	require.Equal(lp.LE, problem.Constraints[0].Op)
	require.True(problem.Constraints[0].Coefficients[final].Equal(decimal.NewFromInt(3)))
}

func TestBuildTargetConstraintUsesGE(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final := addFinal(t, automaton, "tgt", "B", decimal.NewFromInt(1))
	res := resultWith("tgt", final, decimal.NewFromInt(5))
	measures := []lp.Measure{
		{ID: "tgt", Kind: lp.TargetMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(1)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.NoError(err)
	require.Equal(lp.GE, problem.Constraints[0].Op)
}

func TestBuildSecondaryUsesDeclaredOp(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final := addFinal(t, automaton, "sec", "C", decimal.NewFromInt(1))
	res := resultWith("sec", final, decimal.NewFromInt(1))
	measures := []lp.Measure{
		{ID: "sec", Kind: lp.SecondaryMeasure, SecondaryOp: lp.GE, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(1)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.NoError(err)
	require.Equal(lp.GE, problem.Constraints[0].Op)
}

// TestBuildUsesFinalWeightNotClassMass pins down the maintainer-flagged
// distinction directly: a final registered with weight 2 and an
// accumulated class mass of 1000 must contribute coefficient 2 to its
// measure row, with the 1000 appearing only as that variable's
// class-mass upper bound.
func TestBuildUsesFinalWeightNotClassMass(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final := addFinal(t, automaton, "src", "A", decimal.NewFromInt(2))
	res := resultWith("src", final, decimal.NewFromInt(1000))
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(100)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.NoError(err)

	measureRow := problem.Constraints[0]
	require.True(measureRow.Coefficients[final].Equal(decimal.NewFromInt(2)))

	var boundRow *lp.Constraint
	for i := range problem.Constraints {
		if problem.Constraints[i].Label == "class-mass:"+itoa(final) {
			boundRow = &problem.Constraints[i]
		}
	}
	require.NotNil(boundRow)
	require.Equal(lp.LE, boundRow.Op)
	require.True(boundRow.RHS.Equal(decimal.NewFromInt(1000)))
}

func TestBuildClassMassBoundDefaultsToZeroWhenUnclassified(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final := addFinal(t, automaton, "src", "A", decimal.NewFromInt(1))
	res := &classify.Result{ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{}}
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(100)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.NoError(err)

	for _, c := range problem.Constraints {
		if c.Label == "class-mass:"+itoa(final) {
			require.True(c.RHS.IsZero())
			return
		}
	}
	t.Fatal("class-mass bound row not found")
}

func TestBuildFlowConservationSumsAmount(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final1 := addFinal(t, automaton, "src", "A", decimal.NewFromInt(1))
	final2 := addFinal(t, automaton, "src", "B", decimal.NewFromInt(1))
	res := &classify.Result{
		ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{
			"src": {final1: decimal.NewFromInt(1), final2: decimal.NewFromInt(1)},
		},
	}
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final1, final2}, Bound: decimal.NewFromInt(100)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(42), automaton, nil)
	require.NoError(err)
	last := problem.Constraints[len(problem.Constraints)-1]
	require.Equal("flow-conservation", last.Label)
	require.Equal(lp.EQ, last.Op)
	require.True(last.RHS.Equal(decimal.NewFromInt(42)))
	require.True(last.Coefficients[final1].Equal(decimal.NewFromInt(1)))
	require.True(last.Coefficients[final2].Equal(decimal.NewFromInt(1)))
}

func TestBuildFeasibilityModeZeroObjective(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final := addFinal(t, automaton, "src", "A", decimal.NewFromInt(1))
	res := resultWith("src", final, decimal.NewFromInt(1))
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(100)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.NoError(err)
	require.True(problem.Feasibility)
	require.True(problem.Objective[final].IsZero())
}

func TestBuildOptimizationModeUsesObjectiveFunc(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final := addFinal(t, automaton, "src", "A", decimal.NewFromInt(1))
	res := resultWith("src", final, decimal.NewFromInt(1))
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(100)},
	}

	objective := func(measure nfa.MeasureID, final nfa.StateID) decimal.Decimal {
		return decimal.NewFromInt(7)
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, objective)
	require.NoError(err)
	require.False(problem.Feasibility)
	require.True(problem.Objective[final].Equal(decimal.NewFromInt(7)))
}

func TestBuildRejectsEmptyMeasure(t *testing.T) {
	automaton := nfa.New()
	res := &classify.Result{ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{}}
	measures := []lp.Measure{{ID: "src", Kind: lp.SourceMeasure, Bound: decimal.NewFromInt(1)}}

	_, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.ErrorIs(t, err, lp.ErrEmptyMeasure)
}

func TestBuildRejectsNonPositiveAmount(t *testing.T) {
	automaton := nfa.New()
	final := addFinal(t, automaton, "src", "A", decimal.NewFromInt(1))
	res := resultWith("src", final, decimal.NewFromInt(1))
	measures := []lp.Measure{{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final}, Bound: decimal.NewFromInt(1)}}

	_, err := lp.Build(measures, res, decimal.Zero, automaton, nil)
	require.ErrorIs(t, err, lp.ErrNegativeAmount)
}

func TestBuildRejectsUnknownFinalState(t *testing.T) {
	automaton := nfa.New()
	res := &classify.Result{ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{}}
	measures := []lp.Measure{{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{99}, Bound: decimal.NewFromInt(1)}}

	_, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.ErrorIs(t, err, lp.ErrUnknownFinalState)
}

func TestBuildVariablesAreSortedAndDeduplicated(t *testing.T) {
	require := require.New(t)

	automaton := nfa.New()
	final3 := addFinal(t, automaton, "src", "A", decimal.NewFromInt(1))
	final1 := addFinal(t, automaton, "tgt", "B", decimal.NewFromInt(1))
	res := &classify.Result{
		ByMeasure: map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal{
			"src": {final3: decimal.NewFromInt(1)},
			"tgt": {final1: decimal.NewFromInt(1)},
		},
	}
	measures := []lp.Measure{
		{ID: "src", Kind: lp.SourceMeasure, FinalStates: []nfa.StateID{final3}, Bound: decimal.NewFromInt(100)},
		{ID: "tgt", Kind: lp.TargetMeasure, FinalStates: []nfa.StateID{final1}, Bound: decimal.NewFromInt(1)},
	}

	problem, err := lp.Build(measures, res, decimal.NewFromInt(10), automaton, nil)
	require.NoError(err)
	want := []nfa.StateID{final1, final3}
	if final1 > final3 {
		want = []nfa.StateID{final3, final1}
	}
	require.Equal(want, problem.Variables)
}

func itoa(id nfa.StateID) string {
	return strconv.Itoa(int(id))
}
