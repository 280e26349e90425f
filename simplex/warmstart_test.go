package simplex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/nfa"
)

func sampleProblem() *lp.Problem {
	return &lp.Problem{
		Variables: []nfa.StateID{1},
		Objective: map[nfa.StateID]decimal.Decimal{1: decimal.Zero},
		Constraints: []lp.Constraint{
			{Label: "src", Coefficients: map[nfa.StateID]decimal.Decimal{1: decimal.NewFromInt(1)}, Op: lp.LE, RHS: decimal.NewFromInt(100)},
		},
	}
}

func TestTryWarmStartRejectsWrongLength(t *testing.T) {
	tb := buildTableau(sampleProblem())
	_, ok := tryWarmStart(tb, Basis{1, 2})
	require.False(t, ok)
}

func TestTryWarmStartReconstructsBasis(t *testing.T) {
	tb := buildTableau(sampleProblem())
	// column 0 (the structural variable) has a non-zero coefficient in
	// the only row, so pivoting it into the basis must succeed.
	wt, ok := tryWarmStart(tb, Basis{0})
	require.True(t, ok)
	require.Equal(t, 0, wt.basis[0])
}

func TestTryWarmStartFailsOnZeroPivot(t *testing.T) {
	problem := sampleProblem()
	problem.Constraints[0].Coefficients[1] = decimal.Zero
	tb := buildTableau(problem)
	_, ok := tryWarmStart(tb, Basis{0})
	require.False(t, ok)
}
