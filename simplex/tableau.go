package simplex

import (
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/nfa"
)

// tableau is the standard-form dense Simplex tableau: rows are
// constraints, columns are structural + slack/surplus + artificial
// variables plus a trailing RHS column. basis[i] names the column that
// row i's basic variable currently occupies.
type tableau struct {
	rows  [][]decimal.Decimal // m x (numCols+1); rows[i][numCols] is RHS
	basis []int
	numCols int

	// structVars maps structural column index back to its nfa.StateID,
	// in the same order as lp.Problem.Variables.
	structVars []nfa.StateID
	numStruct  int

	// artificialCols lists every column index that holds an artificial
	// variable, in row order (len == number of GE/EQ rows).
	artificialCols []int
}

// buildTableau translates problem into standard form: LE rows get a
// slack column (coefficient +1, usable as the initial basic variable),
// GE rows get a surplus column (coefficient -1) plus an artificial
// column, EQ rows get only an artificial column. Every row is first
// normalized to a non-negative RHS by negating the row (and flipping its
// operator) when necessary, mirroring the sign-normalization step any
// textbook two-phase setup performs before assigning slack/surplus signs.
func buildTableau(problem *lp.Problem) *tableau {
	n := len(problem.Variables)
	m := len(problem.Constraints)

	type normalized struct {
		coeffs map[nfa.StateID]decimal.Decimal
		op     lp.Op
		rhs    decimal.Decimal
	}
	norm := make([]normalized, m)
	numSlack, numArtificial := 0, 0
	for i, c := range problem.Constraints {
		coeffs := c.Coefficients
		op := c.Op
		rhs := c.RHS
		if rhs.Sign() < 0 {
			flipped := make(map[nfa.StateID]decimal.Decimal, len(coeffs))
			for k, v := range coeffs {
				flipped[k] = v.Neg()
			}
			coeffs = flipped
			rhs = rhs.Neg()
			switch op {
			case lp.LE:
				op = lp.GE
			case lp.GE:
				op = lp.LE
			}
		}
		norm[i] = normalized{coeffs: coeffs, op: op, rhs: rhs}
		switch op {
		case lp.LE, lp.GE:
			numSlack++
		}
		switch op {
		case lp.GE, lp.EQ:
			numArtificial++
		}
	}

	numCols := n + numSlack + numArtificial
	t := &tableau{
		numCols:    numCols,
		structVars: problem.Variables,
		numStruct:  n,
		basis:      make([]int, m),
	}
	t.rows = make([][]decimal.Decimal, m)
	for i := range t.rows {
		t.rows[i] = make([]decimal.Decimal, numCols+1)
		for j := range t.rows[i] {
			t.rows[i][j] = decimal.Zero
		}
	}

	nextSlack := n
	nextArtificial := n + numSlack
	for i, row := range norm {
		for varIdx, v := range t.structVars {
			if coef, ok := row.coeffs[v]; ok {
				t.rows[i][varIdx] = coef
			}
		}
		switch row.op {
		case lp.LE:
			slackCol := nextSlack
			nextSlack++
			t.rows[i][slackCol] = decimal.NewFromInt(1)
			t.basis[i] = slackCol
		case lp.GE:
			slackCol := nextSlack
			nextSlack++
			t.rows[i][slackCol] = decimal.NewFromInt(-1)
			artCol := nextArtificial
			nextArtificial++
			t.rows[i][artCol] = decimal.NewFromInt(1)
			t.basis[i] = artCol
			t.artificialCols = append(t.artificialCols, artCol)
		case lp.EQ:
			artCol := nextArtificial
			nextArtificial++
			t.rows[i][artCol] = decimal.NewFromInt(1)
			t.basis[i] = artCol
			t.artificialCols = append(t.artificialCols, artCol)
		}
		t.rows[i][numCols] = row.rhs
	}

	return t
}

// pivot performs a Gauss-Jordan elimination step: normalizes row `row`
// so column `col` reads 1, then clears column `col` from every other
// row. This is the single primitive both Phase 1 and Phase 2 pivoting
// (and warm-start basis reconstruction) share.
func (t *tableau) pivot(row, col int) {
	pivotVal := t.rows[row][col]
	for j := range t.rows[row] {
		q, _ := t.rows[row][j].Div(pivotVal)
		t.rows[row][j] = q
	}
	for r := range t.rows {
		if r == row {
			continue
		}
		factor := t.rows[r][col]
		if factor.IsZero() {
			continue
		}
		for j := range t.rows[r] {
			t.rows[r][j] = t.rows[r][j].Sub(factor.Mul(t.rows[row][j]))
		}
	}
	t.basis[row] = col
}

// basicValue returns the current value of column col: its row's RHS if
// col is basic, zero otherwise.
func (t *tableau) basicValue(col int) decimal.Decimal {
	for r, b := range t.basis {
		if b == col {
			return t.rows[r][t.numCols]
		}
	}
	return decimal.Zero
}
