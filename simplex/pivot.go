package simplex

import "github.com/norkamer/icgs/decimal"

// runSimplex iterates the standard primal Simplex method against cost
// (a row of reduced-cost coefficients, one per column, already reduced
// against the current basis — the caller is responsible for that
// initial reduction) until no improving column remains, an unbounded
// ray is found, or maxIterations is exhausted.
//
// Entering/leaving selection uses Bland's rule throughout (smallest
// column index among negative reduced costs; smallest basic-variable
// index among tied minimum ratios) rather than only falling back to it
// on detected degeneracy — Bland's rule never costs more than a few
// extra iterations on non-degenerate problems and guarantees
// termination unconditionally, which this package's determinism
// requirement (spec.md §4.8: "bit-identical solutions") leans on
// directly.
func runSimplex(t *tableau, cost []decimal.Decimal, maxIterations, enterLimit int) (status Status, iterations int, err error) {
	for iterations = 0; iterations < maxIterations; iterations++ {
		enter := -1
		for j := 0; j < enterLimit; j++ {
			if cost[j].Sign() < 0 {
				enter = j
				break // Bland's rule: smallest index, not most negative
			}
		}
		if enter == -1 {
			return Feasible, iterations, nil
		}

		leave := -1
		var bestRatio decimal.Decimal
		for r := range t.rows {
			coef := t.rows[r][enter]
			if coef.Sign() <= 0 {
				continue
			}
			ratio, _ := t.rows[r][t.numCols].Div(coef)
			switch {
			case leave == -1:
				leave, bestRatio = r, ratio
			case ratio.LessThan(bestRatio):
				leave, bestRatio = r, ratio
			case ratio.Equal(bestRatio) && t.basis[r] < t.basis[leave]:
				leave = r // Bland's tie-break: smallest leaving-basis index
			}
		}
		if leave == -1 {
			return Unbounded, iterations, nil
		}

		t.pivot(leave, enter)
		reduceCostRow(cost, t, leave, enter)
	}
	return MaxIterations, iterations, nil
}

// reduceCostRow applies the same Gauss-Jordan elimination the tableau's
// own pivot just performed to the (separately tracked) reduced-cost row,
// keeping it consistent with the new basis.
func reduceCostRow(cost []decimal.Decimal, t *tableau, pivotRow, pivotCol int) {
	factor := cost[pivotCol]
	if factor.IsZero() {
		return
	}
	for j := range cost {
		cost[j] = cost[j].Sub(factor.Mul(t.rows[pivotRow][j]))
	}
}
