package simplex

import "github.com/norkamer/icgs/decimal"

// tryWarmStart attempts to reconstruct warmStart as the tableau's basis
// via Gauss-Jordan elimination, one row at a time, operating on a deep
// copy so a failed attempt never corrupts the cold tableau the caller
// falls back to. warmStart must name exactly one target column per row,
// in row order (the shape Solution.Basis was produced in against an
// identically-shaped problem); a pivot element that comes up zero at any
// step means the named basis is not actually achievable from this
// tableau (stale or foreign basis), and the attempt is abandoned.
func tryWarmStart(t *tableau, warmStart Basis) (*tableau, bool) {
	if len(warmStart) != len(t.rows) {
		return nil, false
	}
	wt := t.clone()
	for r, target := range warmStart {
		if wt.basis[r] == target {
			continue
		}
		if wt.rows[r][target].IsZero() {
			return nil, false
		}
		wt.pivot(r, target)
	}
	return wt, true
}

func (t *tableau) clone() *tableau {
	rows := make([][]decimal.Decimal, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append([]decimal.Decimal(nil), row...)
	}
	return &tableau{
		rows:           rows,
		basis:          append([]int(nil), t.basis...),
		numCols:        t.numCols,
		structVars:     t.structVars,
		numStruct:      t.numStruct,
		artificialCols: append([]int(nil), t.artificialCols...),
	}
}
