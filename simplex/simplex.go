package simplex

import (
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/nfa"
)

// Solve runs the two-phase method against problem and applies triple
// validation per spec.md §4.8. warmStart may be nil (always cold-start).
func Solve(problem *lp.Problem, opts Options, warmStart Basis) (*Solution, error) {
	if len(problem.Variables) == 0 {
		return nil, ErrEmptyProblem
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}

	sol, stability, warmStarted, err := solveOnce(problem, opts, warmStart)
	if err != nil {
		return nil, err
	}
	sol.Stability = stability
	sol.WarmStarted = warmStarted

	if stability == HighlyStable {
		return sol, nil
	}
	if opts.SkipCrossValidation {
		return sol, nil
	}

	// ModeratelyStable or GeometricallyUnstable warm start: cross-validate
	// against an independent cold solve (spec.md §4.8 triple validation
	// step 2).
	independent, _, _, err := solveOnce(problem, opts, nil)
	if err != nil {
		return nil, err
	}
	sol.CrossChecked = true
	if independent.Status != sol.Status {
		return &Solution{Status: ValidationMismatch}, ErrValidationMismatch
	}
	if sol.Status == Feasible && !problem.Feasibility {
		if !sol.Objective.WithinEpsilon(independent.Objective, opts.Epsilon) {
			return &Solution{Status: ValidationMismatch}, ErrValidationMismatch
		}
	}
	return sol, nil
}

// solveOnce runs Phase 1, optionally Phase 2, and reports the basis
// stability if a warm start was attempted. It never performs
// cross-validation itself — that is Solve's responsibility, since only
// Solve knows whether a warm start was even in play.
func solveOnce(problem *lp.Problem, opts Options, warmStart Basis) (*Solution, Stability, bool, error) {
	t := buildTableau(problem)
	warmStarted := false
	stability := HighlyStable

	if warmStart != nil && opts.WarmStartPolicy != WarmStartNever {
		if wt, ok := tryWarmStart(t, warmStart); ok {
			t = wt
			warmStarted = true
			stability = classifyStability(t)
			if stability == GeometricallyUnstable && opts.WarmStartPolicy == WarmStartWhenStable {
				// discard: fall back to the untouched cold tableau rather
				// than trust the warm basis at all. The true instability
				// tag survives the fallback — Solve still needs it to
				// decide whether to cross-validate (spec.md §4.8 step 2),
				// even though this solve itself no longer uses the warm
				// basis.
				t = buildTableau(problem)
				warmStarted = false
			}
		}
	}

	phase1Cost := phase1CostRow(t)
	status, iters, err := runSimplex(t, phase1Cost, opts.MaxIterations, t.numCols)
	if err != nil {
		return nil, stability, warmStarted, err
	}
	if status == MaxIterations {
		return &Solution{Status: MaxIterations, Iterations: iters}, stability, warmStarted, nil
	}

	residual := phase1Cost[t.numCols].Neg()
	if residual.GreaterThan(opts.Epsilon) {
		return &Solution{
			Status:                Infeasible,
			Iterations:            iters,
			InfeasibilityResidual: residual,
		}, stability, warmStarted, nil
	}

	if problem.Feasibility {
		return extractSolution(t, Feasible, iters, decimal.Zero), stability, warmStarted, nil
	}

	phase2Cost := phase2CostRow(t, problem, opts.Maximize)
	nonArtificialCols := t.numCols - len(t.artificialCols)
	status, iters2, err := runSimplex(t, phase2Cost, opts.MaxIterations-iters, nonArtificialCols)
	if err != nil {
		return nil, stability, warmStarted, err
	}
	totalIters := iters + iters2
	if status == MaxIterations {
		return &Solution{Status: MaxIterations, Iterations: totalIters}, stability, warmStarted, nil
	}
	if status == Unbounded {
		return &Solution{Status: Unbounded, Iterations: totalIters}, stability, warmStarted, nil
	}

	objective := phase2Cost[t.numCols].Neg()
	if opts.Maximize {
		objective = objective.Neg()
	}
	return extractSolution(t, Feasible, totalIters, objective), stability, warmStarted, nil
}

// phase1CostRow builds the Phase 1 reduced-cost row: minimize the sum of
// artificial variables, pre-reduced so every artificial currently basic
// reads zero (its row is subtracted out, the standard two-phase setup
// step).
func phase1CostRow(t *tableau) []decimal.Decimal {
	cost := make([]decimal.Decimal, t.numCols+1)
	for j := range cost {
		cost[j] = decimal.Zero
	}
	for _, col := range t.artificialCols {
		cost[col] = decimal.NewFromInt(1)
	}
	for r, b := range t.basis {
		isArtificial := false
		for _, col := range t.artificialCols {
			if b == col {
				isArtificial = true
				break
			}
		}
		if !isArtificial {
			continue
		}
		for j := range cost {
			cost[j] = cost[j].Sub(t.rows[r][j])
		}
	}
	return cost
}

// phase2CostRow builds the real-objective reduced-cost row once Phase 1
// has produced a basic feasible solution, pre-reducing it against the
// current basis the same way phase1CostRow does.
func phase2CostRow(t *tableau, problem *lp.Problem, maximize bool) []decimal.Decimal {
	cost := make([]decimal.Decimal, t.numCols+1)
	for j := range cost {
		cost[j] = decimal.Zero
	}
	for varIdx, v := range t.structVars {
		c := problem.Objective[v]
		if maximize {
			c = c.Neg()
		}
		cost[varIdx] = c
	}
	for r, b := range t.basis {
		if b >= t.numStruct {
			continue // slack/artificial columns carry zero objective cost
		}
		factor := cost[b]
		if factor.IsZero() {
			continue
		}
		for j := range cost {
			cost[j] = cost[j].Sub(factor.Mul(t.rows[r][j]))
		}
	}
	return cost
}

func extractSolution(t *tableau, status Status, iterations int, objective decimal.Decimal) *Solution {
	values := make(map[nfa.StateID]decimal.Decimal, t.numStruct)
	for varIdx, v := range t.structVars {
		values[v] = t.basicValue(varIdx)
	}
	basis := make(Basis, len(t.basis))
	copy(basis, t.basis)
	return &Solution{
		Status:     status,
		Values:     values,
		Objective:  objective,
		Iterations: iterations,
		Basis:      basis,
	}
}
