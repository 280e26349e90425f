package dag

import (
	"fmt"

	"github.com/norkamer/icgs/decimal"
)

// CandidateEdge is the proposed, not-yet-committed transaction edge a
// path enumeration runs against (spec.md §3 "Transaction (candidate)").
type CandidateEdge struct {
	Source AccountID
	Target AccountID
	Amount decimal.Decimal
}

// PathWeight is one element of C5's lazy output sequence: a simple path
// (ordered account endpoints, source-only root first, candidate's
// Target last) and the weight it contributes.
type PathWeight struct {
	Path   []AccountID
	Weight decimal.Decimal
}

// EnumeratePaths walks backward (sink→source) from the candidate edge's
// Source, following committed incoming edges, until it reaches a
// source-only account (one with no committed incoming edges — a root).
// Each such antecedent chain, reversed and extended by the candidate
// edge, is one enumerated path; its weight is the product of the
// antecedent edges' committed amounts times the candidate's own amount
// (spec.md §9 Open Question: "per-edge product for fully-committed
// paths; candidate amount factors in only for the terminal [candidate]
// edge" — every enumerated path's terminal edge is, by construction,
// the candidate edge, since every chain runs root→...→Source and the
// candidate always supplies the last hop Source→Target).
//
// Cycle detection uses a per-branch visited set as a defensive measure
// only — the DAG's append-only, amounts-positive invariant already
// guarantees acyclicity — in the same spirit as the teacher's
// dfs.DetectCycles three-color guard (dfs/cycle.go), simplified here to
// one set per branch since the committed edge set itself cannot cycle.
//
// Returns ErrEnumerationBudgetExceeded (a rejection, not a truncation)
// if the walk would exceed maxPaths or maxPathLength.
func (d *DAG) EnumeratePaths(candidate CandidateEdge, maxPaths, maxPathLength int) ([]PathWeight, error) {
	if maxPathLength <= 0 {
		maxPathLength = 1
	}

	var results []PathWeight
	visited := map[AccountID]bool{candidate.Source: true}

	var walk func(node AccountID, chain []AccountID, weightSoFar decimal.Decimal) error
	walk = func(node AccountID, chain []AccountID, weightSoFar decimal.Decimal) error {
		preds := d.IncomingEdges(node)
		if len(preds) == 0 {
			// node is source-only: terminate this branch into one path.
			path := make([]AccountID, 0, len(chain)+1)
			for i := len(chain) - 1; i >= 0; i-- {
				path = append(path, chain[i])
			}
			path = append(path, candidate.Target)
			if len(results) >= maxPaths {
				return fmt.Errorf("%w: exceeded %d paths", ErrEnumerationBudgetExceeded, maxPaths)
			}
			results = append(results, PathWeight{
				Path:   path,
				Weight: weightSoFar.Mul(candidate.Amount),
			})
			return nil
		}

		if len(chain)+1 > maxPathLength {
			return fmt.Errorf("%w: exceeded max path length %d", ErrEnumerationBudgetExceeded, maxPathLength)
		}

		for _, e := range preds {
			if visited[e.Source] {
				continue // defensive: committed history cannot actually cycle
			}
			visited[e.Source] = true
			nextChain := append(append([]AccountID(nil), chain...), e.Source)
			err := walk(e.Source, nextChain, weightSoFar.Mul(e.Amount))
			delete(visited, e.Source)
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(candidate.Source, []AccountID{candidate.Source}, decimal.NewFromInt(1)); err != nil {
		return nil, err
	}
	return results, nil
}
