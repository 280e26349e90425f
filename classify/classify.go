// Package classify implements C6: it consumes the lazy path sequence
// C5 enumerates, converts each path to a word via C4, classifies the
// word through the frozen C3 automaton, and accumulates path weight
// into per-measure, per-final-state equivalence classes.
//
// classify depends only on nfa and decimal, not on dag or taxonomy
// directly — the pipeline package bridges dag.PathWeight and
// taxonomy.History.PathToWord into the plain Path/WordFunc shape below,
// keeping the "NFA knows nothing of taxonomy, taxonomy knows nothing of
// DAG" discipline spec.md §9 calls for (no component here needs to know
// what an Account or Edge actually is).
package classify

import (
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/nfa"
)

// Path is one candidate path to classify: an ordered account-endpoint
// sequence (opaque strings — classify never interprets them except by
// handing them to WordFunc) and the weight C5 assigned it.
type Path struct {
	Accounts []string
	Weight   decimal.Decimal
}

// WordFunc converts a path's accounts into the word the NFA consumes,
// at the taxonomy snapshot for transaction number k. It is
// taxonomy.History.PathToWord, adapted to classify's plain []string
// shape by the caller (package pipeline).
type WordFunc func(accounts []string, k int64) (string, error)

// Result is the classification output: C7 reads ByMeasure directly;
// the counters are carried into the pipeline's diagnostic Outcome.
type Result struct {
	// ByMeasure[measure][final] is the accumulated weight of every path
	// whose word classified to that final state under that measure.
	ByMeasure map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal

	PathsEnumerated  int
	PathsClassified  int
	PathsUnclassified int
}

// Classify runs every path through automaton at transaction number k.
// automaton must be frozen (spec.md §4.3): Classify returns
// nfa.ErrNotFrozen otherwise. Each measure is classified independently:
// a word reaching finals of several measures adds its weight to each of
// them, under the smallest final state id within each measure.
// Unclassified paths (no final state reached) are dropped from ByMeasure
// but counted in PathsUnclassified — spec.md §4.6 calls this "discarded
// silently but counted for diagnostics".
func Classify(paths []Path, k int64, word WordFunc, automaton *nfa.NFA) (*Result, error) {
	if !automaton.Frozen() {
		return nil, nfa.ErrNotFrozen
	}
	res := &Result{
		ByMeasure:       make(map[nfa.MeasureID]map[nfa.StateID]decimal.Decimal),
		PathsEnumerated: len(paths),
	}

	for _, p := range paths {
		w, err := word(p.Accounts, k)
		if err != nil {
			return nil, err
		}
		hits, err := automaton.EvaluateAll(w)
		if err != nil {
			return nil, err
		}
		best := make(map[nfa.MeasureID]nfa.StateID)
		for final := range hits {
			info, _ := automaton.FinalInfo(final)
			if cur, seen := best[info.Measure]; !seen || final < cur {
				best[info.Measure] = final
			}
		}
		if len(best) == 0 {
			res.PathsUnclassified++
			continue
		}

		for measure, final := range best {
			if res.ByMeasure[measure] == nil {
				res.ByMeasure[measure] = make(map[nfa.StateID]decimal.Decimal)
			}
			res.ByMeasure[measure][final] = res.ByMeasure[measure][final].Add(p.Weight)
		}
		res.PathsClassified++
	}

	return res, nil
}
