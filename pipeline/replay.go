package pipeline

import (
	"fmt"

	"github.com/norkamer/icgs/dag"
	"github.com/norkamer/icgs/nfa"
	"github.com/norkamer/icgs/taxonomy"
)

// Replay reconstructs a Pipeline's DAG and taxonomy history from a
// sequence of previously committed LogEntry records, in order. Every
// account a log entry names is registered on first sight; each entry's
// mapping delta is applied as a taxonomy update and immediately marked
// committed (replay only ever sees transactions that already committed),
// and its edge is appended to the DAG. automaton must already be frozen
// with the same patterns the original run used — Replay does not
// reconstruct classifier state, only ledger state.
func Replay(entries []LogEntry, automaton *nfa.NFA, allocator taxonomy.Allocator, setName string) (*Pipeline, error) {
	d := dag.NewDAG()
	hist := taxonomy.NewHistory(allocator, setName)
	seen := make(map[dag.AccountID]bool)

	ensureAccount := func(id dag.AccountID) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		return d.AddAccount(id)
	}

	var lastTx int64
	for _, entry := range entries {
		if err := ensureAccount(entry.Source); err != nil {
			return nil, fmt.Errorf("pipeline: replay account %q: %w", entry.Source, err)
		}
		if err := ensureAccount(entry.Target); err != nil {
			return nil, fmt.Errorf("pipeline: replay account %q: %w", entry.Target, err)
		}

		mappings := make(map[taxonomy.AccountID]*rune, len(entry.MappingsDelta))
		for acct, ch := range entry.MappingsDelta {
			r := ch
			mappings[taxonomy.AccountID(acct)] = &r
		}
		if _, err := hist.Update(mappings, entry.TransactionNumber); err != nil {
			return nil, fmt.Errorf("pipeline: replay taxonomy update at tx %d: %w", entry.TransactionNumber, err)
		}
		if err := hist.MarkCommitted(entry.TransactionNumber); err != nil {
			return nil, fmt.Errorf("pipeline: replay mark committed at tx %d: %w", entry.TransactionNumber, err)
		}
		if _, err := d.CommitEdge(entry.Source, entry.Target, entry.Amount); err != nil {
			return nil, fmt.Errorf("pipeline: replay commit edge at tx %d: %w", entry.TransactionNumber, err)
		}
		lastTx = entry.TransactionNumber
	}

	p := New(d, hist, automaton)
	p.nextTxNumber = lastTx + 1
	p.log = append([]LogEntry(nil), entries...)
	return p, nil
}
