package pipeline

import (
	"github.com/norkamer/icgs/dag"
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/simplex"
)

// State names the terminal state a candidate transaction reaches, per
// spec.md §4.9's state machine: Proposed → (Enumerating → Classifying →
// LPBuilt → Solving) → {Committed | Rejected}. Intermediate states are
// not observable outside a Submit call — Outcome only ever reports where
// the pipeline stopped advancing, per the "never see a partial
// transition" atomicity guarantee.
type State int

const (
	Committed State = iota
	Rejected
)

func (s State) String() string {
	if s == Committed {
		return "Committed"
	}
	return "Rejected"
}

// CandidateTransaction is spec.md §3's candidate transaction: a proposed,
// not-yet-committed edge, plus any account-to-character bindings the
// taxonomy needs updated alongside it. TransactionNumber may be left zero
// to let the pipeline assign the next one; Mappings may be nil if no new
// accounts or bindings are introduced.
type CandidateTransaction struct {
	// TxID is an external, human/log-facing transaction identifier
	// (distinct from TransactionNumber, which is the taxonomy's strictly
	// monotonic ordinal). Left empty, Submit mints one with uuid.NewString.
	TxID              string
	TransactionNumber int64
	Source            dag.AccountID
	Target            dag.AccountID
	Amount            decimal.Decimal
	// Mappings requests new or changed account→character bindings; a nil
	// rune value asks the taxonomy's configured allocator to pick one.
	Mappings map[dag.AccountID]*rune
	// Measures names this transaction's own constraint set, per spec.md
	// §6's submit(tx) signature carrying measures alongside source,
	// target and amount. Left nil, Submit falls back to the Pipeline's
	// own Measures field (a transaction stream that always validates
	// against the same fixed measure set rarely needs to repeat it).
	Measures []lp.Measure
	// Optimize requests Phase 2 optimization; false runs feasibility mode
	// only (LP objective all-zero).
	Optimize bool
	// Diagnostic requests Outcome.Trace be populated with a step-by-step
	// record of the pipeline's progress through
	// Proposed → Enumerating → Classifying → LPBuilt → Solving, as far as
	// the run got. The terminal Committed/Rejected state is reported in
	// Outcome.State, not as a trace entry. Left false, Trace is nil and
	// Submit skips the bookkeeping.
	Diagnostic bool
}

// StepTrace is one stage of a diagnostic Outcome.Trace: which state the
// pipeline reached and what happened there. This is a plain return
// value, never a callback or an observer registration — the pipeline
// has no suspension points (spec.md §5) for a callback to run at.
type StepTrace struct {
	Stage   string
	Message string
}

// Outcome is the diagnostic trace spec.md §4.9/§7 asks every Submit call
// to produce, win or lose: the terminal state and reason, the pipeline's
// step counters, and — when Simplex actually ran — its stability and
// validation story.
type Outcome struct {
	TxID              string
	TransactionNumber int64
	State             State
	Reason            string

	PathsEnumerated   int
	PathsClassified   int
	PathsUnclassified int
	LPConstraints     int
	SimplexIterations int

	Stability   simplex.Stability
	WarmStarted bool
	CrossChecked bool
	Objective   decimal.Decimal

	Edge *dag.Edge

	// Trace is populated only when the candidate requested Diagnostic;
	// otherwise nil.
	Trace []StepTrace
}

// LogEntry is one replayable record of a committed transaction — exactly
// what Replay needs to reconstruct taxonomy and DAG state from scratch,
// per spec.md §6's external replay interface.
type LogEntry struct {
	TxID              string
	TransactionNumber int64
	MappingsDelta     map[dag.AccountID]rune
	Source            dag.AccountID
	Target            dag.AccountID
	Amount            decimal.Decimal
}
