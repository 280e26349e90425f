// Package pipeline implements C9: the per-transaction state machine that
// drives every other component (C4 taxonomy, C5 dag, C6 classify, C7 lp,
// C8 simplex) through one candidate transaction, with the commit/rollback
// atomicity spec.md §4.9 requires.
//
// Submit is single-writer by construction — Pipeline holds one mutex and
// every call takes it for the whole state-machine run, mirroring the
// teacher's core.Graph coarse-lock discipline (spec.md §5: "a single
// coarse write lock around commit suffices").
package pipeline

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/norkamer/icgs/classify"
	"github.com/norkamer/icgs/dag"
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/nfa"
	"github.com/norkamer/icgs/simplex"
	"github.com/norkamer/icgs/taxonomy"
)

// Pipeline wires one engine instance's components together. Construct
// with New; Measures and Objective may be changed between Submit calls
// (e.g. as the caller's measure catalog grows) but never concurrently
// with a Submit in flight — the mutex only protects Submit's own
// multi-step run, not these fields.
type Pipeline struct {
	mu sync.Mutex

	DAG       *dag.DAG
	Taxonomy  *taxonomy.History
	Automaton *nfa.NFA
	Measures  []lp.Measure
	Objective lp.ObjectiveFunc

	MaxPathsPerTransaction int
	MaxPathLength          int
	SimplexOptions         simplex.Options

	nextTxNumber int64
	warmBasis    simplex.Basis
	log          []LogEntry
}

// New constructs a Pipeline over already-initialized components. The
// caller owns account/character-set setup and NFA pattern registration
// before the first Submit; Automaton must be frozen before any Submit
// runs (ErrClassifierNotFrozen otherwise).
func New(d *dag.DAG, hist *taxonomy.History, automaton *nfa.NFA) *Pipeline {
	return &Pipeline{
		DAG:                    d,
		Taxonomy:               hist,
		Automaton:              automaton,
		MaxPathsPerTransaction: 10000,
		MaxPathLength:          100,
		SimplexOptions: simplex.Options{
			Epsilon:         decimal.MustParse("0.000000000000000001"),
			MaxIterations:   simplex.DefaultMaxIterations,
			WarmStartPolicy: simplex.WarmStartWhenStable,
		},
		nextTxNumber: 1,
	}
}

// Submit advances one candidate transaction through the full pipeline.
// It never returns a partial result: the DAG gains the candidate edge
// and the taxonomy snapshot becomes permanent, or neither happens.
func (p *Pipeline) Submit(candidate CandidateTransaction) (*Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Automaton.Frozen() {
		return nil, ErrClassifierNotFrozen
	}

	txNumber := candidate.TransactionNumber
	if txNumber == 0 {
		txNumber = p.nextTxNumber
	}
	txID := candidate.TxID
	if txID == "" {
		txID = uuid.NewString()
	}

	mappings := make(map[taxonomy.AccountID]*rune, len(candidate.Mappings))
	for acct, ch := range candidate.Mappings {
		mappings[taxonomy.AccountID(acct)] = ch
	}
	resolved, err := p.Taxonomy.Update(mappings, txNumber)
	if err != nil {
		tr := &tracer{on: candidate.Diagnostic}
		tr.record("Proposed", "taxonomy update failed: %v", err)
		return p.reject(txID, txNumber, fmt.Sprintf("taxonomy update: %v", err), tr), nil
	}

	outcome, committed := p.runValidation(candidate, txID, txNumber, resolved)
	if !committed {
		if rbErr := p.Taxonomy.Rollback(txNumber); rbErr != nil {
			return nil, fmt.Errorf("pipeline: rollback after rejection: %w", rbErr)
		}
		return outcome, nil
	}

	edge, err := p.DAG.CommitEdge(candidate.Source, candidate.Target, candidate.Amount)
	if err != nil {
		if rbErr := p.Taxonomy.Rollback(txNumber); rbErr != nil {
			return nil, fmt.Errorf("pipeline: rollback after commit failure: %w", rbErr)
		}
		outcome.State = Rejected
		outcome.Reason = fmt.Sprintf("dag commit: %v", err)
		return outcome, nil
	}
	if err := p.Taxonomy.MarkCommitted(txNumber); err != nil {
		return nil, fmt.Errorf("pipeline: mark committed: %w", err)
	}

	outcome.Edge = edge
	delta := make(map[dag.AccountID]rune, len(candidate.Mappings))
	for acct := range candidate.Mappings {
		if ch, ok := resolved[taxonomy.AccountID(acct)]; ok {
			delta[acct] = ch
		}
	}
	p.log = append(p.log, LogEntry{
		TxID:              txID,
		TransactionNumber: txNumber,
		MappingsDelta:     delta,
		Source:            candidate.Source,
		Target:            candidate.Target,
		Amount:            candidate.Amount,
	})
	p.nextTxNumber = txNumber + 1
	return outcome, nil
}

// tracer accumulates StepTrace entries when a candidate asked for them;
// a zero-value tracer silently discards record calls, so callers never
// need to branch on candidate.Diagnostic themselves.
type tracer struct {
	on      bool
	entries []StepTrace
}

func (t *tracer) record(stage, format string, args ...any) {
	if !t.on {
		return
	}
	t.entries = append(t.entries, StepTrace{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// runValidation runs enumerate → classify → LP build → solve, returning
// the Outcome and whether the candidate should commit. It never mutates
// DAG or taxonomy state — Submit alone decides and performs the commit.
func (p *Pipeline) runValidation(candidate CandidateTransaction, txID string, txNumber int64, resolved map[taxonomy.AccountID]rune) (*Outcome, bool) {
	tr := &tracer{on: candidate.Diagnostic}
	tr.record("Proposed", "tx %d source=%s target=%s amount=%s", txNumber, candidate.Source, candidate.Target, candidate.Amount)

	candidateEdge := dag.CandidateEdge{Source: candidate.Source, Target: candidate.Target, Amount: candidate.Amount}
	tr.record("Enumerating", "walking reverse paths, max %d paths, max length %d", p.MaxPathsPerTransaction, p.MaxPathLength)
	pathWeights, err := p.DAG.EnumeratePaths(candidateEdge, p.MaxPathsPerTransaction, p.MaxPathLength)
	if err != nil {
		tr.record("Enumerating", "failed: %v", err)
		return p.reject(txID, txNumber, fmt.Sprintf("enumeration: %v", err), tr), false
	}
	tr.record("Enumerating", "%d candidate paths found", len(pathWeights))

	paths := make([]classify.Path, len(pathWeights))
	for i, pw := range pathWeights {
		accounts := make([]string, len(pw.Path))
		for j, acct := range pw.Path {
			accounts[j] = string(acct)
		}
		paths[i] = classify.Path{Accounts: accounts, Weight: pw.Weight}
	}

	wordFunc := func(accounts []string, k int64) (string, error) {
		path := make([]taxonomy.AccountID, len(accounts))
		for i, a := range accounts {
			path[i] = taxonomy.AccountID(a)
		}
		return p.Taxonomy.PathToWord(path, k)
	}

	tr.record("Classifying", "running %d paths through the frozen automaton", len(paths))
	classResult, err := classify.Classify(paths, txNumber, wordFunc, p.Automaton)
	if err != nil {
		tr.record("Classifying", "failed: %v", err)
		return p.reject(txID, txNumber, fmt.Sprintf("classification: %v", err), tr), false
	}
	tr.record("Classifying", "classified=%d unclassified=%d", classResult.PathsClassified, classResult.PathsUnclassified)

	measures := candidate.Measures
	if measures == nil {
		measures = p.Measures
	}
	if err := p.validateMeasures(measures); err != nil {
		tr.record("LPBuilt", "failed: %v", err)
		return p.rejectWithCounts(txID, txNumber, fmt.Sprintf("lp build: %v", err), classResult, 0, tr), false
	}
	var objective lp.ObjectiveFunc
	if candidate.Optimize {
		objective = p.Objective
	}
	problem, err := lp.Build(measures, classResult, candidate.Amount, p.Automaton, objective)
	if err != nil {
		tr.record("LPBuilt", "failed: %v", err)
		return p.rejectWithCounts(txID, txNumber, fmt.Sprintf("lp build: %v", err), classResult, 0, tr), false
	}
	tr.record("LPBuilt", "%d variables, %d constraints", len(problem.Variables), len(problem.Constraints))

	tr.record("Solving", "invoking simplex, warm start basis len=%d", len(p.warmBasis))
	sol, err := simplex.Solve(problem, p.SimplexOptions, p.warmBasis)
	if err != nil {
		tr.record("Solving", "failed: %v", err)
		return p.rejectWithCounts(txID, txNumber, fmt.Sprintf("simplex: %v", err), classResult, len(problem.Constraints), tr), false
	}
	tr.record("Solving", "status=%s iterations=%d stability=%s warm_started=%v", sol.Status, sol.Iterations, sol.Stability, sol.WarmStarted)

	outcome := &Outcome{
		TxID:              txID,
		TransactionNumber: txNumber,
		PathsEnumerated:   classResult.PathsEnumerated,
		PathsClassified:   classResult.PathsClassified,
		PathsUnclassified: classResult.PathsUnclassified,
		LPConstraints:     len(problem.Constraints),
		SimplexIterations: sol.Iterations,
		Stability:         sol.Stability,
		WarmStarted:       sol.WarmStarted,
		CrossChecked:      sol.CrossChecked,
		Objective:         sol.Objective,
		Trace:             tr.entries,
	}

	if sol.Status != simplex.Feasible {
		outcome.State = Rejected
		outcome.Reason = sol.Status.String()
		return outcome, false
	}

	outcome.State = Committed
	p.warmBasis = sol.Basis
	return outcome, true
}

// validateMeasures checks every final state a measure names is one the
// automaton actually registered, catching a stale measure catalog (e.g.
// built against a pattern set that was later rebuilt under new final
// IDs) before it reaches the LP builder as a silently-empty constraint.
func (p *Pipeline) validateMeasures(measures []lp.Measure) error {
	for _, m := range measures {
		for _, final := range m.FinalStates {
			if _, ok := p.Automaton.FinalInfo(final); !ok {
				return fmt.Errorf("%w: measure %s references final state %v", ErrUnknownMeasure, m.ID, final)
			}
		}
	}
	return nil
}

func (p *Pipeline) reject(txID string, txNumber int64, reason string, tr *tracer) *Outcome {
	return &Outcome{TxID: txID, TransactionNumber: txNumber, State: Rejected, Reason: reason, Trace: tr.entries}
}

func (p *Pipeline) rejectWithCounts(txID string, txNumber int64, reason string, classResult *classify.Result, lpConstraints int, tr *tracer) *Outcome {
	o := p.reject(txID, txNumber, reason, tr)
	if classResult != nil {
		o.PathsEnumerated = classResult.PathsEnumerated
		o.PathsClassified = classResult.PathsClassified
		o.PathsUnclassified = classResult.PathsUnclassified
	}
	o.LPConstraints = lpConstraints
	return o
}

// Log returns the replayable history of committed transactions so far.
func (p *Pipeline) Log() []LogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]LogEntry(nil), p.log...)
}
