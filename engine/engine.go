package engine

import (
	"fmt"
	"sync"

	"github.com/norkamer/icgs/charset"
	"github.com/norkamer/icgs/dag"
	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/lp"
	"github.com/norkamer/icgs/nfa"
	"github.com/norkamer/icgs/pipeline"
	"github.com/norkamer/icgs/simplex"
	"github.com/norkamer/icgs/taxonomy"
)

// Re-exported types so a caller only ever imports engine, not C1–C9
// directly — the same role the teacher's core package plays for
// Vertex/Edge/GraphOption.
type (
	AccountID            = dag.AccountID
	CandidateTransaction = pipeline.CandidateTransaction
	Outcome              = pipeline.Outcome
	LogEntry             = pipeline.LogEntry
	StepTrace            = pipeline.StepTrace
	Measure              = lp.Measure
	MeasureKind          = lp.Kind
	ObjectiveFunc        = lp.ObjectiveFunc
	WarmStartPolicy      = simplex.WarmStartPolicy
	StateID              = nfa.StateID
	MeasureID            = nfa.MeasureID
)

const (
	SourceMeasure    = lp.SourceMeasure
	TargetMeasure    = lp.TargetMeasure
	SecondaryMeasure = lp.SecondaryMeasure
)

const (
	WarmStartWhenStable = simplex.WarmStartWhenStable
	WarmStartAlways     = simplex.WarmStartAlways
	WarmStartNever      = simplex.WarmStartNever
)

// Engine is the public front door over the whole validation stack:
// account registry, character sets, taxonomy history, the pattern
// classifier, the DAG and its path enumerator, and the LP/Simplex
// pipeline that decides every submit. The zero value is not usable;
// construct with New.
//
// mu is the one coarse write lock §5/D.4 call for: Submit takes it for
// an entire candidate's run (on top of Pipeline's own mutex — harmless
// double-locking, since nothing else can reach the inner Pipeline
// directly), matching the teacher's core.Graph discipline of one lock
// per logically-single-writer structure. Read-only operations
// (LookupCharacter, Evaluate) take the read side so they never block
// behind each other.
type Engine struct {
	mu sync.RWMutex

	cfg config

	DAG       *dag.DAG
	Taxonomy  *taxonomy.History
	Automaton *nfa.NFA
	CharSets  *charset.Manager

	pipeline *pipeline.Pipeline
}

// New constructs an Engine with every C1–C9 component wired together,
// applying opts left-to-right over the default config exactly like the
// teacher's NewGraph(opts ...GraphOption).
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	decimal.SetScale(cfg.decimalScale)

	charSets := charset.NewManager()
	d := dag.NewDAG()
	automaton := nfa.New()

	var allocator taxonomy.Allocator
	if cfg.characterAutoAllocate {
		allocator = charSets
	}
	hist := taxonomy.NewHistory(allocator, cfg.characterSetName)

	p := pipeline.New(d, hist, automaton)
	p.MaxPathsPerTransaction = cfg.maxPathsPerTransaction
	p.MaxPathLength = cfg.maxPathLength
	p.SimplexOptions = simplex.Options{
		Epsilon:             cfg.epsilon,
		MaxIterations:       cfg.maxSimplexIterations,
		WarmStartPolicy:     cfg.warmStartPolicy,
		SkipCrossValidation: !cfg.crossValidateOnInstability,
	}

	return &Engine{
		cfg:       cfg,
		DAG:       d,
		Taxonomy:  hist,
		Automaton: automaton,
		CharSets:  charSets,
		pipeline:  p,
	}
}

// AddAccount registers a new account, per §6's add_account(id).
func (e *Engine) AddAccount(id AccountID) error {
	return e.DAG.AddAccount(id)
}

// DefineCharacterSet registers a named partition of the character pool,
// per §6's define_character_set(name, chars).
func (e *Engine) DefineCharacterSet(name string, chars []rune) error {
	return e.CharSets.Define(name, chars)
}

// AddPattern compiles and registers a weighted pattern under measure,
// per §6's add_pattern(measure_id, pattern, weight).
func (e *Engine) AddPattern(measure nfa.MeasureID, patternText string, weight decimal.Decimal) (nfa.StateID, error) {
	return e.Automaton.AddPattern(measure, patternText, weight)
}

// FreezeClassifier locks the automaton, per §6's freeze_classifier().
// Only a frozen classifier may be consulted by Submit.
func (e *Engine) FreezeClassifier() {
	e.Automaton.Freeze()
}

// SetMeasures registers the default constraint set every Submit call
// uses when its own CandidateTransaction.Measures is left nil.
func (e *Engine) SetMeasures(measures []Measure) {
	e.pipeline.Measures = measures
}

// SetObjective registers the price function Phase 2 optimization uses
// when a candidate requests Optimize.
func (e *Engine) SetObjective(objective ObjectiveFunc) {
	e.pipeline.Objective = objective
}

// Submit advances one candidate transaction through enumeration,
// classification, LP construction and Simplex solving, committing or
// rejecting atomically, per §6's submit(tx).
func (e *Engine) Submit(candidate CandidateTransaction) (*Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pipeline.Submit(candidate)
}

// LookupCharacter returns the character bound to account at or before
// transaction number k, per §6's lookup_character(account, k).
func (e *Engine) LookupCharacter(account AccountID, k int64) (rune, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.Taxonomy.CharacterFor(taxonomy.AccountID(account), k)
}

// Evaluate runs word through the frozen classifier, returning the
// smallest-id final state it lands on, if any (§4.3's primary
// evaluator). Fails with nfa.ErrNotFrozen if FreezeClassifier was never
// called.
func (e *Engine) Evaluate(word string) (nfa.StateID, bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.Automaton.Evaluate(word)
}

// Log returns the replayable history of every transaction this engine
// has committed so far.
func (e *Engine) Log() []LogEntry {
	return e.pipeline.Log()
}

// Replay reconstructs a fresh Engine's DAG and taxonomy from a
// previously recorded log, per §6's persisted-state replay. automaton
// must already carry the same frozen patterns the original run used —
// Replay only rebuilds ledger state, never classifier state.
func Replay(entries []LogEntry, automaton *nfa.NFA, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	decimal.SetScale(cfg.decimalScale)

	charSets := charset.NewManager()
	var allocator taxonomy.Allocator
	if cfg.characterAutoAllocate {
		allocator = charSets
	}

	p, err := pipeline.Replay(entries, automaton, allocator, cfg.characterSetName)
	if err != nil {
		return nil, fmt.Errorf("engine: replay: %w", err)
	}
	p.MaxPathsPerTransaction = cfg.maxPathsPerTransaction
	p.MaxPathLength = cfg.maxPathLength
	p.SimplexOptions = simplex.Options{
		Epsilon:             cfg.epsilon,
		MaxIterations:       cfg.maxSimplexIterations,
		WarmStartPolicy:     cfg.warmStartPolicy,
		SkipCrossValidation: !cfg.crossValidateOnInstability,
	}

	return &Engine{
		cfg:       cfg,
		DAG:       p.DAG,
		Taxonomy:  p.Taxonomy,
		Automaton: automaton,
		CharSets:  charSets,
		pipeline:  p,
	}, nil
}
