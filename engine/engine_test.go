package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/norkamer/icgs/decimal"
	"github.com/norkamer/icgs/engine"
)

func charPtr(r rune) *rune { return &r }

// TestIdentityFeasibility builds spec.md §4's "Identity feasibility"
// seed scenario end-to-end through the facade: accounts a:'A', b:'B',
// a single source-measure pattern "AB" weight 1 with acceptable bound
// 100, a 50-unit a→b transfer. Expected: Committed, objective 0.
func TestIdentityFeasibility(t *testing.T) {
	require := require.New(t)

	e := engine.New()
	require.NoError(e.AddAccount("a"))
	require.NoError(e.AddAccount("b"))

	final, err := e.AddPattern("src", "AB", decimal.NewFromInt(1))
	require.NoError(err)
	e.FreezeClassifier()

	e.SetMeasures([]engine.Measure{
		{ID: "src", Kind: engine.SourceMeasure, FinalStates: []engine.StateID{final}, Bound: decimal.NewFromInt(100)},
	})

	outcome, err := e.Submit(engine.CandidateTransaction{
		Source: "a",
		Target: "b",
		Amount: decimal.NewFromInt(50),
		Mappings: map[engine.AccountID]*rune{
			"a": charPtr('A'),
			"b": charPtr('B'),
		},
	})
	require.NoError(err)
	require.Equal("Committed", outcome.State.String())
	require.True(outcome.Objective.IsZero())
	require.Equal(1, outcome.PathsEnumerated)
	require.Equal(1, outcome.PathsClassified)

	ch, ok := e.LookupCharacter("a", 1)
	require.True(ok)
	require.Equal('A', ch)
}

func TestSubmitRejectsWhenSourceBoundExceeded(t *testing.T) {
	require := require.New(t)

	e := engine.New()
	require.NoError(e.AddAccount("a"))
	require.NoError(e.AddAccount("b"))

	final, err := e.AddPattern("src", "AB", decimal.NewFromInt(1))
	require.NoError(err)
	e.FreezeClassifier()
	e.SetMeasures([]engine.Measure{
		{ID: "src", Kind: engine.SourceMeasure, FinalStates: []engine.StateID{final}, Bound: decimal.NewFromInt(10)},
	})

	outcome, err := e.Submit(engine.CandidateTransaction{
		Source: "a",
		Target: "b",
		Amount: decimal.NewFromInt(50),
		Mappings: map[engine.AccountID]*rune{
			"a": charPtr('A'),
			"b": charPtr('B'),
		},
	})
	require.NoError(err)
	require.Equal("Rejected", outcome.State.String())
}

func TestOptionsApplyToPipelineBehavior(t *testing.T) {
	require := require.New(t)

	e := engine.New(
		engine.WithMaxPathsPerTransaction(1),
		engine.WithWarmStartPolicy(engine.WarmStartNever),
		engine.WithCrossValidateOnInstability(false),
	)
	require.NoError(e.AddAccount("a"))
	require.NoError(e.AddAccount("b"))
	final, err := e.AddPattern("src", "AB", decimal.NewFromInt(1))
	require.NoError(err)
	e.FreezeClassifier()
	e.SetMeasures([]engine.Measure{
		{ID: "src", Kind: engine.SourceMeasure, FinalStates: []engine.StateID{final}, Bound: decimal.NewFromInt(100)},
	})

	outcome, err := e.Submit(engine.CandidateTransaction{
		Source: "a",
		Target: "b",
		Amount: decimal.NewFromInt(1),
		Mappings: map[engine.AccountID]*rune{
			"a": charPtr('A'),
			"b": charPtr('B'),
		},
	})
	require.NoError(err)
	require.Equal("Committed", outcome.State.String())
	require.False(outcome.CrossChecked)
}

func TestDiagnosticTraceRecordsEveryStage(t *testing.T) {
	require := require.New(t)

	e := engine.New()
	require.NoError(e.AddAccount("a"))
	require.NoError(e.AddAccount("b"))
	final, err := e.AddPattern("src", "AB", decimal.NewFromInt(1))
	require.NoError(err)
	e.FreezeClassifier()
	e.SetMeasures([]engine.Measure{
		{ID: "src", Kind: engine.SourceMeasure, FinalStates: []engine.StateID{final}, Bound: decimal.NewFromInt(100)},
	})

	outcome, err := e.Submit(engine.CandidateTransaction{
		Source: "a",
		Target: "b",
		Amount: decimal.NewFromInt(5),
		Mappings: map[engine.AccountID]*rune{
			"a": charPtr('A'),
			"b": charPtr('B'),
		},
		Diagnostic: true,
	})
	require.NoError(err)
	require.NotEmpty(outcome.Trace)
	require.Equal("Proposed", outcome.Trace[0].Stage)

	var stages []string
	for _, step := range outcome.Trace {
		if len(stages) == 0 || stages[len(stages)-1] != step.Stage {
			stages = append(stages, step.Stage)
		}
	}
	require.Equal([]string{"Proposed", "Enumerating", "Classifying", "LPBuilt", "Solving"}, stages)
}

