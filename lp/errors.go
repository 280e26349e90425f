package lp

import "fmt"

// ErrEmptyMeasure is returned when a measure's final-state set is empty:
// there is nothing to build a coefficient sum from.
var ErrEmptyMeasure = fmt.Errorf("lp: measure has no final states")

// ErrNegativeAmount mirrors dag.ErrNonPositiveAmount at the LP boundary:
// flow-conservation cannot be built against a non-positive transaction
// amount.
var ErrNegativeAmount = fmt.Errorf("lp: transaction amount must be positive")

// ErrUnknownFinalState is returned when a measure names a final state
// the supplied automaton never registered (mirrors
// pipeline.ErrUnknownMeasure, one layer down).
var ErrUnknownFinalState = fmt.Errorf("lp: measure references an unregistered final state")
