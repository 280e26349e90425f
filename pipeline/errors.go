package pipeline

import "errors"

// ErrClassifierNotFrozen indicates Submit was called before the
// automaton backing this pipeline was frozen (spec.md §4.9 step 2
// requires a frozen classifier before any candidate can run).
var ErrClassifierNotFrozen = errors.New("pipeline: classifier is not frozen")

// ErrUnknownMeasure indicates a measure configured on the pipeline names
// final states the automaton never registered.
var ErrUnknownMeasure = errors.New("pipeline: measure references an unregistered final state")
