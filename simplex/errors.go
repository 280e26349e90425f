package simplex

import "errors"

// ErrValidationMismatch is returned when cross-validation's independent
// solve disagrees with the primary solve's status or objective.
var ErrValidationMismatch = errors.New("simplex: cross-validation mismatch")

// ErrEmptyProblem is returned when the LP has no variables to pivot on.
var ErrEmptyProblem = errors.New("simplex: problem has no variables")
