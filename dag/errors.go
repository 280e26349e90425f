package dag

import "errors"

// ErrEnumerationBudgetExceeded indicates the reverse path enumeration
// would exceed max_paths_per_transaction or max_path_length. Per
// spec.md §4.5/§7 this is a rejection, never an approximation: the
// caller sees no partial result.
var ErrEnumerationBudgetExceeded = errors.New("dag: enumeration budget exceeded")
