package cluster

import "errors"

var (
	// ErrInvalidClusters is returned when the number of clusters is not positive.
	ErrInvalidClusters = errors.New("number of clusters must be positive")

	// ErrInvalidMaxIter is returned when the iteration limit is not positive.
	ErrInvalidMaxIter = errors.New("maximum iterations must be positive")

	// ErrInvalidConverge is returned when the convergence criterion is not positive.
	ErrInvalidConverge = errors.New("convergence criterion must be positive")

	// ErrNoVariables is returned when no analysis variables are configured.
	ErrNoVariables = errors.New("at least one analysis variable is required")
)
