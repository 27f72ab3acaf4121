package cluster

import (
	"log/slog"

	"github.com/statkit/statkit/casestream"
)

// dblEpsilon is the default convergence criterion, the spacing of doubles
// at 1.0.
const dblEpsilon = 2.220446049250313e-16

// Config holds the parameters of one clustering run. It is immutable for the
// lifetime of the run.
type Config struct {
	// Clusters is the number of target clusters k.
	Clusters int

	// MaxIter bounds the number of refinement iterations.
	MaxIter int

	// Converge is the convergence criterion epsilon. The run stops once the
	// largest squared center movement drops below
	// epsilon * (minimum pairwise squared distance among initial centers).
	Converge float64

	// NoInitial skips the center-spreading heuristic: the first k complete
	// cases become the initial centers verbatim.
	NoInitial bool

	// NoUpdate skips refinement entirely: cases are classified against the
	// initial centers.
	NoUpdate bool
}

// DefaultConfig returns the procedure defaults: 2 clusters, 10 iterations,
// machine-epsilon convergence.
func DefaultConfig() Config {
	return Config{
		Clusters: 2,
		MaxIter:  10,
		Converge: dblEpsilon,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Clusters <= 0 {
		return ErrInvalidClusters
	}
	if c.MaxIter <= 0 {
		return ErrInvalidMaxIter
	}
	if c.Converge <= 0 {
		return ErrInvalidConverge
	}
	return nil
}

type options struct {
	weight casestream.WeightFunc
	policy casestream.ExcludePolicy
	logger *slog.Logger
}

// Option configures a clustering run.
type Option func(*options)

// WithWeight sets the case weight accessor. The default weights every
// case 1.0.
func WithWeight(w casestream.WeightFunc) Option {
	return func(o *options) {
		if w == nil {
			w = casestream.UnitWeight
		}
		o.weight = w
	}
}

// WithExcludePolicy sets the missing-value exclusion policy. The default is
// casestream.ExcludeAny.
func WithExcludePolicy(p casestream.ExcludePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithLogger sets a logger for iteration-level debug output. The default
// discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}
