package statkit

import (
	"github.com/statkit/statkit/casestream"
)

type options struct {
	logger   *Logger
	metrics  MetricsCollector
	weight   casestream.WeightFunc
	splits   []casestream.Variable
	policy   casestream.ExcludePolicy
	pairwise bool
}

// Option configures a procedure run.
type Option func(*options)

// WithLogger configures the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithWeight sets the case weight accessor, typically
// casestream.VariableWeight for a dictionary weight variable. The default
// weights every case 1.0.
func WithWeight(w casestream.WeightFunc) Option {
	return func(o *options) {
		if w == nil {
			w = casestream.UnitWeight
		}
		o.weight = w
	}
}

// WithSplits configures split-file variables. The input stream must be
// sorted by them; each contiguous run of equal split values is analyzed as
// an independent group.
func WithSplits(vars ...casestream.Variable) Option {
	return func(o *options) {
		o.splits = vars
	}
}

// WithExcludePolicy sets the missing-value exclusion policy. The default is
// casestream.ExcludeAny.
func WithExcludePolicy(p casestream.ExcludePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithPairwiseMissing disables listwise deletion: incomplete cases stay in
// the stream and are skipped per pass, and classification measures distance
// over the non-missing features only.
func WithPairwiseMissing() Option {
	return func(o *options) {
		o.pairwise = true
	}
}
