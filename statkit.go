package statkit

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/statkit/statkit/casestream"
	"github.com/statkit/statkit/cluster"
)

// GroupResult is the clustering outcome of one split-file group.
type GroupResult struct {
	// Key holds the group's split-variable values, empty when no split
	// variables are configured.
	Key []float64
	// Result is the group's clustering result.
	Result *cluster.Result
}

// QuickCluster runs k-means cluster analysis over the cases of r, once per
// split-file group. The reader is consumed; multi-pass work inside each
// group happens on buffered group stores.
//
// Under the default listwise missing handling, cases with a missing value in
// any analysis variable are removed before grouping. With
// WithPairwiseMissing they stay in the stream and each pass skips them
// individually.
func QuickCluster(ctx context.Context, r casestream.Reader, cfg cluster.Config, vars []casestream.Variable, optFns ...Option) ([]GroupResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return nil, cluster.ErrNoVariables
	}

	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		weight:  casestream.UnitWeight,
		policy:  casestream.ExcludeAny,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	logger := o.logger.WithClusters(cfg.Clusters).WithVariables(len(vars))

	stream := r
	if !o.pairwise {
		stream = casestream.FilterComplete(stream, vars, o.policy)
	}

	grouper := casestream.NewGrouper(stream, o.splits)

	var results []GroupResult
	for groupIdx := 0; ; groupIdx++ {
		gr, key, err := grouper.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		km, err := cluster.New(cfg, vars,
			cluster.WithWeight(o.weight),
			cluster.WithExcludePolicy(o.policy),
			cluster.WithLogger(logger.WithSplitKey(key).Logger),
		)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		if err := km.Run(ctx, gr); err != nil {
			return nil, err
		}
		res := km.Result()

		o.metrics.RecordClusterRun(res.Iterations, res.N, res.Converged, time.Since(start))
		logger.LogClusterRun(ctx, groupIdx, res.Iterations, res.N, res.Converged)

		results = append(results, GroupResult{Key: key, Result: res})
	}

	return results, nil
}
