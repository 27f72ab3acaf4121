package cluster

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/statkit/statkit/casestream"
	"github.com/statkit/statkit/distance"
	"github.com/statkit/statkit/internal/matrix"
)

// Kmeans holds the state of one clustering run. A run covers one case group;
// create a fresh Kmeans per group.
type Kmeans struct {
	cfg    Config
	vars   []casestream.Variable
	weight casestream.WeightFunc
	policy casestream.ExcludePolicy
	logger *slog.Logger

	// centers holds the centers used for assignment; updated accumulates the
	// centers being built from the current pass. They are always distinct
	// allocations, synchronized by copy so snapshots keep value semantics.
	centers *matrix.Dense
	updated *matrix.Dense
	initial *matrix.Dense

	counts    []float64
	n         int
	threshold float64
	order     []int

	iterations int
	converged  bool
}

// New creates a clustering run for the given configuration and analysis
// variables.
func New(cfg Config, vars []casestream.Variable, optFns ...Option) (*Kmeans, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return nil, ErrNoVariables
	}

	o := options{
		weight: casestream.UnitWeight,
		policy: casestream.ExcludeAny,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	k := cfg.Clusters
	return &Kmeans{
		cfg:     cfg,
		vars:    vars,
		weight:  o.weight,
		policy:  o.policy,
		logger:  o.logger,
		centers: matrix.NewDense(k, len(vars)),
		updated: matrix.NewDense(k, len(vars)),
		counts:  make([]float64, k),
	}, nil
}

// Run clusters the cases of r. The reader itself is not consumed: every pass
// works on a clone. Run always terminates, by convergence or by the
// iteration cap; ctx is only checked between iterations.
func (km *Kmeans) Run(ctx context.Context, r casestream.Reader) error {
	km.initialCenters(r)
	km.updated.CopyFrom(km.centers)

	for iter := 0; iter < km.cfg.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for g := range km.counts {
			km.counts[g] = 0
		}
		km.n = 0

		if !km.cfg.NoUpdate {
			km.assignmentPass(r)
		}

		// The accumulating rows still contain the previous center values, so
		// each center participates as one pseudo-observation. Dividing by
		// count+1 keeps empty clusters at their previous center and damps
		// early oscillation.
		for g := 0; g < km.cfg.Clusters; g++ {
			for j := range km.vars {
				km.updated.Set(g, j, km.updated.At(g, j)/(km.counts[g]+1))
			}
		}

		km.centers.CopyFrom(km.updated)

		d := km.verificationPass(r)
		km.iterations = iter + 1

		km.logger.Debug("refinement iteration",
			"iteration", km.iterations,
			"movement", d,
			"threshold", km.threshold,
			"cases", km.n,
		)

		// An exact fixed point converges regardless of the threshold; the
		// explicit check covers the single-cluster zero threshold.
		if d == 0 || d < km.threshold {
			km.converged = true
			break
		}
		if km.cfg.NoUpdate {
			break
		}
	}

	km.orderClusters()
	return nil
}

// initialCenters makes one streaming pass to select k well-separated initial
// centers, fixes the convergence threshold, and snapshots the result.
func (km *Kmeans) initialCenters(r casestream.Reader) {
	cs := r.Clone()
	defer func() { _ = cs.Close() }()

	k := km.cfg.Clusters
	buf := make([]float64, len(km.vars))
	nc := 0

	for {
		c, err := cs.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		if !casestream.Complete(c, km.vars, km.policy) {
			continue
		}
		km.gather(c, buf)

		// The first k complete cases seed the centers in arrival order.
		if nc < k {
			km.centers.SetRow(nc, buf)
			nc++
			continue
		}
		if km.cfg.NoInitial {
			break
		}

		m, mn, mm := km.centers.MinPairDist()
		mq, delta, mp, _ := nearestTwo(km.centers, c, km.vars, km.policy)

		if delta > m {
			// The case is farther from its nearest center than the two
			// closest centers are from each other: replace whichever of the
			// close pair is nearer to the case, forcing spread.
			which := mn
			if distance.SquaredL2(km.centers.Row(mn), buf) > distance.SquaredL2(km.centers.Row(mm), buf) {
				which = mm
			}
			km.centers.SetRow(which, buf)
		} else if mp >= 0 && distance.SquaredL2(km.centers.Row(mp), buf) > km.minDistFrom(mq) {
			// The case is farther from its second-nearest center than that
			// center's nearest neighbor: it refines a crowded region.
			km.centers.SetRow(mq, buf)
		}
	}

	// Fixed once; never recomputed. With a single cluster there is no center
	// pair, so only an exact fixed point or the iteration cap stops the run.
	minDist, _, _ := km.centers.MinPairDist()
	if math.IsInf(minDist, 1) {
		km.threshold = 0
	} else {
		km.threshold = km.cfg.Converge * minDist
	}

	km.initial = km.centers.Clone()

	km.logger.Debug("initial centers selected",
		"clusters", k,
		"seeded", nc,
		"threshold", km.threshold,
	)
}

// assignmentPass assigns every complete case to its nearest current center
// and accumulates weighted sums and counts into the updated matrix.
func (km *Kmeans) assignmentPass(r casestream.Reader) {
	cs := r.Clone()
	defer func() { _ = cs.Close() }()

	buf := make([]float64, len(km.vars))
	for {
		c, err := cs.Read()
		if err != nil {
			break
		}
		if !casestream.Complete(c, km.vars, km.policy) {
			continue
		}
		km.gather(c, buf)

		group := 0
		mindist := math.Inf(1)
		for g := 0; g < km.cfg.Clusters; g++ {
			if d := distance.SquaredL2(km.centers.Row(g), buf); d < mindist {
				mindist = d
				group = g
			}
		}

		w := km.weight(c)
		km.counts[group] += w
		km.n++
		for j := range buf {
			km.updated.Add(group, j, buf[j]*w)
		}
	}
}

// verificationPass independently reassigns every complete case to the
// just-updated centers and recomputes pure weighted means. It returns the
// convergence statistic: the largest squared per-cluster movement between
// the verification means and the current centers.
func (km *Kmeans) verificationPass(r casestream.Reader) float64 {
	for g := range km.counts {
		km.counts[g] = 0
	}
	km.n = 0
	km.updated.Zero()

	cs := r.Clone()
	defer func() { _ = cs.Close() }()

	buf := make([]float64, len(km.vars))
	for {
		c, err := cs.Read()
		if err != nil {
			break
		}
		if !casestream.Complete(c, km.vars, km.policy) {
			continue
		}
		km.gather(c, buf)

		group, _, _, _ := nearestTwo(km.centers, c, km.vars, km.policy)

		w := km.weight(c)
		km.counts[group] += w
		km.n++
		for j := range buf {
			km.updated.Add(group, j, buf[j]*w)
		}
	}

	for g := 0; g < km.cfg.Clusters; g++ {
		if km.counts[g] > 0 {
			for j := range km.vars {
				km.updated.Set(g, j, km.updated.At(g, j)/km.counts[g])
			}
		} else {
			// A cluster that captured no cases keeps its current center
			// rather than degenerating to NaN.
			km.updated.SetRow(g, km.centers.Row(g))
		}
	}

	return matrix.MaxRowSquaredDiff(km.updated, km.centers)
}

// orderClusters computes the report-order permutation: clusters sorted by
// ascending first-variable center value, ties kept in raw index order.
func (km *Kmeans) orderClusters() {
	col := km.centers.Col(0)
	order := make([]int, km.cfg.Clusters)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return col[order[a]] < col[order[b]]
	})
	km.order = order
}

// gather copies the analysis-variable values of c into buf. Callers must
// have checked completeness; a missing value here would poison the distance
// accumulation silently, so the pre-filter is load-bearing.
func (km *Kmeans) gather(c casestream.Case, buf []float64) {
	for j, v := range km.vars {
		buf[j] = c.Value(v)
	}
}

// minDistFrom returns the minimum squared distance between center `which`
// and any other center.
func (km *Kmeans) minDistFrom(which int) float64 {
	mindist := math.Inf(1)
	for i := 0; i < km.cfg.Clusters; i++ {
		if i == which {
			continue
		}
		if d := distance.SquaredL2(km.centers.Row(i), km.centers.Row(which)); d < mindist {
			mindist = d
		}
	}
	return mindist
}

// nearestTwo returns the nearest and second-nearest centers to c with their
// squared distances. Missing feature values are skipped pairwise, so cases
// that survive a pairwise missing policy can still be classified. Ties go to
// the lowest center index.
func nearestTwo(centers *matrix.Dense, c casestream.Case, vars []casestream.Variable, policy casestream.ExcludePolicy) (g0 int, d0 float64, g1 int, d1 float64) {
	g0, g1 = -1, -1
	d0, d1 = math.Inf(1), math.Inf(1)

	for i := 0; i < centers.Rows(); i++ {
		d := 0.0
		for j, v := range vars {
			x := c.Value(v)
			if v.IsMissing(x, policy) {
				continue
			}
			diff := centers.At(i, j) - x
			d += diff * diff
		}
		if d < d0 {
			d1, g1 = d0, g0
			d0, g0 = d, i
		} else if d < d1 {
			d1, g1 = d, i
		}
	}
	return g0, d0, g1, d1
}
