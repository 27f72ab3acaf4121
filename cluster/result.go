package cluster

import (
	"errors"
	"io"
	"math"

	"github.com/statkit/statkit/casestream"
	"github.com/statkit/statkit/internal/matrix"
)

// Result is the reportable outcome of a clustering run. Centers and counts
// are in report order: ascending first-variable center value.
type Result struct {
	// Centers holds the final cluster centers, one row per cluster.
	Centers *matrix.Dense
	// InitialCenters holds the snapshot taken before refinement.
	InitialCenters *matrix.Dense
	// Counts holds the weighted number of cases per cluster from the last
	// verification pass.
	Counts []float64
	// N is the number of complete cases classified in the last pass.
	N int
	// Iterations is the number of refinement iterations executed.
	Iterations int
	// Converged reports whether the run stopped by convergence rather than
	// by the iteration cap.
	Converged bool

	raw     *matrix.Dense
	inverse []int
	vars    []casestream.Variable
	policy  casestream.ExcludePolicy
}

// Membership is the classification of one case.
type Membership struct {
	// Cluster is the report-order cluster index.
	Cluster int
	// Distance is the Euclidean distance from the case to its cluster
	// center.
	Distance float64
}

// Result extracts the outcome of a completed run. The returned matrices are
// copies; mutating them does not affect the run state.
func (km *Kmeans) Result() *Result {
	k := km.cfg.Clusters

	centers := matrix.NewDense(k, len(km.vars))
	initial := matrix.NewDense(k, len(km.vars))
	counts := make([]float64, k)
	inverse := make([]int, k)

	for pos, raw := range km.order {
		centers.SetRow(pos, km.centers.Row(raw))
		initial.SetRow(pos, km.initial.Row(raw))
		counts[pos] = km.counts[raw]
		inverse[raw] = pos
	}

	return &Result{
		Centers:        centers,
		InitialCenters: initial,
		Counts:         counts,
		N:              km.n,
		Iterations:     km.iterations,
		Converged:      km.converged,

		raw:     km.centers.Clone(),
		inverse: inverse,
		vars:    km.vars,
		policy:  km.policy,
	}
}

// Classify returns the report-order cluster of c and its Euclidean distance
// from that cluster's center. Classification is idempotent: the same case
// always yields the same cluster for a fixed result.
func (r *Result) Classify(c casestream.Case) (int, float64) {
	g, d, _, _ := nearestTwo(r.raw, c, r.vars, r.policy)
	return r.inverse[g], math.Sqrt(d)
}

// Memberships classifies every case of cr in stream order.
func (r *Result) Memberships(cr casestream.Reader) ([]Membership, error) {
	cs := cr.Clone()
	defer func() { _ = cs.Close() }()

	var out []Membership
	for {
		c, err := cs.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		cluster, dist := r.Classify(c)
		out = append(out, Membership{Cluster: cluster, Distance: dist})
	}
}
