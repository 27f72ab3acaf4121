// Package distance provides the distance kernels used by the clustering
// engine. Cluster analysis works exclusively on squared Euclidean distance;
// Euclidean is exposed for reporting (membership distance output).
package distance

import "math"

// SquaredL2 calculates the squared L2 (Euclidean) distance between two
// vectors. Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// L2 calculates the Euclidean distance between two vectors.
func L2(a, b []float64) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Func is a function type for distance calculation.
type Func func(a, b []float64) float64
