// Package matrix provides a small dense row-major float64 matrix used for
// cluster center bookkeeping.
package matrix

import "math"

// Dense is a row-major matrix of float64 values.
// The zero value is not usable; create instances with NewDense.
type Dense struct {
	rows int
	cols int
	data []float64
}

// NewDense creates a rows x cols matrix initialized to zero.
func NewDense(rows, cols int) *Dense {
	return &Dense{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// At returns the value at row i, column j.
func (m *Dense) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Set stores v at row i, column j.
func (m *Dense) Set(i, j int, v float64) {
	m.data[i*m.cols+j] = v
}

// Add adds v to the value at row i, column j.
func (m *Dense) Add(i, j int, v float64) {
	m.data[i*m.cols+j] += v
}

// Row returns row i as a slice aliasing the matrix storage.
func (m *Dense) Row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// SetRow copies vals into row i.
func (m *Dense) SetRow(i int, vals []float64) {
	copy(m.Row(i), vals)
}

// Col returns a copy of column j.
func (m *Dense) Col(j int) []float64 {
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// CopyFrom copies the contents of src into m.
// Both matrices must have identical dimensions.
func (m *Dense) CopyFrom(src *Dense) {
	copy(m.data, src.data)
}

// Clone returns a deep copy of m.
func (m *Dense) Clone() *Dense {
	c := NewDense(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// Zero resets every cell to zero.
func (m *Dense) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// MinPairDist returns the minimum squared Euclidean distance over all
// unordered pairs of rows, together with the two row indices achieving it.
// With fewer than two rows there is no pair and the result is +Inf, -1, -1.
func (m *Dense) MinPairDist() (float64, int, int) {
	mindist := math.Inf(1)
	mn, mm := -1, -1
	for i := 0; i < m.rows-1; i++ {
		for j := i + 1; j < m.rows; j++ {
			d := 0.0
			for k := 0; k < m.cols; k++ {
				diff := m.At(j, k) - m.At(i, k)
				d += diff * diff
			}
			if d < mindist {
				mindist = d
				mn, mm = i, j
			}
		}
	}
	return mindist, mn, mm
}

// MaxRowSquaredDiff returns the maximum over rows of the summed squared
// per-cell difference between a and b. A single row that moved far dominates
// the result regardless of the other rows; this is the convergence statistic,
// not a matrix norm.
func MaxRowSquaredDiff(a, b *Dense) float64 {
	max := math.Inf(-1)
	for i := 0; i < a.rows; i++ {
		d := 0.0
		for j := 0; j < a.cols; j++ {
			diff := a.At(i, j) - b.At(i, j)
			d += diff * diff
		}
		if d > max {
			max = d
		}
	}
	return max
}
