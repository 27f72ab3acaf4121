package casestream

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r Reader) []Case {
	t.Helper()
	var out []Case
	for {
		c, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, append(Case(nil), c...))
	}
}

func TestVariableIsMissing(t *testing.T) {
	v := Variable{Name: "x", Index: 0, Missing: []float64{-9}}

	assert.True(t, v.IsMissing(math.NaN(), ExcludeAny))
	assert.True(t, v.IsMissing(math.NaN(), ExcludeSystem))
	assert.True(t, v.IsMissing(-9, ExcludeAny))
	assert.False(t, v.IsMissing(-9, ExcludeSystem))
	assert.False(t, v.IsMissing(3, ExcludeAny))
}

func TestVariableWeight(t *testing.T) {
	w := VariableWeight(Variable{Name: "w", Index: 1})

	assert.Equal(t, 2.5, w(Case{0, 2.5}))
	assert.Equal(t, 0.0, w(Case{0, -1}))
	assert.Equal(t, 0.0, w(Case{0, math.NaN()}))
	assert.Equal(t, 1.0, UnitWeight(Case{9, 9}))
}

func TestStoreReaderAndClone(t *testing.T) {
	s, err := FromRows([][]float64{{1}, {2}, {3}})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	r := s.Reader()
	c, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 1.0, c[0])

	// A clone starts at the clone point, not at the beginning.
	cl := r.Clone()
	c, err = cl.Read()
	require.NoError(t, err)
	assert.Equal(t, 2.0, c[0])

	// The original cursor is unaffected by reads on the clone.
	c, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 2.0, c[0])

	assert.Len(t, readAll(t, r), 1)
	assert.Len(t, readAll(t, cl), 1)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
	require.NoError(t, r.Close())
}

func TestStoreAppendWidthMismatch(t *testing.T) {
	s := NewStore(2)
	assert.Error(t, s.Append(Case{1}))
	assert.NoError(t, s.Append(Case{1, 2}))
}

func TestMissingMasks(t *testing.T) {
	x := Variable{Name: "x", Index: 0, Missing: []float64{-9}}
	y := Variable{Name: "y", Index: 1}

	s, err := FromRows([][]float64{
		{1, 1},
		{-9, 2},
		{math.NaN(), 3},
		{4, math.NaN()},
	})
	require.NoError(t, err)

	mx := s.MissingMask(x, ExcludeAny)
	assert.Equal(t, uint64(2), mx.GetCardinality())
	assert.True(t, mx.Contains(1))
	assert.True(t, mx.Contains(2))

	mxInc := s.MissingMask(x, ExcludeSystem)
	assert.Equal(t, uint64(1), mxInc.GetCardinality())
	assert.True(t, mxInc.Contains(2))

	complete := s.CompleteCases([]Variable{x, y}, ExcludeAny)
	assert.Equal(t, uint64(1), complete.GetCardinality())
	assert.True(t, complete.Contains(0))
}

func TestFilterComplete(t *testing.T) {
	x := Variable{Name: "x", Index: 0, Missing: []float64{-9}}

	s, err := FromRows([][]float64{{1}, {-9}, {math.NaN()}, {2}})
	require.NoError(t, err)

	f := FilterComplete(s.Reader(), []Variable{x}, ExcludeAny)
	got := readAll(t, f)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0][0])
	assert.Equal(t, 2.0, got[1][0])

	// Clones keep filtering.
	f = FilterComplete(s.Reader(), []Variable{x}, ExcludeAny)
	_, err = f.Read()
	require.NoError(t, err)
	assert.Len(t, readAll(t, f.Clone()), 1)
}

func TestGrouper(t *testing.T) {
	split := Variable{Name: "g", Index: 0}

	s, err := FromRows([][]float64{
		{1, 10},
		{1, 11},
		{2, 20},
		{math.NaN(), 30},
		{math.NaN(), 31},
	})
	require.NoError(t, err)

	g := NewGrouper(s.Reader(), []Variable{split})

	r1, key, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, key)
	assert.Len(t, readAll(t, r1), 2)

	r2, key, err := g.Next()
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, key)
	assert.Len(t, readAll(t, r2), 1)

	// NaN split keys group together.
	r3, key, err := g.Next()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(key[0]))
	assert.Len(t, readAll(t, r3), 2)

	_, _, err = g.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestGrouperNoSplits(t *testing.T) {
	s, err := FromRows([][]float64{{1}, {2}})
	require.NoError(t, err)

	g := NewGrouper(s.Reader(), nil)
	r, key, err := g.Next()
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Len(t, readAll(t, r), 2)

	_, _, err = g.Next()
	assert.ErrorIs(t, err, io.EOF)
}
