package casestream

import (
	"errors"
	"io"
	"math"
)

// Grouper partitions an ordered case stream into contiguous runs of cases
// sharing the same values for a set of split variables. Each group is
// buffered into its own Store so procedures can make multiple passes over it.
//
// The input must already be sorted by the split variables; a value change
// starts a new group, and a later recurrence of an earlier key starts a
// fresh group as well.
type Grouper struct {
	r       Reader
	splits  []Variable
	pending Case
	done    bool
}

// NewGrouper creates a grouper over r. With no split variables the whole
// stream forms a single group.
func NewGrouper(r Reader, splits []Variable) *Grouper {
	return &Grouper{r: r, splits: splits}
}

// Next returns the next group's reader and its split key values, or io.EOF
// when the stream is exhausted.
func (g *Grouper) Next() (Reader, []float64, error) {
	if g.done {
		return nil, nil, io.EOF
	}

	first := g.pending
	g.pending = nil
	if first == nil {
		c, err := g.r.Read()
		if errors.Is(err, io.EOF) {
			g.done = true
			return nil, nil, io.EOF
		}
		if err != nil {
			return nil, nil, err
		}
		first = c
	}

	key := make([]float64, len(g.splits))
	for i, v := range g.splits {
		key[i] = first.Value(v)
	}

	buf := NewStore(len(first))
	if err := buf.Append(first); err != nil {
		return nil, nil, err
	}

	for {
		c, err := g.r.Read()
		if errors.Is(err, io.EOF) {
			g.done = true
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if !g.sameKey(c, key) {
			g.pending = append(Case(nil), c...)
			break
		}
		if err := buf.Append(c); err != nil {
			return nil, nil, err
		}
	}

	return buf.Reader(), key, nil
}

// sameKey compares split values, treating NaN as equal to NaN so that
// system-missing split keys form their own group.
func (g *Grouper) sameKey(c Case, key []float64) bool {
	for i, v := range g.splits {
		x := c.Value(v)
		if math.IsNaN(x) && math.IsNaN(key[i]) {
			continue
		}
		if x != key[i] {
			return false
		}
	}
	return true
}
