package casestream

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
)

// Store is a buffered in-memory case collection. It backs the multi-pass
// procedures: readers over a store are cheap reset cursors, so cloning and
// re-reading costs nothing beyond the cursor itself.
//
// Values are stored row-major in a single flat slice.
type Store struct {
	width int
	vals  []float64
	n     int

	// Missing-cell bitmaps, built lazily per variable and policy and
	// invalidated on append.
	masks map[maskKey]*roaring.Bitmap
}

type maskKey struct {
	col    int
	policy ExcludePolicy
}

// NewStore creates an empty store for cases of the given width.
func NewStore(width int) *Store {
	return &Store{width: width}
}

// FromRows creates a store holding the given rows. All rows must share the
// same width.
func FromRows(rows [][]float64) (*Store, error) {
	if len(rows) == 0 {
		return NewStore(0), nil
	}
	s := NewStore(len(rows[0]))
	for _, r := range rows {
		if err := s.Append(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Width returns the case width.
func (s *Store) Width() int { return s.width }

// Len returns the number of buffered cases.
func (s *Store) Len() int { return s.n }

// Append copies c into the store.
func (s *Store) Append(c Case) error {
	if len(c) != s.width {
		return fmt.Errorf("casestream: case width %d does not match store width %d", len(c), s.width)
	}
	s.vals = append(s.vals, c...)
	s.n++
	s.masks = nil
	return nil
}

// Case returns the i-th case as a view aliasing store memory. Callers must
// not mutate it.
func (s *Store) Case(i int) Case {
	return Case(s.vals[i*s.width : (i+1)*s.width])
}

// Reader returns a cursor positioned at the first case.
func (s *Store) Reader() Reader {
	return &storeReader{s: s}
}

// MissingMask returns the bitmap of row indices whose value for v is missing
// under the given policy. The bitmap is cached; callers must not mutate it.
func (s *Store) MissingMask(v Variable, policy ExcludePolicy) *roaring.Bitmap {
	key := maskKey{col: v.Index, policy: policy}
	if bm, ok := s.masks[key]; ok {
		return bm
	}
	bm := roaring.New()
	for i := 0; i < s.n; i++ {
		if v.IsMissing(s.vals[i*s.width+v.Index], policy) {
			bm.Add(uint32(i))
		}
	}
	if s.masks == nil {
		s.masks = make(map[maskKey]*roaring.Bitmap)
	}
	s.masks[key] = bm
	return bm
}

// CompleteCases returns the bitmap of rows with no missing value among vars
// under the given policy. The caller owns the returned bitmap.
func (s *Store) CompleteCases(vars []Variable, policy ExcludePolicy) *roaring.Bitmap {
	missing := roaring.New()
	for _, v := range vars {
		missing.Or(s.MissingMask(v, policy))
	}
	all := roaring.New()
	all.AddRange(0, uint64(s.n))
	all.AndNot(missing)
	return all
}

type storeReader struct {
	s   *Store
	pos int
}

func (r *storeReader) Read() (Case, error) {
	if r.pos >= r.s.n {
		return nil, io.EOF
	}
	c := r.s.Case(r.pos)
	r.pos++
	return c, nil
}

func (r *storeReader) Clone() Reader {
	return &storeReader{s: r.s, pos: r.pos}
}

func (r *storeReader) Close() error { return nil }
