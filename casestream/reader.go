package casestream

// Reader is a sequential forward cursor over a finite sequence of cases.
//
// Read returns io.EOF after the last case. Clone returns an independent
// cursor positioned where the receiver currently is; it does not rewind to
// the start of the underlying sequence. Implementations need not be safe for
// concurrent use, but clones never mutate shared data, so concurrent clones
// reading disjoint cursors are fine.
type Reader interface {
	Read() (Case, error)
	Clone() Reader
	Close() error
}
