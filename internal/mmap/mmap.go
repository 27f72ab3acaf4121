// Package mmap provides read-only memory-mapped file access.
package mmap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned when an operation is attempted on a closed mapping.
	ErrClosed = errors.New("mapping is closed")

	// ErrEmptyFile is returned when attempting to map a zero-length file.
	ErrEmptyFile = errors.New("cannot map empty file")
)

// Mapping is a read-only memory mapping of a file. It is safe for
// concurrent reads; Close may be called once readers are done.
type Mapping struct {
	data   []byte
	size   int64
	closed atomic.Bool
}

// Open maps the file at path into memory for reading.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := fi.Size()
	if size == 0 {
		return nil, ErrEmptyFile
	}

	data, err := mapFile(f, size)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &Mapping{data: data, size: size}, nil
}

// Bytes returns the mapped contents. The slice is valid until Close.
func (m *Mapping) Bytes() ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	return m.data, nil
}

// Size returns the length of the mapping in bytes.
func (m *Mapping) Size() int64 {
	return m.size
}

// ReadAt implements io.ReaderAt over the mapped region.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	if off >= m.size {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the file. It is idempotent.
func (m *Mapping) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	data := m.data
	m.data = nil
	return unmapFile(data)
}
