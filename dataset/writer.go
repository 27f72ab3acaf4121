package dataset

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/statkit/statkit/blobstore"
	"github.com/statkit/statkit/casestream"
)

const defaultBlockRows = 4096

type writeOptions struct {
	compression Compression
	blockRows   int
}

// WriteOption configures Write.
type WriteOption func(*writeOptions)

// WithCompression selects the row block compression. Default: zstd.
func WithCompression(c Compression) WriteOption {
	return func(o *writeOptions) {
		o.compression = c
	}
}

// WithBlockRows sets the number of cases per row block. Default: 4096.
func WithBlockRows(n int) WriteOption {
	return func(o *writeOptions) {
		if n > 0 {
			o.blockRows = n
		}
	}
}

// Write streams all cases from r into a dataset blob named name.
// It returns the number of cases written.
func Write(ctx context.Context, store blobstore.BlobStore, name string, schema casestream.Schema, r casestream.Reader, optFns ...WriteOption) (int64, error) {
	opts := writeOptions{
		compression: CompressionZSTD,
		blockRows:   defaultBlockRows,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if schema.Width <= 0 {
		return 0, errors.New("schema width must be positive")
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, err
	}

	rows, err := writeBody(ctx, w, schema, r, opts)
	if err != nil {
		_ = w.Close()
		return 0, err
	}

	if err := w.Close(); err != nil {
		return 0, err
	}
	return rows, nil
}

func writeBody(ctx context.Context, w io.Writer, schema casestream.Schema, r casestream.Reader, opts writeOptions) (int64, error) {
	if err := writeHeader(w, schema, opts.compression); err != nil {
		return 0, err
	}

	rowSize := schema.Width * 8
	block := make([]byte, 0, opts.blockRows*rowSize)
	var rows int64

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		framed, err := compressBlock(block, opts.compression)
		if err != nil {
			return err
		}
		if _, err := w.Write(framed); err != nil {
			return err
		}
		block = block[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		c, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, err
		}
		if len(c) != schema.Width {
			return rows, fmt.Errorf("case width %d does not match schema width %d", len(c), schema.Width)
		}

		for _, x := range c {
			block = binary.LittleEndian.AppendUint64(block, math.Float64bits(x))
		}
		rows++

		if len(block) >= opts.blockRows*rowSize {
			if err := flush(); err != nil {
				return rows, err
			}
		}
	}

	return rows, flush()
}

func writeHeader(w io.Writer, schema casestream.Schema, compression Compression) error {
	weightIndex := int32(-1)
	if schema.Weight != nil {
		weightIndex = int32(schema.Weight.Index)
	}

	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(header[0:], MagicNumber)
	binary.LittleEndian.PutUint32(header[4:], FormatVersion)
	header[8] = byte(compression)
	binary.LittleEndian.PutUint32(header[12:], uint32(schema.Width))
	binary.LittleEndian.PutUint32(header[16:], uint32(weightIndex))

	if _, err := w.Write(header); err != nil {
		return err
	}

	return writeDictionary(w, schema)
}

func writeDictionary(w io.Writer, schema casestream.Schema) error {
	var buf []byte
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(schema.Vars)))

	for _, v := range schema.Vars {
		if len(v.Name) > math.MaxUint16 {
			return fmt.Errorf("variable name too long: %q", v.Name)
		}
		if len(v.Missing) > math.MaxUint8 {
			return fmt.Errorf("too many missing values for %q", v.Name)
		}
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(v.Name)))
		buf = append(buf, v.Name...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v.Index))
		buf = append(buf, byte(len(v.Missing)))
		for _, m := range v.Missing {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(m))
		}
	}

	_, err := w.Write(buf)
	return err
}
