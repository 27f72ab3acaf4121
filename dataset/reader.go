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

// Dataset is a fully loaded dataset: its dictionary and its cases.
type Dataset struct {
	Schema      casestream.Schema
	Compression Compression

	cases *casestream.Store
}

// Len returns the number of cases.
func (d *Dataset) Len() int {
	return d.cases.Len()
}

// Cases returns the in-memory case store.
func (d *Dataset) Cases() *casestream.Store {
	return d.cases
}

// Reader returns a fresh reader over all cases.
func (d *Dataset) Reader() casestream.Reader {
	return d.cases.Reader()
}

// Open reads the dataset blob named name from store and decodes it.
func Open(ctx context.Context, store blobstore.BlobStore, name string) (*Dataset, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	raw, err := readAll(ctx, blob)
	if err != nil {
		return nil, err
	}

	return Decode(raw)
}

// readAll fetches the blob contents, zero-copy when the blob is mappable.
func readAll(ctx context.Context, blob blobstore.Blob) ([]byte, error) {
	if m, ok := blob.(blobstore.Mappable); ok {
		return m.Bytes()
	}

	buf := make([]byte, blob.Size())
	n, err := blob.ReadAt(ctx, buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return nil, err
	}
	return buf, nil
}

// Decode parses a dataset blob held in memory.
func Decode(raw []byte) (*Dataset, error) {
	if len(raw) < headerSize {
		return nil, fmt.Errorf("%w: blob too small", ErrInvalidMagic)
	}

	if binary.LittleEndian.Uint32(raw[0:]) != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if binary.LittleEndian.Uint32(raw[4:]) != FormatVersion {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidVersion, binary.LittleEndian.Uint32(raw[4:]))
	}

	compression := Compression(raw[8])
	if compression > CompressionZSTD {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, compression)
	}

	width := int(binary.LittleEndian.Uint32(raw[12:]))
	weightIndex := int(int32(binary.LittleEndian.Uint32(raw[16:])))
	if width <= 0 {
		return nil, fmt.Errorf("invalid case width %d", width)
	}

	schema, offset, err := readDictionary(raw, headerSize, width, weightIndex)
	if err != nil {
		return nil, err
	}

	cases, err := readBlocks(raw[offset:], width, compression)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Schema:      schema,
		Compression: compression,
		cases:       cases,
	}, nil
}

func readDictionary(raw []byte, offset, width, weightIndex int) (casestream.Schema, int, error) {
	schema := casestream.Schema{Width: width}

	if len(raw) < offset+4 {
		return schema, 0, fmt.Errorf("%w: truncated dictionary", ErrCorruptBlock)
	}
	count := int(binary.LittleEndian.Uint32(raw[offset:]))
	offset += 4

	for i := 0; i < count; i++ {
		if len(raw) < offset+2 {
			return schema, 0, fmt.Errorf("%w: truncated dictionary", ErrCorruptBlock)
		}
		nameLen := int(binary.LittleEndian.Uint16(raw[offset:]))
		offset += 2

		if len(raw) < offset+nameLen+5 {
			return schema, 0, fmt.Errorf("%w: truncated dictionary", ErrCorruptBlock)
		}
		name := string(raw[offset : offset+nameLen])
		offset += nameLen

		index := int(binary.LittleEndian.Uint32(raw[offset:]))
		offset += 4

		missingCount := int(raw[offset])
		offset++

		if len(raw) < offset+missingCount*8 {
			return schema, 0, fmt.Errorf("%w: truncated dictionary", ErrCorruptBlock)
		}
		var missing []float64
		for j := 0; j < missingCount; j++ {
			missing = append(missing, math.Float64frombits(binary.LittleEndian.Uint64(raw[offset:])))
			offset += 8
		}

		schema.Vars = append(schema.Vars, casestream.Variable{
			Name:    name,
			Index:   index,
			Missing: missing,
		})
	}

	if weightIndex >= 0 {
		for i := range schema.Vars {
			if schema.Vars[i].Index == weightIndex {
				schema.Weight = &schema.Vars[i]
				break
			}
		}
		if schema.Weight == nil {
			return schema, 0, fmt.Errorf("weight variable index %d not in dictionary", weightIndex)
		}
	}

	return schema, offset, nil
}

func readBlocks(raw []byte, width int, compression Compression) (*casestream.Store, error) {
	store := casestream.NewStore(width)
	rowSize := width * 8

	for len(raw) > 0 {
		block, consumed, err := decompressBlock(raw, compression)
		if err != nil {
			return nil, err
		}
		raw = raw[consumed:]

		if len(block)%rowSize != 0 {
			return nil, fmt.Errorf("%w: block size %d not a multiple of row size %d", ErrCorruptBlock, len(block), rowSize)
		}

		for len(block) > 0 {
			c := make(casestream.Case, width)
			for i := 0; i < width; i++ {
				c[i] = math.Float64frombits(binary.LittleEndian.Uint64(block[i*8:]))
			}
			if err := store.Append(c); err != nil {
				return nil, err
			}
			block = block[rowSize:]
		}
	}

	return store, nil
}
