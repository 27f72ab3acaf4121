package dataset

import "errors"

const (
	// MagicNumber identifies dataset blobs (ASCII: "SKD1").
	MagicNumber = 0x534B4431
	// FormatVersion is the current blob format version.
	FormatVersion = 0x00010000

	// headerSize is the fixed portion before the variable dictionary:
	// magic(4) version(4) compression(1) pad(3) width(4) weightIndex(4).
	headerSize = 20

	// blockHeaderSize prefixes every row block:
	// uncompressedSize(4) compressedSize(4). compressedSize == 0 means
	// the block is stored raw.
	blockHeaderSize = 8
)

// Compression selects the row block compression algorithm.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses zstd compression (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidMagic is returned when a blob does not start with the
	// dataset magic number.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for unsupported format versions.
	ErrInvalidVersion = errors.New("unsupported format version")
	// ErrInvalidCompression is returned for unknown compression codes.
	ErrInvalidCompression = errors.New("unknown compression type")
	// ErrCorruptBlock is returned when a row block fails validation.
	ErrCorruptBlock = errors.New("corrupt row block")
)
