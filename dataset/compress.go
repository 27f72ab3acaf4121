package dataset

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compressBlock frames data as a row block. If compression does not pay
// off (ratio above 0.9) the block is stored raw with compressedSize 0.
func compressBlock(data []byte, compression Compression) ([]byte, error) {
	var compressed []byte

	switch compression {
	case CompressionNone:
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			compressed = buf[:n]
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, compression)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0)
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

// decompressBlock reads one framed block from buf and returns the row
// data plus the number of input bytes consumed.
func decompressBlock(buf []byte, compression Compression) (data []byte, consumed int, err error) {
	if len(buf) < blockHeaderSize {
		return nil, 0, fmt.Errorf("%w: truncated header", ErrCorruptBlock)
	}

	uncompressedSize := binary.LittleEndian.Uint32(buf[0:])
	compressedSize := binary.LittleEndian.Uint32(buf[4:])

	if compressedSize == 0 {
		end := blockHeaderSize + int(uncompressedSize)
		if len(buf) < end {
			return nil, 0, fmt.Errorf("%w: raw block extends beyond data", ErrCorruptBlock)
		}
		return buf[blockHeaderSize:end], end, nil
	}

	end := blockHeaderSize + int(compressedSize)
	if len(buf) < end {
		return nil, 0, fmt.Errorf("%w: compressed block extends beyond data", ErrCorruptBlock)
	}
	payload := buf[blockHeaderSize:end]
	result := make([]byte, uncompressedSize)

	switch compression {
	case CompressionNone:
		return nil, 0, fmt.Errorf("%w: compressed block in uncompressed dataset", ErrCorruptBlock)
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, 0, fmt.Errorf("%w: size mismatch", ErrCorruptBlock)
		}
	case CompressionZSTD:
		dec := getZstdDecoder()
		decoded, err := dec.DecodeAll(payload, result[:0])
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrCorruptBlock, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, 0, fmt.Errorf("%w: size mismatch", ErrCorruptBlock)
		}
		result = decoded
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidCompression, compression)
	}

	return result, end, nil
}
