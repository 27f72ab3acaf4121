package dataset

import (
	"context"
	"math"
	"testing"

	"github.com/statkit/statkit/blobstore"
	"github.com/statkit/statkit/casestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStore(t *testing.T, width, rows int) *casestream.Store {
	t.Helper()
	store := casestream.NewStore(width)
	for i := 0; i < rows; i++ {
		c := make(casestream.Case, width)
		for j := 0; j < width; j++ {
			c[j] = float64(i*width + j)
		}
		require.NoError(t, store.Append(c))
	}
	return store
}

func TestRoundTrip(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(compression.String(), func(t *testing.T) {
			ctx := context.Background()
			blobs := blobstore.NewMemoryStore()

			src := buildStore(t, 3, 100)
			schema := casestream.Schema{
				Width: 3,
				Vars: []casestream.Variable{
					{Name: "x", Index: 0},
					{Name: "y", Index: 1, Missing: []float64{-9, -8}},
					{Name: "wt", Index: 2},
				},
			}
			schema.Weight = &schema.Vars[2]

			rows, err := Write(ctx, blobs, "data.skd", schema, src.Reader(), WithCompression(compression))
			require.NoError(t, err)
			assert.Equal(t, int64(100), rows)

			ds, err := Open(ctx, blobs, "data.skd")
			require.NoError(t, err)

			assert.Equal(t, compression, ds.Compression)
			assert.Equal(t, 100, ds.Len())
			assert.Equal(t, 3, ds.Schema.Width)
			require.Len(t, ds.Schema.Vars, 3)
			assert.Equal(t, "y", ds.Schema.Vars[1].Name)
			assert.Equal(t, []float64{-9, -8}, ds.Schema.Vars[1].Missing)
			require.NotNil(t, ds.Schema.Weight)
			assert.Equal(t, "wt", ds.Schema.Weight.Name)
			assert.Equal(t, 2, ds.Schema.Weight.Index)

			for i := 0; i < 100; i++ {
				assert.Equal(t, src.Case(i), ds.Cases().Case(i))
			}
		})
	}
}

func TestRoundTripSystemMissing(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()

	src := casestream.NewStore(2)
	require.NoError(t, src.Append(casestream.Case{1, math.NaN()}))
	require.NoError(t, src.Append(casestream.Case{math.NaN(), 2}))

	schema := casestream.Schema{
		Width: 2,
		Vars: []casestream.Variable{
			{Name: "a", Index: 0},
			{Name: "b", Index: 1},
		},
	}

	_, err := Write(ctx, blobs, "missing.skd", schema, src.Reader())
	require.NoError(t, err)

	ds, err := Open(ctx, blobs, "missing.skd")
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, 1.0, ds.Cases().Case(0)[0])
	assert.True(t, math.IsNaN(ds.Cases().Case(0)[1]))
	assert.True(t, math.IsNaN(ds.Cases().Case(1)[0]))
	assert.Equal(t, 2.0, ds.Cases().Case(1)[1])
}

func TestRoundTripMultipleBlocks(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()

	src := buildStore(t, 2, 50)
	schema := casestream.Schema{
		Width: 2,
		Vars: []casestream.Variable{
			{Name: "a", Index: 0},
			{Name: "b", Index: 1},
		},
	}

	// Force many small blocks.
	rows, err := Write(ctx, blobs, "blocks.skd", schema, src.Reader(),
		WithCompression(CompressionLZ4), WithBlockRows(7))
	require.NoError(t, err)
	assert.Equal(t, int64(50), rows)

	ds, err := Open(ctx, blobs, "blocks.skd")
	require.NoError(t, err)
	require.Equal(t, 50, ds.Len())
	for i := 0; i < 50; i++ {
		assert.Equal(t, src.Case(i), ds.Cases().Case(i))
	}
}

func TestRoundTripEmpty(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()

	src := casestream.NewStore(1)
	schema := casestream.Schema{
		Width: 1,
		Vars:  []casestream.Variable{{Name: "a", Index: 0}},
	}

	rows, err := Write(ctx, blobs, "empty.skd", schema, src.Reader())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	ds, err := Open(ctx, blobs, "empty.skd")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestOpenLocalStore(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewLocalStore(t.TempDir())

	src := buildStore(t, 2, 20)
	schema := casestream.Schema{
		Width: 2,
		Vars: []casestream.Variable{
			{Name: "a", Index: 0},
			{Name: "b", Index: 1},
		},
	}

	_, err := Write(ctx, blobs, "local.skd", schema, src.Reader())
	require.NoError(t, err)

	// Local blobs are mappable, exercising the zero-copy path.
	ds, err := Open(ctx, blobs, "local.skd")
	require.NoError(t, err)
	require.Equal(t, 20, ds.Len())
	assert.Equal(t, src.Case(19), ds.Cases().Case(19))
}

func TestDecodeErrors(t *testing.T) {
	t.Run("BadMagic", func(t *testing.T) {
		_, err := Decode([]byte("not a dataset blob at all......"))
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Decode([]byte{0x31})
		assert.ErrorIs(t, err, ErrInvalidMagic)
	})
}
