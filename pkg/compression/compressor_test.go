package compression

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var streamAlgorithms = []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}

func testPayload() []byte {
	return []byte(strings.Repeat("order_id,customer_id,quantity,unit_price\n1,42,3,9.99\n", 512))
}

func TestCompressor_StreamRoundTrip(t *testing.T) {
	data := testPayload()

	for _, algo := range streamAlgorithms {
		for _, level := range []Level{Fastest, Best} {
			t.Run(string(algo)+"/"+level.String(), func(t *testing.T) {
				comp, err := NewCompressor(&Config{Algorithm: algo, Level: level})
				require.NoError(t, err)
				assert.Equal(t, algo, comp.Algorithm())
				assert.Equal(t, level, comp.Level())

				var compressed bytes.Buffer
				require.NoError(t, comp.CompressStream(&compressed, bytes.NewReader(data)))
				if algo != None {
					assert.Less(t, compressed.Len(), len(data))
				}

				var out bytes.Buffer
				require.NoError(t, comp.DecompressStream(&out, &compressed))
				assert.Equal(t, data, out.Bytes())
			})
		}
	}
}

func TestCompressor_ConcurrentStreams(t *testing.T) {
	data := testPayload()
	comp, err := NewCompressor(&Config{Algorithm: Zstd, Level: Default})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var compressed, out bytes.Buffer
			if err := comp.CompressStream(&compressed, bytes.NewReader(data)); err != nil {
				errs <- err
				return
			}
			if err := comp.DecompressStream(&out, &compressed); err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(data, out.Bytes()) {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestNewCompressor_Defaults(t *testing.T) {
	comp, err := NewCompressor(nil)
	require.NoError(t, err)
	assert.Equal(t, Zstd, comp.Algorithm())

	_, err = NewCompressor(&Config{Algorithm: "rar"})
	assert.Error(t, err)

	// brotli names a parquet codec only
	_, err = NewCompressor(&Config{Algorithm: Brotli})
	assert.Error(t, err)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"snappy", Snappy, false},
		{" ZSTD ", Zstd, false},
		{"", None, false},
		{"brotli", Brotli, false},
		{"rar", "", true},
	}

	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "Fastest", Fastest.String())
	assert.Equal(t, "Better", Better.String())
	assert.Equal(t, "Unknown", Level(3).String())
}
