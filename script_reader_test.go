package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = "let a = 1100\nprint a ^ 1010\n"

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSniffCompression(t *testing.T) {
	assert.Equal(t, scriptCompressionGzip, sniffCompression([]byte{0x1f, 0x8b, 0x08, 0x00}))
	assert.Equal(t, scriptCompressionZstd, sniffCompression([]byte{0x28, 0xb5, 0x2f, 0xfd}))
	assert.Equal(t, scriptCompressionNone, sniffCompression([]byte("let ")))
	assert.Equal(t, scriptCompressionNone, sniffCompression(nil))
	assert.Equal(t, scriptCompressionNone, sniffCompression([]byte{0x28, 0xb5}))
}

func TestOpenScript(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"plain", []byte(sampleScript)},
		{"gzip", gzipBytes(t, []byte(sampleScript))},
		{"zstd", zstdBytes(t, []byte(sampleScript))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "script."+tt.name, tt.data)

			r, err := openScript(path)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, sampleScript, string(got))
		})
	}
}

func TestOpenScript_Short(t *testing.T) {
	for _, data := range []string{"", "#"} {
		path := writeTemp(t, "short", []byte(data))
		r, err := openScript(path)
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, data, string(got))
		require.NoError(t, r.Close())
	}
}

func TestOpenScript_Missing(t *testing.T) {
	_, err := openScript(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenScript_CorruptGzip(t *testing.T) {
	path := writeTemp(t, "bad.gz", []byte{0x1f, 0x8b, 0x00, 0x00})
	_, err := openScript(path)
	assert.Error(t, err)
}
