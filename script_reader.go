package main

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var gzipMagic = []byte{0x1f, 0x8b}
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type scriptCompression int

const (
	scriptCompressionNone scriptCompression = iota
	scriptCompressionGzip
	scriptCompressionZstd
)

// scriptReader streams a possibly compressed script. Closing it releases the
// decompressor and the underlying source.
type scriptReader struct {
	io.Reader
	closers []func() error
}

func (r *scriptReader) Close() (err error) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if cerr := r.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return
}

func sniffCompression(header []byte) scriptCompression {
	switch {
	case bytes.HasPrefix(header, zstdMagic):
		return scriptCompressionZstd
	case bytes.HasPrefix(header, gzipMagic):
		return scriptCompressionGzip
	default:
		return scriptCompressionNone
	}
}

// newScriptReader wraps source in the decompressor its leading bytes call
// for. The ownership of source is transferred to the returned reader.
func newScriptReader(source io.ReadCloser) (*scriptReader, error) {
	buffered := bufio.NewReader(source)
	reader := &scriptReader{Reader: buffered, closers: []func() error{source.Close}}

	// Peek returns what it has on a short read; an empty or tiny script is
	// plain text.
	header, err := buffered.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		_ = source.Close()
		return nil, err
	}

	switch sniffCompression(header) {
	case scriptCompressionGzip:
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			_ = source.Close()
			return nil, err
		}
		reader.Reader = gz
		reader.closers = append(reader.closers, gz.Close)
	case scriptCompressionZstd:
		zr, err := zstd.NewReader(buffered)
		if err != nil {
			_ = source.Close()
			return nil, err
		}
		reader.Reader = zr
		reader.closers = append(reader.closers, func() error {
			zr.Close()
			return nil
		})
	}
	return reader, nil
}

func openScript(path string) (*scriptReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return newScriptReader(file)
}
