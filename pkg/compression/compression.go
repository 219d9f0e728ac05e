// Package compression detects and undoes the compression applied to record dumps.
package compression

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Type represents the compression algorithm of a payload.
type Type uint8

const (
	// TypeNone is an uncompressed payload.
	TypeNone Type = iota
	// TypeGzip is a gzip stream (magic 0x1f 0x8b).
	TypeGzip
	// TypeZstd is a zstd frame (magic 0x28 0xb5 0x2f 0xfd).
	TypeZstd
)

// String returns the algorithm name.
func (t Type) String() string {
	switch t {
	case TypeGzip:
		return "gzip"
	case TypeZstd:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the conventional file suffix, including the dot.
func (t Type) Extension() string {
	switch t {
	case TypeGzip:
		return ".gz"
	case TypeZstd:
		return ".zst"
	default:
		return ""
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect identifies the compression type from magic bytes. Anything that
// carries no known magic is treated as uncompressed.
func Detect(data []byte) Type {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return TypeZstd
	case bytes.HasPrefix(data, gzipMagic):
		return TypeGzip
	default:
		return TypeNone
	}
}

// FromExtension maps a file name suffix to a compression type.
func FromExtension(name string) Type {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return TypeGzip
	case ".zst", ".zstd":
		return TypeZstd
	default:
		return TypeNone
	}
}

// TrimExtension removes a compression suffix from name, if present.
func TrimExtension(name string) string {
	if FromExtension(name) == TypeNone {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Decompress detects the payload type and returns the decompressed bytes.
// Uncompressed payloads are returned unchanged.
func Decompress(data []byte) ([]byte, Type, error) {
	t := Detect(data)
	switch t {
	case TypeGzip:
		out, err := gunzip(data)
		return out, t, err
	case TypeZstd:
		out, err := unzstd(data)
		return out, t, err
	default:
		return data, t, nil
	}
}

// Compress compresses data with the given algorithm.
func Compress(t Type, data []byte) ([]byte, error) {
	switch t {
	case TypeNone:
		return data, nil
	case TypeGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to write gzip data: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("failed to close gzip writer: %w", err)
		}
		return buf.Bytes(), nil
	case TypeZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	default:
		return nil, fmt.Errorf("unknown compression type: %d", t)
	}
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip data: %w", err)
	}
	return out, nil
}

func unzstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decode zstd data: %w", err)
	}
	return out, nil
}
