// Package input opens captured wire documents for the CLI, transparently
// decompressing them by file extension.
//
// Supports gzip (.gz), zstd (.zst, .zstd), brotli (.br) and lz4 (.lz4).
package input

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Encoding names a compression format.
type Encoding string

const (
	Identity Encoding = ""
	Gzip     Encoding = "gzip"
	Zstd     Encoding = "zstd"
	Brotli   Encoding = "br"
	LZ4      Encoding = "lz4"
)

// maxZstdMemory bounds the zstd decoder window.
const maxZstdMemory = 64 << 20

// EncodingOf derives the encoding from a file name and returns the name with
// the compression suffix removed ("conn.json.gz" -> gzip, "conn.json").
func EncodingOf(name string) (Encoding, string) {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	switch ext {
	case ".gz":
		return Gzip, base
	case ".zst", ".zstd":
		return Zstd, base
	case ".br":
		return Brotli, base
	case ".lz4":
		return LZ4, base
	default:
		return Identity, name
	}
}

// NewReader wraps r with the decompressor for enc.
func NewReader(r io.Reader, enc Encoding) (io.ReadCloser, error) {
	switch enc {
	case Identity:
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("input: invalid gzip stream: %w", err)
		}
		return gr, nil
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderMaxMemory(maxZstdMemory))
		if err != nil {
			return nil, fmt.Errorf("input: invalid zstd stream: %w", err)
		}
		return dec.IOReadCloser(), nil
	case Brotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("input: unsupported encoding %q", string(enc))
	}
}

// ReadFile reads name ("-" or "" for stdin) and decompresses it according to
// its extension. The returned name has the compression suffix removed so
// callers can inspect the inner extension (.json, .cbor). maxBytes > 0 caps
// the decompressed size.
func ReadFile(name string, stdin io.Reader, maxBytes int64) ([]byte, string, error) {
	var src io.Reader
	if name == "" || name == "-" {
		src = stdin
		name = "-"
	} else {
		f, err := os.Open(name)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		src = f
	}
	enc, inner := EncodingOf(name)
	rc, err := NewReader(src, enc)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	defer rc.Close()
	if maxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", name, err)
		}
		if int64(len(data)) > maxBytes {
			return nil, "", fmt.Errorf("%s: input exceeds %d bytes", name, maxBytes)
		}
		return data, inner, nil
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return data, inner, nil
}
