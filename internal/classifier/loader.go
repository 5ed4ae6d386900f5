package classifier

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// LoadFile reads a model artifact from disk. Artifacts are zstd-compressed
// JSON; the loader validates the structure before returning so that a corrupt
// artifact fails at startup rather than on the first request.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a zstd-compressed JSON model artifact from r.
func Decode(r io.Reader) (*Model, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var m Model
	if err := json.NewDecoder(zr).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	return &m, nil
}

// Encode writes the model as a zstd-compressed JSON artifact. Used by the
// offline generator; the service itself never writes artifacts.
func Encode(w io.Writer, m *Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to encode invalid model: %w", err)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(m); err != nil {
		zw.Close()
		return fmt.Errorf("encode model artifact: %w", err)
	}
	return zw.Close()
}
