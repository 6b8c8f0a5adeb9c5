package serialization

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write encodes m to w in the current format version.
func Write(w io.Writer, m *Model) error {
	return encode(w, m, FormatVersion)
}

// WriteLegacy encodes m in the v1 layout, for consumers that predate v2.
//
// v1 cannot record a dropout rate or softmax outputs, so models that use
// either are rejected rather than silently downgraded.
func WriteLegacy(w io.Writer, m *Model) error {
	if m.DropoutRate != DefaultDropoutRate {
		return &ValidationError{Type: "unsupported_field", Field: "dropout rate",
			Details: "v1 format cannot store a dropout rate"}
	}
	for i, code := range m.Activations {
		if code != ActivationSigmoid {
			return &ValidationError{Type: "unsupported_field", Field: fmt.Sprintf("layer %d activation", i),
				Details: "v1 format only stores sigmoid layers"}
		}
	}
	return encode(w, m, FormatVersionV1)
}

// WriteFile atomically writes m to path in the current format version.
//
// The data is written to a temporary file in the same directory, flushed,
// synced and renamed over path. On any failure the temporary file is removed
// and path is left untouched.
func WriteFile(path string, m *Model) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return Write(w, m)
	})
}

func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close() // Best effort close on error
		}
		_ = os.Remove(tmpName)
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", tmpName, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}

//nolint:gocyclo // Sequential binary layout, one step per field
func encode(w io.Writer, m *Model, version uint32) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}

	h := sha256.New()
	out := w
	if version >= FormatVersionV2 {
		out = io.MultiWriter(w, h)
	}

	if _, err := io.WriteString(out, MagicBytes); err != nil {
		return fmt.Errorf("failed to write magic bytes: %w", err)
	}

	//nolint:gosec // G115: sizes are bounded by Validate
	header := []uint32{version, uint32(m.InputSize), uint32(len(m.LayerSizes))}
	for _, size := range m.LayerSizes {
		header = append(header, uint32(size)) //nolint:gosec // bounded by Validate
	}
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write architecture: %w", err)
	}

	if err := binary.Write(out, binary.LittleEndian, m.LearningRate); err != nil {
		return fmt.Errorf("failed to write learning rate: %w", err)
	}

	if version >= FormatVersionV2 {
		if err := binary.Write(out, binary.LittleEndian, m.DropoutRate); err != nil {
			return fmt.Errorf("failed to write dropout rate: %w", err)
		}
		if _, err := out.Write(m.Activations); err != nil {
			return fmt.Errorf("failed to write activations: %w", err)
		}
	}

	for i := range m.LayerSizes {
		if err := binary.Write(out, binary.LittleEndian, m.Weights[i]); err != nil {
			return fmt.Errorf("failed to write layer %d weights: %w", i, err)
		}
		if err := binary.Write(out, binary.LittleEndian, m.Biases[i]); err != nil {
			return fmt.Errorf("failed to write layer %d bias: %w", i, err)
		}
	}

	if version >= FormatVersionV2 {
		if _, err := w.Write(h.Sum(nil)); err != nil {
			return fmt.Errorf("failed to write checksum: %w", err)
		}
	}
	return nil
}
