package serialization

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"
)

// ReadOptions configures model decoding.
type ReadOptions struct {
	SkipChecksumValidation bool         // Skip checksum validation (faster but less safe)
	Logger                 *slog.Logger // Receives legacy-migration warnings; nil uses slog.Default()
}

func (o ReadOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ReadFile opens path and decodes the model it contains.
func ReadFile(path string, opts ReadOptions) (m *Model, err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	m, err = Read(bufio.NewReader(file), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read decodes a model from r, applying the legacy migration to v1 data.
//
// Any bytes after the model are rejected.
func Read(r io.Reader, opts ReadOptions) (*Model, error) {
	h := sha256.New()
	d := &decoder{r: io.TeeReader(r, h)}

	magic := make([]byte, len(MagicBytes))
	d.bytes(magic, "magic bytes")
	if d.err != nil {
		return nil, d.err
	}
	if string(magic) != MagicBytes {
		return nil, ErrInvalidMagic
	}

	version := d.u32("version")
	if d.err != nil {
		return nil, d.err
	}
	if version != FormatVersionV1 && version != FormatVersionV2 {
		return nil, fmt.Errorf("%w: got %d, expected %d or %d",
			ErrUnsupportedVersion, version, FormatVersionV1, FormatVersionV2)
	}

	m, err := decodeBody(d, version)
	if err != nil {
		return nil, err
	}

	if version >= FormatVersionV2 {
		if err := readChecksum(r, h, opts.SkipChecksumValidation); err != nil {
			return nil, err
		}
	}

	if err := expectEOF(r); err != nil {
		return nil, err
	}

	if version == FormatVersionV1 {
		migrateV1(m, opts.logger())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeBody(d *decoder, version uint32) (*Model, error) {
	m := &Model{Version: version}
	m.InputSize = int(d.u32("input size"))
	count := int(d.u32("layer count"))
	if d.err != nil {
		return nil, d.err
	}
	if count < 1 || count > MaxLayers {
		return nil, &ValidationError{Type: "out_of_range", Field: "layer count",
			Details: fmt.Sprintf("%d not in [1,%d]", count, MaxLayers)}
	}

	m.LayerSizes = make([]int, count)
	for i := range m.LayerSizes {
		m.LayerSizes[i] = int(d.u32(fmt.Sprintf("layer %d size", i)))
	}
	if d.err != nil {
		return nil, d.err
	}
	// Sizes are checked before any parameter buffer is allocated.
	if err := validateSizes(m.InputSize, m.LayerSizes); err != nil {
		return nil, err
	}

	m.LearningRate = d.f64("learning rate")
	if version >= FormatVersionV2 {
		m.DropoutRate = d.f64("dropout rate")
		m.Activations = make([]uint8, count)
		d.bytes(m.Activations, "activations")
	}

	m.Weights = make([][]float64, count)
	m.Biases = make([][]float64, count)
	for i, out := range m.LayerSizes {
		m.Weights[i] = d.f64s(out*m.LayerInput(i), fmt.Sprintf("layer %d weights", i))
		m.Biases[i] = d.f64s(out, fmt.Sprintf("layer %d bias", i))
	}
	if d.err != nil {
		return nil, d.err
	}
	return m, nil
}

func readChecksum(r io.Reader, h hash.Hash, skip bool) error {
	var computed, stored [ChecksumSize]byte
	copy(computed[:], h.Sum(nil))
	if _, err := io.ReadFull(r, stored[:]); err != nil {
		return fmt.Errorf("%w: checksum: %w", ErrTruncated, err)
	}
	if skip {
		return nil
	}
	return ValidateChecksum(computed, stored)
}

func expectEOF(r io.Reader) error {
	var probe [1]byte
	n, err := r.Read(probe[:])
	for n == 0 && err == nil {
		n, err = r.Read(probe[:])
	}
	if n > 0 {
		return &ValidationError{Type: "trailing_data", Details: "unexpected bytes after model data"}
	}
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read past model data: %w", err)
	}
	return nil
}

// decoder reads little-endian fields and keeps the first error.
type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) fail(field string, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = fmt.Errorf("%w: reading %s", ErrTruncated, field)
		return
	}
	d.err = fmt.Errorf("failed to read %s: %w", field, err)
}

func (d *decoder) bytes(dst []byte, field string) {
	if d.err != nil {
		return
	}
	if _, err := io.ReadFull(d.r, dst); err != nil {
		d.fail(field, err)
	}
}

func (d *decoder) u32(field string) uint32 {
	var v uint32
	if d.err != nil {
		return 0
	}
	if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
		d.fail(field, err)
	}
	return v
}

func (d *decoder) f64(field string) float64 {
	var v float64
	if d.err != nil {
		return 0
	}
	if err := binary.Read(d.r, binary.LittleEndian, &v); err != nil {
		d.fail(field, err)
	}
	return v
}

func (d *decoder) f64s(n int, field string) []float64 {
	if d.err != nil {
		return nil
	}
	v := make([]float64, n)
	if err := binary.Read(d.r, binary.LittleEndian, v); err != nil {
		d.fail(field, err)
		return nil
	}
	return v
}
