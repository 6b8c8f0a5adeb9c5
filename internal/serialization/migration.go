package serialization

import "log/slog"

// migrateV1 fills the fields that v1 files do not record.
//
// This is the only place where the reader substitutes defaults. Sizes and
// parameter data are always required.
func migrateV1(m *Model, logger *slog.Logger) {
	m.DropoutRate = DefaultDropoutRate
	m.Activations = make([]uint8, len(m.LayerSizes))
	for i := range m.Activations {
		m.Activations[i] = ActivationSigmoid
	}
	m.Migrated = []string{"dropout_rate", "activations"}

	logger.Warn("migrated legacy model",
		"format_version", FormatVersionV1,
		"dropout_rate", m.DropoutRate,
		"activations", "sigmoid",
		"defaulted", m.Migrated,
	)
}
