package ports

import (
	"context"

	"katgen/internal/core/domain"
)

// SpreadsheetReader defines the port for parsing raw tabular bytes
// (xlsx or delimited text) into a Table. The first row is treated as
// headers.
type SpreadsheetReader interface {
	// Read parses the uploaded bytes into headers plus string rows.
	Read(ctx context.Context, data []byte) (*domain.Table, error)
}

// ArchiveIndexer defines the port for building the asset index from
// uploaded archive bytes.
type ArchiveIndexer interface {
	// Index builds the filename -> image bytes lookup table, skipping
	// directory entries and OS-generated metadata paths.
	Index(ctx context.Context, data []byte) (*domain.AssetIndex, error)
}

// Compositor defines the port for producing the output deck from the
// template, the selected records and the asset index.
type Compositor interface {
	// Compose clones the template's stencil slide once per record,
	// substitutes text and images, and returns the serialized deck.
	// onSlide, when non-nil, is invoked after each record finishes.
	Compose(ctx context.Context, template []byte, records []domain.Record, assets *domain.AssetIndex, onSlide func(done, total int)) ([]byte, error)
}
