package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"katgen/internal/core/domain"
	"katgen/internal/core/ports"
)

// macMetadataPrefix is the folder macOS zip tools inject; everything
// under it is resource-fork noise, never an image.
const macMetadataPrefix = "__MACOSX"

// ZipIndexer builds the asset index from an uploaded .zip of photo
// and logo files. Directory structure inside the archive is ignored:
// only the bare filename matters for lookup.
type ZipIndexer struct{}

// NewZipIndexer creates a new zip indexer
func NewZipIndexer() *ZipIndexer {
	return &ZipIndexer{}
}

// Ensure it implements the interface
var _ ports.ArchiveIndexer = (*ZipIndexer)(nil)

// Index reads every regular file entry into memory, keyed by its
// lower-cased base filename. Directories and macOS metadata entries
// are skipped.
func (z *ZipIndexer) Index(ctx context.Context, data []byte) (*domain.AssetIndex, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	idx := domain.NewAssetIndex()
	for _, file := range reader.File {
		if skipEntry(file.Name) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			// One unreadable entry must not sink the index.
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}

		idx.Add(file.Name, content)
	}

	return idx, nil
}

// skipEntry filters directories and OS-generated metadata paths.
func skipEntry(name string) bool {
	if strings.HasSuffix(name, "/") {
		return true
	}
	clean := strings.TrimPrefix(name, "./")
	if strings.HasPrefix(clean, macMetadataPrefix) {
		return true
	}
	// Metadata folder nested below a user directory
	if strings.Contains(clean, "/"+macMetadataPrefix) {
		return true
	}
	base := clean
	if i := strings.LastIndex(clean, "/"); i >= 0 {
		base = clean[i+1:]
	}
	// Finder litter
	return base == ".DS_Store"
}
