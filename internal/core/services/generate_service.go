package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"katgen/internal/core/domain"
	"katgen/internal/core/ports"
)

// GenerateService runs the whole pipeline: parse the table, index the
// archive, select records and compose the output deck.
type GenerateService struct {
	loader     *LoadService
	selection  *SelectionService
	indexer    ports.ArchiveIndexer
	compositor ports.Compositor
}

// NewGenerateService creates a new generation service
func NewGenerateService(loader *LoadService, indexer ports.ArchiveIndexer, compositor ports.Compositor) *GenerateService {
	return &GenerateService{
		loader:     loader,
		selection:  NewSelectionService(),
		indexer:    indexer,
		compositor: compositor,
	}
}

// GenerateProgress reports per-slide completion during composition.
type GenerateProgress struct {
	Done  int
	Total int
}

// GenerateRequest represents a request to generate a deck
type GenerateRequest struct {
	Spreadsheet []byte
	Template    []byte
	Archive     []byte

	// Records, when non-empty, bypasses spreadsheet loading. The
	// interactive selection path hands its toggled records here.
	Records []domain.Record

	Group   string
	Sort    string
	Reverse bool

	// Strict blocks generation when required columns are missing
	// instead of degrading the affected fields to dashes.
	Strict bool

	OnProgress func(GenerateProgress)
}

// GenerateResponse represents the generated deck
type GenerateResponse struct {
	Deck           []byte
	RecordCount    int
	MissingColumns []domain.Field
}

// Execute runs the pipeline and returns the serialized deck.
func (s *GenerateService) Execute(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	records := req.Records
	var missing []domain.Field

	if len(records) == 0 {
		loaded, err := s.loader.Execute(ctx, LoadRequest{Data: req.Spreadsheet})
		if err != nil {
			return nil, err
		}
		records = loaded.Records
		missing = loaded.MissingColumns

		if req.Strict && len(missing) > 0 {
			return nil, fmt.Errorf("missing required columns: %s", joinFields(missing))
		}
	}

	selected := s.selection.Execute(SelectRequest{
		Records: records,
		Group:   req.Group,
		Sort:    req.Sort,
		Reverse: req.Reverse,
	})
	if len(selected.Records) == 0 {
		return nil, fmt.Errorf("no records selected for generation")
	}

	assets, err := s.indexer.Index(ctx, req.Archive)
	if err != nil {
		return nil, fmt.Errorf("failed to index asset archive: %w", err)
	}

	var onSlide func(done, total int)
	if req.OnProgress != nil {
		onSlide = func(done, total int) {
			req.OnProgress(GenerateProgress{Done: done, Total: total})
		}
	}

	deck, err := s.compositor.Compose(ctx, req.Template, selected.Records, assets, onSlide)
	if err != nil {
		return nil, fmt.Errorf("failed to compose deck: %w", err)
	}

	return &GenerateResponse{
		Deck:           deck,
		RecordCount:    len(selected.Records),
		MissingColumns: missing,
	}, nil
}

// OutputFilename builds the timestamped deck filename, e.g.
// katalog-20260828-153000.pptx.
func OutputFilename(now time.Time, timestampFormat string) string {
	return fmt.Sprintf("katalog-%s.pptx", now.Format(timestampFormat))
}

func joinFields(fields []domain.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
