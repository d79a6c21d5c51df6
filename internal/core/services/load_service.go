package services

import (
	"context"
	"fmt"
	"strings"

	"katgen/internal/core/domain"
	"katgen/internal/core/ports"
)

// LoadService turns uploaded spreadsheet bytes into records with a
// resolved column mapping.
type LoadService struct {
	reader ports.SpreadsheetReader
}

// NewLoadService creates a new load service
func NewLoadService(reader ports.SpreadsheetReader) *LoadService {
	return &LoadService{reader: reader}
}

// LoadRequest represents a request to load a member table
type LoadRequest struct {
	Data []byte
}

// LoadResponse represents the loaded table with its column mapping
type LoadResponse struct {
	Table   *domain.Table
	Mapping domain.ColumnMapping
	Records []domain.Record

	// MissingColumns lists required fields no header resolved to,
	// in canonical order. The caller decides whether that blocks.
	MissingColumns []domain.Field
}

// Execute parses the table and materializes one record per data row.
func (s *LoadService) Execute(ctx context.Context, req LoadRequest) (*LoadResponse, error) {
	table, err := s.reader.Read(ctx, req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("spreadsheet has no header row")
	}

	mapping := domain.ResolveColumns(table.Headers)

	columns := make(map[domain.Field]int)
	for _, f := range domain.AllFields {
		if header := mapping.Header(f); header != "" {
			columns[f] = table.ColumnIndex(header)
		}
	}

	var records []domain.Record
	for row := range table.Rows {
		rec := domain.Record{
			// Data rows start at 2: row 1 is the header.
			Row:      row + 2,
			Included: true,
		}
		blank := true
		for f, col := range columns {
			value := strings.TrimSpace(table.Cell(row, col))
			if value != "" {
				blank = false
			}
			switch f {
			case domain.FieldFirstName:
				rec.FirstName = value
			case domain.FieldLastName:
				rec.LastName = value
			case domain.FieldCompany:
				rec.Company = value
			case domain.FieldIndustry:
				rec.Industry = value
			case domain.FieldGroup:
				rec.Group = value
			case domain.FieldDescription:
				rec.Description = value
			case domain.FieldScale:
				rec.Scale = value
			case domain.FieldPhoto:
				rec.PhotoFile = value
			case domain.FieldLogo:
				rec.LogoFile = value
			}
		}
		if blank {
			continue
		}
		rec.ScaleValue = domain.ParseScale(rec.Scale)
		records = append(records, rec)
	}

	return &LoadResponse{
		Table:          table,
		Mapping:        mapping,
		Records:        records,
		MissingColumns: mapping.Missing(domain.RequiredFields),
	}, nil
}
