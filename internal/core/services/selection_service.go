package services

import (
	"sort"
	"strings"

	"katgen/internal/core/domain"
)

// Sort orders recognized by the selection service.
const (
	SortByName    = "name"
	SortByCompany = "company"
	SortByScale   = "scale"
)

// SelectionService narrows and orders the loaded records before
// generation. It is stateless; the record slice carries the state.
type SelectionService struct{}

// NewSelectionService creates a new selection service
func NewSelectionService() *SelectionService {
	return &SelectionService{}
}

// SelectRequest represents a request to filter and order records
type SelectRequest struct {
	Records []domain.Record
	Group   string
	Sort    string
	Reverse bool
}

// SelectResponse holds the records that survived selection, ordered.
type SelectResponse struct {
	Records []domain.Record
}

// Execute applies the group filter, drops excluded records and sorts
// the rest. Scale sorts descending by default; name and company sort
// ascending. Reverse flips whichever order was chosen.
func (s *SelectionService) Execute(req SelectRequest) *SelectResponse {
	var out []domain.Record
	for _, rec := range req.Records {
		if !rec.Included {
			continue
		}
		if req.Group != "" && !strings.EqualFold(strings.TrimSpace(rec.Group), strings.TrimSpace(req.Group)) {
			continue
		}
		out = append(out, rec)
	}

	less := RecordLess(req.Sort)
	sort.SliceStable(out, func(i, j int) bool {
		if req.Reverse {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})

	return &SelectResponse{Records: out}
}

// Groups returns the distinct group labels present in the records,
// sorted, with blanks dropped.
func (s *SelectionService) Groups(records []domain.Record) []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, rec := range records {
		g := strings.TrimSpace(rec.Group)
		if g == "" {
			continue
		}
		key := strings.ToLower(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// RecordLess returns the comparison behind a sort order name. Exposed
// so interactive views can preview the same ordering.
func RecordLess(order string) func(a, b *domain.Record) bool {
	switch order {
	case SortByCompany:
		return func(a, b *domain.Record) bool {
			return strings.ToLower(a.Company) < strings.ToLower(b.Company)
		}
	case SortByScale:
		// Largest business first.
		return func(a, b *domain.Record) bool {
			return a.ScaleValue > b.ScaleValue
		}
	default:
		return func(a, b *domain.Record) bool {
			an := strings.ToLower(strings.TrimSpace(a.LastName + " " + a.FirstName))
			bn := strings.ToLower(strings.TrimSpace(b.LastName + " " + b.FirstName))
			return an < bn
		}
	}
}
