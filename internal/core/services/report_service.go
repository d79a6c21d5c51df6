package services

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"katgen/internal/core/domain"
)

const reportTopCompanies = 15

// ReportService renders an HTML overview of the loaded records:
// member counts per group and the largest businesses by scale.
type ReportService struct {
	selection *SelectionService
}

// NewReportService creates a new report service
func NewReportService() *ReportService {
	return &ReportService{selection: NewSelectionService()}
}

// ReportRequest represents a request to build the overview report
type ReportRequest struct {
	Records []domain.Record
	Title   string
}

// ReportResponse holds the rendered HTML page
type ReportResponse struct {
	HTML []byte
}

// Execute renders the report page.
func (s *ReportService) Execute(req ReportRequest) (*ReportResponse, error) {
	if len(req.Records) == 0 {
		return nil, fmt.Errorf("no records to report on")
	}

	title := req.Title
	if title == "" {
		title = "Katalog członków"
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		s.groupChart(req.Records),
		s.scaleChart(req.Records),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return &ReportResponse{HTML: buf.Bytes()}, nil
}

func (s *ReportService) groupChart(records []domain.Record) *charts.Bar {
	counts := make(map[string]int)
	for _, rec := range records {
		g := rec.Group
		if g == "" {
			g = "bez grupy"
		}
		counts[g]++
	}

	groups := make([]string, 0, len(counts))
	for g := range counts {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	data := make([]opts.BarData, len(groups))
	for i, g := range groups {
		data[i] = opts.BarData{Value: counts[g]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Członkowie według grup"}),
	)
	bar.SetXAxis(groups).AddSeries("Liczba członków", data)
	return bar
}

func (s *ReportService) scaleChart(records []domain.Record) *charts.Bar {
	ordered := s.selection.Execute(SelectRequest{Records: records, Sort: SortByScale}).Records
	if len(ordered) > reportTopCompanies {
		ordered = ordered[:reportTopCompanies]
	}

	labels := make([]string, len(ordered))
	data := make([]opts.BarData, len(ordered))
	for i, rec := range ordered {
		label := rec.Company
		if label == "" {
			label = rec.FullName()
		}
		labels[i] = label
		data[i] = opts.BarData{Value: rec.ScaleValue}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Skala biznesu (PLN)"}),
	)
	bar.SetXAxis(labels).AddSeries("Skala", data)
	return bar
}
