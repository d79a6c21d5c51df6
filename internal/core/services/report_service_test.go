package services

import (
	"strings"
	"testing"

	"katgen/internal/core/domain"
)

func TestReport_RendersBothCharts(t *testing.T) {
	service := NewReportService()

	resp, err := service.Execute(ReportRequest{Records: selectionRecords()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	html := string(resp.HTML)
	if !strings.Contains(html, "Członkowie według grup") {
		t.Error("group chart title missing from report")
	}
	if !strings.Contains(html, "Skala biznesu") {
		t.Error("scale chart title missing from report")
	}
}

func TestReport_EmptyRecords(t *testing.T) {
	service := NewReportService()

	if _, err := service.Execute(ReportRequest{}); err == nil {
		t.Fatal("expected error for an empty record set")
	}
}

func TestReport_BlankGroupIsBucketed(t *testing.T) {
	service := NewReportService()

	records := []domain.Record{
		{FirstName: "A", Included: true},
		{FirstName: "B", Group: "G1", Included: true},
	}
	resp, err := service.Execute(ReportRequest{Records: records})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(resp.HTML), "bez grupy") {
		t.Error("blank groups should fall into the 'bez grupy' bucket")
	}
}
