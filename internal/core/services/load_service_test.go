package services

import (
	"context"
	"errors"
	"testing"

	"katgen/internal/core/domain"
	"katgen/internal/core/ports/mocks"
)

func catalogTable() *domain.Table {
	return &domain.Table{
		Headers: []string{
			"Lp.", "Imię", "Nazwisko", "Firma", "Branża", "Grupa",
			"Katalog Członków CC - opis do 500 znaków", "Skala Biznesu",
			"Zdjęcie - nazwa pliku", "Logo - nazwa pliku",
		},
		Rows: [][]string{
			{"1", "Anna", "Kowalska", "Novex", "Handel", "G1", "Hurtownia opakowań", "2,5 mln PLN", "anna.jpg", "novex.png"},
			{"2", "Piotr", "Zieliński", "Datio", "IT", "G2", "Usługi IT", "500 tys", "piotr.jpg", ""},
			{"", "", "", "", "", "", "", "", "", ""},
		},
	}
}

func TestLoadService_MaterializesRecords(t *testing.T) {
	service := NewLoadService(mocks.NewMockSpreadsheetReader(catalogTable()))

	resp, err := service.Execute(context.Background(), LoadRequest{Data: []byte("raw")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Records) != 2 {
		t.Fatalf("expected 2 records (blank row skipped), got %d", len(resp.Records))
	}
	if len(resp.MissingColumns) != 0 {
		t.Errorf("expected full mapping, missing %v", resp.MissingColumns)
	}

	anna := resp.Records[0]
	if anna.Row != 2 {
		t.Errorf("first data row should be sheet row 2, got %d", anna.Row)
	}
	if anna.FirstName != "Anna" || anna.Company != "Novex" || anna.PhotoFile != "anna.jpg" {
		t.Errorf("unexpected record values: %+v", anna)
	}
	if anna.ScaleValue != 2.5e6 {
		t.Errorf("scale not parsed: %v", anna.ScaleValue)
	}
	if !anna.Included {
		t.Error("records should start included")
	}
}

func TestLoadService_ReportsMissingColumns(t *testing.T) {
	table := &domain.Table{
		Headers: []string{"Imię", "Nazwisko"},
		Rows:    [][]string{{"Anna", "Kowalska"}},
	}
	service := NewLoadService(mocks.NewMockSpreadsheetReader(table))

	resp, err := service.Execute(context.Background(), LoadRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Field{domain.FieldCompany, domain.FieldDescription, domain.FieldScale}
	if len(resp.MissingColumns) != len(want) {
		t.Fatalf("missing = %v, want %v", resp.MissingColumns, want)
	}
	for i, f := range want {
		if resp.MissingColumns[i] != f {
			t.Errorf("missing[%d] = %s, want %s", i, resp.MissingColumns[i], f)
		}
	}
}

func TestLoadService_ReaderFailure(t *testing.T) {
	reader := mocks.NewMockSpreadsheetReader(nil)
	reader.SetShouldFail(true, errors.New("corrupt file"))
	service := NewLoadService(reader)

	if _, err := service.Execute(context.Background(), LoadRequest{}); err == nil {
		t.Fatal("expected error from failing reader")
	}
}

func TestLoadService_EmptyHeaderRow(t *testing.T) {
	service := NewLoadService(mocks.NewMockSpreadsheetReader(&domain.Table{}))

	if _, err := service.Execute(context.Background(), LoadRequest{}); err == nil {
		t.Fatal("expected error for a table without headers")
	}
}
