package domain

import (
	"reflect"
	"testing"
)

// catalogHeaders mirrors a real member-catalog sheet.
var catalogHeaders = []string{
	"Lp.",
	"Imię",
	"Nazwisko",
	"Firma",
	"Branża",
	"Grupa",
	"Katalog Członków CC - opis do 500 znaków",
	"Skala Biznesu",
	"Zdjęcie - nazwa pliku",
	"Logo - nazwa pliku",
}

func TestResolveColumns_FullCatalogSheet(t *testing.T) {
	mapping := ResolveColumns(catalogHeaders)

	want := map[Field]string{
		FieldFirstName:   "Imię",
		FieldLastName:    "Nazwisko",
		FieldCompany:     "Firma",
		FieldIndustry:    "Branża",
		FieldGroup:       "Grupa",
		FieldDescription: "Katalog Członków CC - opis do 500 znaków",
		FieldScale:       "Skala Biznesu",
		FieldPhoto:       "Zdjęcie - nazwa pliku",
		FieldLogo:        "Logo - nazwa pliku",
	}
	for f, header := range want {
		if got := mapping.Header(f); got != header {
			t.Errorf("%s resolved to %q, want %q", f, got, header)
		}
	}

	if missing := mapping.Missing(RequiredFields); len(missing) != 0 {
		t.Errorf("expected no missing fields, got %v", missing)
	}
}

func TestResolveColumns_QualifiedPhotoHeaderWins(t *testing.T) {
	headers := []string{"Zdjęcie", "Zdjęcie - nazwa pliku"}
	mapping := ResolveColumns(headers)

	if got := mapping.Header(FieldPhoto); got != "Zdjęcie - nazwa pliku" {
		t.Errorf("photo resolved to %q, want the qualified header", got)
	}
}

func TestResolveColumns_DescriptionNeverStealsPhotoColumn(t *testing.T) {
	headers := []string{"Opis zdjęcia", "Opis do 500 znaków", "Zdjęcie - nazwa pliku"}
	mapping := ResolveColumns(headers)

	if got := mapping.Header(FieldDescription); got != "Opis do 500 znaków" {
		t.Errorf("description resolved to %q", got)
	}
	if got := mapping.Header(FieldPhoto); got != "Zdjęcie - nazwa pliku" {
		t.Errorf("photo resolved to %q", got)
	}
}

func TestResolveColumns_BareDescriptionFallback(t *testing.T) {
	headers := []string{"Imię", "Opis"}
	mapping := ResolveColumns(headers)

	if got := mapping.Header(FieldDescription); got != "Opis" {
		t.Errorf("bare opis header should still resolve, got %q", got)
	}
}

func TestResolveColumns_AsciiVariants(t *testing.T) {
	headers := []string{"imie", "nazwisko", "branza", "zdjecie - nazwa pliku"}
	mapping := ResolveColumns(headers)

	for _, f := range []Field{FieldFirstName, FieldLastName, FieldIndustry, FieldPhoto} {
		if mapping.Header(f) == "" {
			t.Errorf("ascii header variant for %s did not resolve", f)
		}
	}
}

func TestResolveColumns_FirstNameDoesNotMatchCombinedHeader(t *testing.T) {
	headers := []string{"Imię i nazwisko opiekuna", "Imię", "Nazwisko"}
	mapping := ResolveColumns(headers)

	if got := mapping.Header(FieldFirstName); got != "Imię" {
		t.Errorf("first name resolved to %q", got)
	}
}

func TestColumnMapping_Missing(t *testing.T) {
	mapping := ResolveColumns([]string{"Imię", "Nazwisko"})

	missing := mapping.Missing(RequiredFields)
	want := []Field{FieldCompany, FieldDescription, FieldScale}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("missing = %v, want %v", missing, want)
	}
}

func TestResolveColumns_HeadersAreTrimmed(t *testing.T) {
	mapping := ResolveColumns([]string{"  Firma  "})

	if got := mapping.Header(FieldCompany); got != "Firma" {
		t.Errorf("expected trimmed header, got %q", got)
	}
}
