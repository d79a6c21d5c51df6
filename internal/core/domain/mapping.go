package domain

import "strings"

// ColumnMapping maps a canonical field to the actual (trimmed) column
// header found in the uploaded table. Built once per upload; a field
// with no resolvable header is simply absent.
type ColumnMapping map[Field]string

// columnRule is one deterministic match rule: the predicates are tried
// in order, and within each predicate the headers are scanned in their
// original column order. The first hit wins.
type columnRule struct {
	field      Field
	predicates []func(header string) bool
}

func containsAny(header string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(header, n) {
			return true
		}
	}
	return false
}

func isPhotoHeader(header string) bool {
	return containsAny(header, "zdjęcie", "zdjecie", "foto", "photo")
}

// columnRules is the explicit ordered rule list. Precedence quirks:
//   - the description column is recognized by its "do 500 znaków"
//     marker first, so a bare "opis" header is only a fallback,
//   - photo/logo columns prefer the "nazwa pliku" qualified variant
//     and must never swallow a description header.
var columnRules = []columnRule{
	{FieldFirstName, []func(string) bool{
		func(h string) bool { return containsAny(h, "imię", "imie") && !strings.Contains(h, "nazwisko") },
	}},
	{FieldLastName, []func(string) bool{
		func(h string) bool { return strings.Contains(h, "nazwisko") },
	}},
	{FieldCompany, []func(string) bool{
		func(h string) bool { return strings.Contains(h, "firma") },
	}},
	{FieldIndustry, []func(string) bool{
		func(h string) bool { return containsAny(h, "branża", "branza") },
	}},
	{FieldGroup, []func(string) bool{
		func(h string) bool { return strings.Contains(h, "grupa") },
	}},
	{FieldDescription, []func(string) bool{
		func(h string) bool { return strings.Contains(h, "opis") && strings.Contains(h, "500") },
		func(h string) bool {
			return strings.Contains(h, "opis") && !isPhotoHeader(h) && !strings.Contains(h, "logo")
		},
	}},
	{FieldScale, []func(string) bool{
		func(h string) bool { return strings.Contains(h, "skala") },
	}},
	{FieldPhoto, []func(string) bool{
		func(h string) bool { return isPhotoHeader(h) && strings.Contains(h, "nazwa pliku") },
		func(h string) bool { return isPhotoHeader(h) && !strings.Contains(h, "opis") },
	}},
	{FieldLogo, []func(string) bool{
		func(h string) bool { return strings.Contains(h, "logo") && strings.Contains(h, "nazwa pliku") },
		func(h string) bool { return strings.Contains(h, "logo") && !strings.Contains(h, "opis") },
	}},
}

// ResolveColumns builds the ColumnMapping for a set of spreadsheet
// headers. Headers are trimmed before matching and the comparison is
// case-insensitive containment of the canonical name (or its rule's
// needles) inside the header. Missing fields fail softly: they are
// left out of the mapping and downstream lookups degrade to a dash.
func ResolveColumns(headers []string) ColumnMapping {
	trimmed := make([]string, len(headers))
	lowered := make([]string, len(headers))
	for i, h := range headers {
		trimmed[i] = strings.TrimSpace(h)
		lowered[i] = strings.ToLower(trimmed[i])
	}

	mapping := make(ColumnMapping)
	for _, rule := range columnRules {
		for _, match := range rule.predicates {
			found := false
			for i, h := range lowered {
				if h == "" || !match(h) {
					continue
				}
				mapping[rule.field] = trimmed[i]
				found = true
				break
			}
			if found {
				break
			}
		}
	}

	return mapping
}

// Missing returns the required fields absent from the mapping, in
// canonical order.
func (m ColumnMapping) Missing(required []Field) []Field {
	var missing []Field
	for _, f := range required {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Header returns the resolved header for a field, or "".
func (m ColumnMapping) Header(f Field) string {
	return m[f]
}
