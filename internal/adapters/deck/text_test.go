package deck

import (
	"strings"
	"testing"

	"katgen/internal/core/domain"
)

func testValues(desc string) func(domain.Field) string {
	values := map[domain.Field]string{
		domain.FieldFirstName:   "Anna",
		domain.FieldLastName:    "Kowalska",
		domain.FieldCompany:     "Kowalska & Syn",
		domain.FieldIndustry:    "Handel",
		domain.FieldGroup:       "G1",
		domain.FieldDescription: desc,
		domain.FieldScale:       "2,5 mln PLN",
	}
	return func(f domain.Field) string { return values[f] }
}

func TestSubstituteShapeText_ReplacesTokensAndEscapes(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:r><a:rPr sz="1400"/><a:t>{Imię} {Nazwisko}, {Firma}</a:t></a:r></a:p></p:txBody></p:sp>`)

	out, changed := SubstituteShapeText(raw, testValues("opis"), TextOptions{})
	if !changed {
		t.Fatal("expected substitution to report a change")
	}
	got := string(out)
	if !strings.Contains(got, "Anna Kowalska, Kowalska &amp; Syn") {
		t.Errorf("expected escaped substituted text, got %s", got)
	}
	if strings.Contains(got, "{") {
		t.Error("token left behind")
	}
}

func TestSubstituteShapeText_LeavesPlainTextAlone(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:r><a:t>Katalog członków</a:t></a:r></a:p></p:txBody></p:sp>`)

	out, changed := SubstituteShapeText(raw, testValues("opis"), TextOptions{})
	if changed {
		t.Error("no tokens present, nothing should change")
	}
	if string(out) != string(raw) {
		t.Error("plain text shape must pass through unmodified")
	}
}

func TestSubstituteShapeText_ShrinkRewritesExistingSize(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:r><a:rPr lang="pl-PL" sz="1100" dirty="0"/><a:t>{Opis}</a:t></a:r></a:p></p:txBody></p:sp>`)
	opts := TextOptions{ShrinkMidThreshold: 450, ShrinkMidSize: 9, ShrinkMaxThreshold: 600, ShrinkMaxSize: 8}

	mid := strings.Repeat("a", 500)
	out, _ := SubstituteShapeText(raw, testValues(mid), opts)
	if !strings.Contains(string(out), `sz="900"`) {
		t.Errorf("mid-length description should shrink to 9pt, got %s", out)
	}

	long := strings.Repeat("a", 700)
	out, _ = SubstituteShapeText(raw, testValues(long), opts)
	if !strings.Contains(string(out), `sz="800"`) {
		t.Errorf("long description should shrink to 8pt, got %s", out)
	}

	short := strings.Repeat("a", 100)
	out, _ = SubstituteShapeText(raw, testValues(short), opts)
	if !strings.Contains(string(out), `sz="1100"`) {
		t.Error("short description must keep the template size")
	}
}

func TestSubstituteShapeText_ShrinkInsertsMissingRunProperties(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:r><a:t>{Opis}</a:t></a:r></a:p></p:txBody></p:sp>`)
	opts := TextOptions{ShrinkMidThreshold: 450, ShrinkMidSize: 9}

	out, _ := SubstituteShapeText(raw, testValues(strings.Repeat("x", 460)), opts)
	if !strings.Contains(string(out), `<a:rPr`) || !strings.Contains(string(out), `sz="900"`) {
		t.Errorf("expected inserted run properties with size, got %s", out)
	}
}

func TestSubstituteShapeText_ValueWithTokenTextIsNotRescanned(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:r><a:t>{Firma}</a:t></a:r></a:p></p:txBody></p:sp>`)
	values := func(f domain.Field) string {
		if f == domain.FieldCompany {
			return "Zakład {Opis}"
		}
		return "x"
	}

	out, changed := SubstituteShapeText(raw, values, TextOptions{})
	if !changed {
		t.Fatal("expected substitution to report a change")
	}
	if !strings.Contains(string(out), "Zakład {Opis}") {
		t.Errorf("company value must land verbatim, got %s", out)
	}
}

func TestSubstituteShapeText_FieldElementsOutsideRuns(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:fld id="{X}" type="slidenum"><a:t>{Grupa}</a:t></a:fld><a:r><a:t>{Imię}</a:t></a:r></a:p></p:txBody></p:sp>`)

	out, changed := SubstituteShapeText(raw, testValues("opis"), TextOptions{})
	if !changed {
		t.Fatal("expected substitution to report a change")
	}
	got := string(out)
	if !strings.Contains(got, ">G1<") {
		t.Errorf("field element text outside runs should substitute, got %s", got)
	}
	if !strings.Contains(got, ">Anna<") {
		t.Errorf("run text should substitute, got %s", got)
	}
}

func TestSetShapeText_FirstRunKeepsTextRestBlanked(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:r><a:rPr sz="1800"/><a:t>Imię</a:t></a:r><a:r><a:t>nazwisko</a:t></a:r></a:p></p:txBody></p:sp>`)

	out := string(setShapeText(raw, "{Imię} {Nazwisko}"))
	if !strings.Contains(out, "<a:t>{Imię} {Nazwisko}</a:t>") {
		t.Errorf("first run should carry the new text, got %s", out)
	}
	if strings.Contains(out, "nazwisko") {
		t.Errorf("later runs should be blanked, got %s", out)
	}
	if !strings.Contains(out, `sz="1800"`) {
		t.Error("run formatting must be preserved")
	}

	empty := []byte(`<p:sp><p:spPr/></p:sp>`)
	if got := string(setShapeText(empty, "x")); got != string(empty) {
		t.Errorf("shape without runs must pass through, got %s", got)
	}
}

func TestSubstituteShapeText_OnlyDescriptionRunShrinks(t *testing.T) {
	raw := []byte(`<p:sp><p:txBody><a:p><a:r><a:rPr sz="1800"/><a:t>{Imię}</a:t></a:r><a:r><a:rPr sz="1100"/><a:t>{Opis}</a:t></a:r></a:p></p:txBody></p:sp>`)
	opts := TextOptions{ShrinkMidThreshold: 450, ShrinkMidSize: 9}

	out, _ := SubstituteShapeText(raw, testValues(strings.Repeat("x", 500)), opts)
	got := string(out)
	if !strings.Contains(got, `sz="1800"`) {
		t.Error("name run size must be untouched")
	}
	if !strings.Contains(got, `sz="900"`) {
		t.Error("description run should have shrunk")
	}
}
