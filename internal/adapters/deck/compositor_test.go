package deck

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"katgen/internal/core/domain"
	"katgen/pkg/config"
)

const testSlideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/><p:sp><p:nvSpPr><p:cNvPr id="2" name="Imię i nazwisko"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="pl-PL" sz="1800" b="1"/><a:t>{Imię} {Nazwisko}</a:t></a:r></a:p></p:txBody></p:sp><p:sp><p:nvSpPr><p:cNvPr id="3" name="Opis"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="pl-PL" sz="1100"/><a:t>{Opis}</a:t></a:r></a:p></p:txBody></p:sp><p:sp><p:nvSpPr><p:cNvPr id="4" name="PHOTO"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr><a:xfrm><a:off x="457200" y="457200"/><a:ext cx="1905000" cy="1905000"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr><p:txBody><a:bodyPr/><a:p><a:r><a:t>PHOTO</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`

const testPresentationXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`

const testPresRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide1.xml"/></Relationships>`

const testContentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/><Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/></Types>`

const testRootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/></Relationships>`

const testSlideRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/></Relationships>`

// buildTemplate assembles a minimal one-slide pptx in memory.
func buildTemplate(t *testing.T) []byte {
	t.Helper()
	return buildTemplateWith(t, testSlideXML)
}

// buildTemplateWith assembles the template around a custom slide body.
func buildTemplateWith(t *testing.T, slideXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", testContentTypesXML},
		{"_rels/.rels", testRootRelsXML},
		{"ppt/presentation.xml", testPresentationXML},
		{"ppt/_rels/presentation.xml.rels", testPresRelsXML},
		{"ppt/slides/slide1.xml", slideXML},
		{"ppt/slides/_rels/slide1.xml.rels", testSlideRelsXML},
	}
	for _, p := range parts {
		f, err := w.Create(p.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", p.name, err)
		}
		if _, err := f.Write([]byte(p.body)); err != nil {
			t.Fatalf("failed to write %s: %v", p.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finalize template: %v", err)
	}
	return buf.Bytes()
}

func testPhotoPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode photo: %v", err)
	}
	return buf.Bytes()
}

func testOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

func readPart(t *testing.T, deck []byte, name string) string {
	t.Helper()
	pkg, err := OpenPackage(deck)
	if err != nil {
		t.Fatalf("result is not a valid package: %v", err)
	}
	data, ok := pkg.Part(name)
	if !ok {
		t.Fatalf("part %s missing from result", name)
	}
	return string(data)
}

func TestCompose_OneSlidePerRecordAndStencilDropped(t *testing.T) {
	assets := domain.NewAssetIndex()
	assets.Add("anna.png", testPhotoPNG(t))

	records := []domain.Record{
		{Row: 2, FirstName: "Anna", LastName: "Kowalska", Company: "Novex", Description: "Handel hurtowy", Scale: "2 mln PLN", PhotoFile: "anna.png"},
		{Row: 3, FirstName: "Piotr", LastName: "Zieliński", Company: "Datio", Description: "Usługi IT", Scale: "500 tys PLN", PhotoFile: "piotr.jpg"},
	}

	comp := NewPPTXCompositor(testOptions())
	out, err := comp.Compose(context.Background(), buildTemplate(t), records, assets, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pres := readPart(t, out, "ppt/presentation.xml")
	if strings.Contains(pres, `r:id="rId2"`) {
		t.Error("stencil slide still referenced in the slide list")
	}
	if got := strings.Count(pres, "<p:sldId "); got != 2 {
		t.Errorf("expected 2 slide entries, got %d", got)
	}

	slide2 := readPart(t, out, "ppt/slides/slide2.xml")
	if !strings.Contains(slide2, "Anna Kowalska") {
		t.Error("first clone is missing the substituted name")
	}
	if strings.Contains(slide2, "{") {
		t.Error("unsubstituted token left in first clone")
	}
	if !strings.Contains(slide2, "<p:pic>") {
		t.Error("resolved photo was not embedded as a picture")
	}

	slide3 := readPart(t, out, "ppt/slides/slide3.xml")
	if !strings.Contains(slide3, "Piotr Zieliński") {
		t.Error("second clone is missing the substituted name")
	}
	if !strings.Contains(slide3, "Brak zdjęcia") {
		t.Error("missing photo did not fall back to the caption text")
	}

	types := readPart(t, out, "[Content_Types].xml")
	for _, part := range []string{"/ppt/slides/slide2.xml", "/ppt/slides/slide3.xml"} {
		if !strings.Contains(types, part) {
			t.Errorf("content types missing override for %s", part)
		}
	}
	if !strings.Contains(types, `Extension="png"`) {
		t.Error("content types missing png default")
	}
}

func TestCompose_GrayBoxFallback(t *testing.T) {
	opts := testOptions()
	opts.FallbackStyle = config.FallbackGrayBox

	records := []domain.Record{
		{FirstName: "Jan", LastName: "Nowak", PhotoFile: "ghost.png"},
	}

	comp := NewPPTXCompositor(opts)
	out, err := comp.Compose(context.Background(), buildTemplate(t), records, domain.NewAssetIndex(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slide := readPart(t, out, "ppt/slides/slide2.xml")
	if !strings.Contains(slide, "<p:pic>") {
		t.Error("gray box fallback should embed a picture shape")
	}
	if strings.Contains(slide, "Brak zdjęcia") {
		t.Error("caption fallback used despite gray box style")
	}
	box := readPart(t, out, "ppt/media/image1.png")
	if _, err := png.Decode(strings.NewReader(box)); err != nil {
		t.Errorf("gray box media part is not valid png: %v", err)
	}
}

func TestCompose_ShrinksLongDescription(t *testing.T) {
	long := strings.Repeat("opis firmy i jej zakresu ", 30) // well past 600 runes

	records := []domain.Record{
		{FirstName: "Ewa", LastName: "Lis", Description: long, PhotoFile: "x.png"},
	}

	comp := NewPPTXCompositor(testOptions())
	out, err := comp.Compose(context.Background(), buildTemplate(t), records, domain.NewAssetIndex(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slide := readPart(t, out, "ppt/slides/slide2.xml")
	if !strings.Contains(slide, `sz="800"`) {
		t.Error("long description did not get the 8pt override")
	}
	if strings.Contains(slide, `sz="1100"`) {
		t.Error("template description size left in place")
	}
}

func TestCompose_BlankFieldsBecomeDash(t *testing.T) {
	records := []domain.Record{
		{FirstName: "Jan", LastName: ""},
	}

	comp := NewPPTXCompositor(testOptions())
	out, err := comp.Compose(context.Background(), buildTemplate(t), records, domain.NewAssetIndex(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slide := readPart(t, out, "ppt/slides/slide2.xml")
	if !strings.Contains(slide, "Jan -") {
		t.Error("blank last name should substitute as a dash")
	}
}

// Slide in the older template convention: named boxes with designer
// placeholder text and no tokens.
const testNamedBoxSlideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/><p:sp><p:nvSpPr><p:cNvPr id="2" name="DANE_OSOBOWE"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="pl-PL" sz="1800" b="1"/><a:t>Imię i nazwisko</a:t></a:r></a:p></p:txBody></p:sp><p:sp><p:nvSpPr><p:cNvPr id="3" name="FIRMA_BOX"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="pl-PL" sz="1400"/><a:t>Nazwa firmy</a:t></a:r></a:p></p:txBody></p:sp><p:sp><p:nvSpPr><p:cNvPr id="4" name="OPIS_BOX"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:rPr lang="pl-PL" sz="1100"/><a:t>Opis działalności</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`

func TestCompose_NamedBoxesSubstituted(t *testing.T) {
	long := strings.Repeat("handel hurtowy materiałami budowlanymi ", 20)

	records := []domain.Record{
		{FirstName: "Jan", LastName: "Kowalski", Company: "ACME", Scale: "2 mln PLN", Description: long},
	}

	comp := NewPPTXCompositor(testOptions())
	out, err := comp.Compose(context.Background(), buildTemplateWith(t, testNamedBoxSlideXML), records, domain.NewAssetIndex(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slide := readPart(t, out, "ppt/slides/slide2.xml")
	if !strings.Contains(slide, "Jan Kowalski") {
		t.Error("DANE_OSOBOWE box did not receive the record name")
	}
	if !strings.Contains(slide, ">ACME<") {
		t.Error("FIRMA_BOX box did not receive the company")
	}
	if strings.Contains(slide, "Imię i nazwisko") || strings.Contains(slide, "Nazwa firmy") {
		t.Error("designer placeholder text survived in the clone")
	}
	if strings.Contains(slide, "{") {
		t.Error("injected token left unsubstituted")
	}
	if !strings.Contains(slide, `sz="800"`) {
		t.Error("long description in OPIS_BOX did not shrink to 8pt")
	}
}

const testBareMarkerSlideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/><p:sp><p:nvSpPr><p:cNvPr id="2" name="PHOTO"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:p><a:r><a:t>PHOTO</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`

func TestCompose_MarkerWithoutBoundsGetsCaption(t *testing.T) {
	records := []domain.Record{
		{FirstName: "Jan", LastName: "Nowak", PhotoFile: "jan.png"},
	}

	comp := NewPPTXCompositor(testOptions())
	out, err := comp.Compose(context.Background(), buildTemplateWith(t, testBareMarkerSlideXML), records, domain.NewAssetIndex(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slide := readPart(t, out, "ppt/slides/slide2.xml")
	if strings.Contains(slide, ">PHOTO<") {
		t.Error("bare marker text survived in the clone")
	}
	if !strings.Contains(slide, "Brak zdjęcia") {
		t.Error("marker without bounds should degrade to the caption text")
	}
}

func TestCompose_ReportsProgress(t *testing.T) {
	records := []domain.Record{
		{FirstName: "A"}, {FirstName: "B"}, {FirstName: "C"},
	}

	var calls []int
	comp := NewPPTXCompositor(testOptions())
	_, err := comp.Compose(context.Background(), buildTemplate(t), records, domain.NewAssetIndex(), func(done, total int) {
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calls) != 3 || calls[0] != 1 || calls[2] != 3 {
		t.Errorf("unexpected progress sequence: %v", calls)
	}
}

func TestCompose_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	comp := NewPPTXCompositor(testOptions())
	_, err := comp.Compose(ctx, buildTemplate(t), []domain.Record{{FirstName: "A"}}, domain.NewAssetIndex(), nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestCompose_RejectsNonPresentation(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, _ := w.Create("hello.txt")
	f.Write([]byte("not a deck"))
	w.Close()

	comp := NewPPTXCompositor(testOptions())
	if _, err := comp.Compose(context.Background(), buf.Bytes(), nil, domain.NewAssetIndex(), nil); err == nil {
		t.Fatal("expected error for a zip without presentation parts")
	}
}
