package deck

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	presPath     = "ppt/presentation.xml"
	presRelsPath = "ppt/_rels/presentation.xml.rels"
)

// slideRef is one p:sldId entry of the presentation's ordered slide
// list.
type slideRef struct {
	ID    int
	RelID string
}

// presentation is the parsed state of ppt/presentation.xml needed to
// register clones and drop the stencil.
type presentation struct {
	xml    []byte
	rels   []Relationship
	slides []slideRef
}

var sldIdRe = regexp.MustCompile(`<p:sldId\s+[^>]*?/>`)

func attrValue(entry []byte, attr string) string {
	re := regexp.MustCompile(attr + `="([^"]*)"`)
	if m := re.FindSubmatch(entry); m != nil {
		return string(m[1])
	}
	return ""
}

// parsePresentation reads the slide list and presentation rels.
func parsePresentation(pkg *Package) (*presentation, error) {
	presXML, ok := pkg.Part(presPath)
	if !ok {
		return nil, fmt.Errorf("presentation part missing")
	}
	relsXML, ok := pkg.Part(presRelsPath)
	if !ok {
		return nil, fmt.Errorf("presentation relationships missing")
	}

	rels, err := parseRels(relsXML)
	if err != nil {
		return nil, err
	}

	p := &presentation{xml: presXML, rels: rels}
	for _, entry := range sldIdRe.FindAll(presXML, -1) {
		id, err := strconv.Atoi(attrValue(entry, "id"))
		if err != nil {
			continue
		}
		p.slides = append(p.slides, slideRef{ID: id, RelID: attrValue(entry, "r:id")})
	}

	if len(p.slides) == 0 {
		return nil, fmt.Errorf("template has no slides")
	}

	return p, nil
}

// slidePath resolves the part path behind a slide's relationship id.
func (p *presentation) slidePath(relID string) (string, bool) {
	for _, r := range p.rels {
		if r.ID == relID {
			return resolveTarget("ppt", r.Target), true
		}
	}
	return "", false
}

// maxSlideID returns the highest p:sldId in use, at least 255 so new
// ids always start in the valid range.
func (p *presentation) maxSlideID() int {
	max := 255
	for _, s := range p.slides {
		if s.ID > max {
			max = s.ID
		}
	}
	return max
}

// render writes the updated sldIdLst back into presentation.xml.
// keep holds the final ordered slide list.
func (p *presentation) render(keep []slideRef) []byte {
	var list bytes.Buffer
	for _, s := range keep {
		fmt.Fprintf(&list, `<p:sldId id="%d" r:id="%s"/>`, s.ID, xmlEscape(s.RelID))
	}

	open := bytes.Index(p.xml, []byte("<p:sldIdLst"))
	if open < 0 {
		return p.xml
	}
	openEnd := bytes.IndexByte(p.xml[open:], '>')
	if openEnd < 0 {
		return p.xml
	}
	openEnd += open + 1

	// Either <p:sldIdLst>...</p:sldIdLst> or self-closing.
	if p.xml[openEnd-2] == '/' {
		var out bytes.Buffer
		out.Write(p.xml[:open])
		out.WriteString("<p:sldIdLst>")
		out.Write(list.Bytes())
		out.WriteString("</p:sldIdLst>")
		out.Write(p.xml[openEnd:])
		return out.Bytes()
	}

	close := bytes.Index(p.xml, []byte("</p:sldIdLst>"))
	if close < 0 {
		return p.xml
	}

	var out bytes.Buffer
	out.Write(p.xml[:openEnd])
	out.Write(list.Bytes())
	out.Write(p.xml[close:])
	return out.Bytes()
}

// Stencil is the first slide of the template, read once into a
// neutral shape list. It is cloned per record and never mutated.
type Stencil struct {
	Path   string
	Prolog []byte
	Shapes []Shape
	Epilog []byte

	// Rels carries the stencil's relationships minus notes, so
	// resources referenced by cloned shapes stay resolvable.
	Rels []Relationship
}

// StencilText opens a template and returns the concatenated run text
// of the stencil's shapes, for diagnostics.
func StencilText(template []byte) (string, error) {
	pkg, err := OpenPackage(template)
	if err != nil {
		return "", err
	}
	pres, err := parsePresentation(pkg)
	if err != nil {
		return "", err
	}
	st, err := readStencil(pkg, pres)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, s := range st.Shapes {
		if s.Text == "" {
			continue
		}
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// readStencil locates the first slide in presentation order and
// parses it into the neutral shape tree.
func readStencil(pkg *Package, pres *presentation) (*Stencil, error) {
	path, ok := pres.slidePath(pres.slides[0].RelID)
	if !ok {
		return nil, fmt.Errorf("first slide relationship %s unresolved", pres.slides[0].RelID)
	}

	slideXML, ok := pkg.Part(path)
	if !ok {
		return nil, fmt.Errorf("slide part %s missing", path)
	}

	prolog, shapes, epilog := splitSlide(slideXML)

	st := &Stencil{
		Path:   path,
		Prolog: prolog,
		Shapes: shapes,
		Epilog: epilog,
	}

	// Best effort: a slide without its own rels part is legal.
	if relsXML, ok := pkg.Part(relsPathFor(path)); ok {
		rels, err := parseRels(relsXML)
		if err != nil {
			return nil, err
		}
		for _, r := range rels {
			if r.Type == relTypeNotesSlide {
				continue
			}
			st.Rels = append(st.Rels, r)
		}
	}

	return st, nil
}
