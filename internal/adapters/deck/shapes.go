package deck

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"katgen/internal/core/domain"
)

// shapeTags are the spTree child elements treated as shapes. Group
// shapes are scanned as one opaque block, so shapes nested inside a
// group are never split out of it.
var shapeTags = []string{"p:sp", "p:pic", "p:graphicFrame", "p:cxnSp", "p:grpSp"}

// Shape is one neutral shape description read from the stencil: the
// raw XML block plus the metadata the compositor needs to decide how
// to clone it.
type Shape struct {
	Tag  string
	Raw  []byte
	Name string // designer-assigned name from p:cNvPr
	Text string // concatenated literal run text

	// Bounding box in EMU, valid when HasXfrm is true.
	HasXfrm bool
	OffX    int64
	OffY    int64
	ExtCX   int64
	ExtCY   int64
}

// PlaceholderField classifies an image target shape: a reserved name
// containing PHOTO/FOTO or LOGO, or literal text that is a bare
// marker (with or without braces). Returns false for ordinary shapes.
func (s *Shape) PlaceholderField() (domain.Field, bool) {
	name := strings.ToUpper(s.Name)
	if strings.Contains(name, "PHOTO") || strings.Contains(name, "FOTO") {
		return domain.FieldPhoto, true
	}
	if strings.Contains(name, "LOGO") {
		return domain.FieldLogo, true
	}

	text := strings.ToUpper(strings.TrimSpace(s.Text))
	text = strings.TrimPrefix(text, "{")
	text = strings.TrimSuffix(text, "}")
	switch text {
	case "PHOTO", "FOTO":
		return domain.FieldPhoto, true
	case "LOGO":
		return domain.FieldLogo, true
	}

	return "", false
}

// namedTextBoxes maps the reserved designer box names to the token
// text rendered into them. Templates authored with named boxes instead
// of inline tokens get the same substitution.
var namedTextBoxes = map[string]string{
	"DANE_OSOBOWE": domain.Token(domain.FieldFirstName) + " " + domain.Token(domain.FieldLastName),
	"FIRMA_BOX":    domain.Token(domain.FieldCompany),
	"SKALA_BOX":    domain.Token(domain.FieldScale),
	"OPIS_BOX":     domain.Token(domain.FieldDescription),
}

// NamedTextToken returns the token text a reserved box name stands
// for, or false for ordinary shape names.
func (s *Shape) NamedTextToken() (string, bool) {
	tok, ok := namedTextBoxes[strings.ToUpper(strings.TrimSpace(s.Name))]
	return tok, ok
}

// AspectRatio returns width/height of the bounding box.
func (s *Shape) AspectRatio() float64 {
	if !s.HasXfrm || s.ExtCY == 0 {
		return 0
	}
	return float64(s.ExtCX) / float64(s.ExtCY)
}

// tagBoundary reports whether the byte after a tag name terminates it
// ("<p:sp" must not match "<p:spPr").
func tagBoundary(c byte) bool {
	switch c {
	case ' ', '>', '/', '\t', '\r', '\n':
		return true
	}
	return false
}

// findOpenTag locates the next occurrence of <tag with a proper name
// boundary, starting at from. Returns -1 when absent.
func findOpenTag(data []byte, tag string, from int) int {
	needle := []byte("<" + tag)
	for {
		i := bytes.Index(data[from:], needle)
		if i < 0 {
			return -1
		}
		pos := from + i
		after := pos + len(needle)
		if after >= len(data) || tagBoundary(data[after]) {
			return pos
		}
		from = pos + 1
	}
}

// closeOfTag returns the end index (exclusive) of the element opening
// at start, handling self-closing elements and nested same-name
// children. Returns -1 on malformed input.
func closeOfTag(data []byte, tag string, start int) int {
	gt := bytes.IndexByte(data[start:], '>')
	if gt < 0 {
		return -1
	}
	openEnd := start + gt + 1
	if data[openEnd-2] == '/' {
		return openEnd // self-closing
	}

	closeNeedle := []byte("</" + tag + ">")
	depth := 1
	pos := openEnd
	for depth > 0 {
		nextOpen := findOpenTag(data, tag, pos)
		nextClose := bytes.Index(data[pos:], closeNeedle)
		if nextClose < 0 {
			return -1
		}
		nextClose += pos

		if nextOpen >= 0 && nextOpen < nextClose {
			// Nested element; self-closing ones do not raise depth.
			gt := bytes.IndexByte(data[nextOpen:], '>')
			if gt < 0 {
				return -1
			}
			end := nextOpen + gt + 1
			if data[end-2] != '/' {
				depth++
			}
			pos = end
			continue
		}

		depth--
		pos = nextClose + len(closeNeedle)
	}
	return pos
}

// nextShapeBlock finds the earliest shape element at or after from.
func nextShapeBlock(data []byte, from int) (tag string, start, end int, ok bool) {
	start = -1
	for _, t := range shapeTags {
		if i := findOpenTag(data, t, from); i >= 0 && (start < 0 || i < start) {
			start = i
			tag = t
		}
	}
	if start < 0 {
		return "", 0, 0, false
	}
	end = closeOfTag(data, tag, start)
	if end < 0 {
		return "", 0, 0, false
	}
	return tag, start, end, true
}

var (
	cNvPrNameRe = regexp.MustCompile(`<p:cNvPr[^>]*?\sname="([^"]*)"`)
	runTextRe   = regexp.MustCompile(`<a:t>([^<]*)</a:t>`)
	offAttrRe   = regexp.MustCompile(`<a:off[^>]*?\sx="(-?\d+)"[^>]*?\sy="(-?\d+)"`)
	extAttrRe   = regexp.MustCompile(`<a:ext[^>]*?\scx="(\d+)"[^>]*?\scy="(\d+)"`)
)

// parseShape reads the compositor-relevant metadata out of one raw
// shape block.
func parseShape(tag string, raw []byte) Shape {
	s := Shape{Tag: tag, Raw: raw}

	if m := cNvPrNameRe.FindSubmatch(raw); m != nil {
		s.Name = xmlUnescape(string(m[1]))
	}

	var text strings.Builder
	for _, m := range runTextRe.FindAllSubmatch(raw, -1) {
		text.WriteString(xmlUnescape(string(m[1])))
	}
	s.Text = text.String()

	if om := offAttrRe.FindSubmatch(raw); om != nil {
		if em := extAttrRe.FindSubmatch(raw); em != nil {
			s.OffX, _ = strconv.ParseInt(string(om[1]), 10, 64)
			s.OffY, _ = strconv.ParseInt(string(om[2]), 10, 64)
			s.ExtCX, _ = strconv.ParseInt(string(em[1]), 10, 64)
			s.ExtCY, _ = strconv.ParseInt(string(em[2]), 10, 64)
			s.HasXfrm = s.ExtCX > 0 && s.ExtCY > 0
		}
	}

	return s
}

// splitSlide cuts a slide part into prolog (everything before the
// first shape, including the spTree bookkeeping elements), the shape
// blocks, and epilog (everything after the last shape).
func splitSlide(slideXML []byte) (prolog []byte, shapes []Shape, epilog []byte) {
	treeStart := findOpenTag(slideXML, "p:spTree", 0)
	treeEnd := bytes.Index(slideXML, []byte("</p:spTree>"))
	if treeStart < 0 || treeEnd < 0 {
		return slideXML, nil, nil
	}

	pos := treeStart
	// Skip past the spTree open tag before scanning for children.
	if gt := bytes.IndexByte(slideXML[treeStart:], '>'); gt >= 0 {
		pos = treeStart + gt + 1
	}

	cursor := pos
	for {
		tag, start, end, ok := nextShapeBlock(slideXML[:treeEnd], cursor)
		if !ok {
			break
		}
		if len(shapes) == 0 {
			prolog = slideXML[:start]
		}
		shapes = append(shapes, parseShape(tag, slideXML[start:end]))
		cursor = end
	}

	if len(shapes) == 0 {
		return slideXML[:treeEnd], nil, slideXML[treeEnd:]
	}
	return prolog, shapes, slideXML[cursor:]
}
