package deck

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OOXML relationship type URIs the compositor cares about.
const (
	relTypeSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeImage      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
)

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationshipsXML struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []Relationship `xml:"Relationship"`
}

// parseRels decodes a .rels part.
func parseRels(data []byte) ([]Relationship, error) {
	var doc relationshipsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return doc.Rels, nil
}

// renderRels serializes a .rels part. Written by hand rather than via
// xml.Marshal so the namespace comes out exactly as PowerPoint emits
// it.
func renderRels(rels []Relationship) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		b.WriteString(`<Relationship Id="`)
		xmlEscapeTo(&b, r.ID)
		b.WriteString(`" Type="`)
		xmlEscapeTo(&b, r.Type)
		b.WriteString(`" Target="`)
		xmlEscapeTo(&b, r.Target)
		b.WriteString(`"`)
		if r.TargetMode != "" {
			b.WriteString(` TargetMode="`)
			xmlEscapeTo(&b, r.TargetMode)
			b.WriteString(`"`)
		}
		b.WriteString(`/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.Bytes()
}

var relIDNumRe = regexp.MustCompile(`^rId(\d+)$`)

// nextRelID returns the first free rId after the highest numeric one.
func nextRelID(rels []Relationship) int {
	max := 0
	for _, r := range rels {
		if m := relIDNumRe.FindStringSubmatch(r.ID); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// relsPathFor maps a part path to its .rels sibling, e.g.
// ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels.
func relsPathFor(partPath string) string {
	dir := ""
	base := partPath
	if i := strings.LastIndex(partPath, "/"); i >= 0 {
		dir = partPath[:i+1]
		base = partPath[i+1:]
	}
	return dir + "_rels/" + base + ".rels"
}

// resolveTarget resolves a relationship target relative to the part
// that owns the .rels file, e.g. base ppt, target slides/slide1.xml
// -> ppt/slides/slide1.xml.
func resolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	for strings.HasPrefix(target, "../") {
		target = strings.TrimPrefix(target, "../")
		if i := strings.LastIndex(baseDir, "/"); i >= 0 {
			baseDir = baseDir[:i]
		} else {
			baseDir = ""
		}
	}
	if baseDir == "" {
		return target
	}
	return baseDir + "/" + target
}

// xmlEscapeTo writes s with XML special characters escaped.
func xmlEscapeTo(b *bytes.Buffer, s string) {
	_ = xml.EscapeText(b, []byte(s))
}

// xmlEscape returns s with XML special characters escaped.
func xmlEscape(s string) string {
	var b bytes.Buffer
	xmlEscapeTo(&b, s)
	return b.String()
}

// xmlUnescape undoes the five predefined XML entities.
var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func xmlUnescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return xmlUnescaper.Replace(s)
}
