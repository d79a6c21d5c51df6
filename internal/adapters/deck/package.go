package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Package is a pptx file opened as its underlying zip of OOXML parts.
// Part order is preserved so the serialized output stays stable and
// diff-friendly; new parts are appended.
type Package struct {
	names []string
	parts map[string][]byte
}

// OpenPackage reads every part of a pptx template into memory.
func OpenPackage(data []byte) (*Package, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}

	pkg := &Package{parts: make(map[string][]byte)}
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", file.Name, err)
		}
		pkg.names = append(pkg.names, file.Name)
		pkg.parts[file.Name] = content
	}

	if _, ok := pkg.parts["ppt/presentation.xml"]; !ok {
		return nil, fmt.Errorf("not a presentation: ppt/presentation.xml missing")
	}

	return pkg, nil
}

// Part returns the content of a named part.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

// SetPart adds or replaces a part, preserving the original position
// for replacements.
func (p *Package) SetPart(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// Names returns the part names in serialization order.
func (p *Package) Names() []string {
	return p.names
}

// Bytes serializes the package back into a pptx byte stream.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range p.names {
		f, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if _, err := f.Write(p.parts[name]); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize package: %w", err)
	}
	return buf.Bytes(), nil
}
