package deck

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"katgen/internal/adapters/imaging"
	"katgen/internal/core/domain"
	"katgen/internal/core/ports"
	"katgen/pkg/config"
)

const emuPerPixel = 9525

// Fallback captions for unresolved image placeholders.
const (
	missingPhotoText = "Brak zdjęcia"
	missingLogoText  = "Brak logo"
	grayBoxLabel     = "brak pliku"
)

// Options control asset matching, fallback rendering and description
// shrinking for a compose run.
type Options struct {
	Text                 TextOptions
	FallbackStyle        string
	MatchIgnoreExtension bool
	DerivePhotoNames     bool
	MaxImageEdge         int
}

// OptionsFromConfig maps the user configuration onto compose options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Text: TextOptions{
			ShrinkMidThreshold: cfg.ShrinkMidThreshold,
			ShrinkMidSize:      cfg.ShrinkMidSize,
			ShrinkMaxThreshold: cfg.ShrinkMaxThreshold,
			ShrinkMaxSize:      cfg.ShrinkMaxSize,
		},
		FallbackStyle:        cfg.FallbackStyle,
		MatchIgnoreExtension: cfg.MatchIgnoreExtension,
		DerivePhotoNames:     cfg.DerivePhotoNames,
		MaxImageEdge:         cfg.MaxImageEdge,
	}
}

// PPTXCompositor clones the template's first slide once per record,
// working directly on the OOXML parts.
type PPTXCompositor struct {
	opts Options
}

var _ ports.Compositor = (*PPTXCompositor)(nil)

func NewPPTXCompositor(opts Options) *PPTXCompositor {
	return &PPTXCompositor{opts: opts}
}

var (
	slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	mediaPartRe = regexp.MustCompile(`^ppt/media/image(\d+)\.[A-Za-z0-9]+$`)
	cNvPrIDRe   = regexp.MustCompile(`<p:cNvPr[^>]*?\sid="(\d+)"`)
)

func maxPartNumber(pkg *Package, re *regexp.Regexp) int {
	max := 0
	for _, name := range pkg.Names() {
		if m := re.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return max
}

// maxShapeID finds the highest p:cNvPr id used by the stencil so new
// picture shapes get non-colliding ids.
func maxShapeID(st *Stencil) int {
	max := 1
	scan := func(data []byte) {
		for _, m := range cNvPrIDRe.FindAllSubmatch(data, -1) {
			if n, err := strconv.Atoi(string(m[1])); err == nil && n > max {
				max = n
			}
		}
	}
	scan(st.Prolog)
	for _, s := range st.Shapes {
		scan(s.Raw)
	}
	return max
}

// Compose implements ports.Compositor.
func (c *PPTXCompositor) Compose(ctx context.Context, template []byte, records []domain.Record, assets *domain.AssetIndex, onSlide func(done, total int)) ([]byte, error) {
	pkg, err := OpenPackage(template)
	if err != nil {
		return nil, err
	}

	pres, err := parsePresentation(pkg)
	if err != nil {
		return nil, err
	}

	stencil, err := readStencil(pkg, pres)
	if err != nil {
		return nil, err
	}

	state := &composeState{
		pkg:        pkg,
		pres:       pres,
		stencil:    stencil,
		assets:     assets,
		opts:       c.opts,
		slideNum:   maxPartNumber(pkg, slidePartRe),
		mediaNum:   maxPartNumber(pkg, mediaPartRe),
		sldID:      pres.maxSlideID(),
		presRelNum: nextRelID(pres.rels),
		baseShape:  maxShapeID(stencil),
		imageExts:  make(map[string]bool),
	}

	total := len(records)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := state.addSlide(rec); err != nil {
			return nil, fmt.Errorf("failed to build slide for %s: %w", rec.FullName(), err)
		}
		if onSlide != nil {
			onSlide(i+1, total)
		}
	}

	state.finish()

	return pkg.Bytes()
}

// composeState carries the counters and accumulated parts of one
// compose run.
type composeState struct {
	pkg     *Package
	pres    *presentation
	stencil *Stencil
	assets  *domain.AssetIndex
	opts    Options

	slideNum   int
	mediaNum   int
	sldID      int
	presRelNum int
	baseShape  int

	clones     []slideRef
	slidePaths []string
	imageExts  map[string]bool
}

// addSlide clones the stencil for one record and registers the new
// part, its rels and its presentation entry.
func (s *composeState) addSlide(rec domain.Record) error {
	s.slideNum++
	path := fmt.Sprintf("ppt/slides/slide%d.xml", s.slideNum)

	rels := make([]Relationship, len(s.stencil.Rels))
	copy(rels, s.stencil.Rels)

	build := &slideBuild{state: s, rec: rec, rels: rels, shapeID: s.baseShape}

	var body bytes.Buffer
	body.Write(s.stencil.Prolog)
	for _, shape := range s.stencil.Shapes {
		body.Write(build.renderShape(&shape))
	}
	body.Write(s.stencil.Epilog)

	s.pkg.SetPart(path, body.Bytes())
	s.pkg.SetPart(relsPathFor(path), renderRels(build.rels))

	presRelID := fmt.Sprintf("rId%d", s.presRelNum)
	s.presRelNum++
	s.pres.rels = append(s.pres.rels, Relationship{
		ID:     presRelID,
		Type:   relTypeSlide,
		Target: fmt.Sprintf("slides/slide%d.xml", s.slideNum),
	})

	s.sldID++
	s.clones = append(s.clones, slideRef{ID: s.sldID, RelID: presRelID})
	s.slidePaths = append(s.slidePaths, path)
	return nil
}

// finish drops the stencil from the slide list, appends the clones in
// record order and writes the bookkeeping parts back.
func (s *composeState) finish() {
	keep := make([]slideRef, 0, len(s.pres.slides)-1+len(s.clones))
	keep = append(keep, s.pres.slides[1:]...)
	keep = append(keep, s.clones...)

	s.pkg.SetPart(presPath, s.pres.render(keep))
	s.pkg.SetPart(presRelsPath, renderRels(s.pres.rels))

	// Best effort; a template whose content types part resists the
	// edit still produces a deck most viewers repair on open.
	_ = registerContentTypes(s.pkg, s.slidePaths, s.imageExts)
}

// slideBuild renders the shapes of a single cloned slide.
type slideBuild struct {
	state   *composeState
	rec     domain.Record
	rels    []Relationship
	shapeID int
}

func (b *slideBuild) nextShapeID() int {
	b.shapeID++
	return b.shapeID
}

// renderShape produces the output block for one stencil shape. A
// failure while rendering any single shape falls back to the stencil
// bytes so one bad shape cannot sink the whole slide.
func (b *slideBuild) renderShape(shape *Shape) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			out = shape.Raw
		}
	}()

	if field, ok := shape.PlaceholderField(); ok {
		return b.renderPlaceholder(shape, field)
	}

	value := func(f domain.Field) string {
		v := b.rec.Display(f)
		if f == domain.FieldDescription {
			v = domain.ApplyNonBreakingSpaces(v)
		}
		return v
	}

	// Reserved box names carry no inline tokens; inject the token the
	// name stands for so the regular path fills and shrinks the box.
	if tok, ok := shape.NamedTextToken(); ok && !domain.ContainsAnyToken(shape.Text) {
		if replaced, changed := SubstituteShapeText(setShapeText(shape.Raw, tok), value, b.state.opts.Text); changed {
			return replaced
		}
	}

	if replaced, changed := SubstituteShapeText(shape.Raw, value, b.state.opts.Text); changed {
		return replaced
	}
	return shape.Raw
}

// renderPlaceholder resolves the declared asset for a photo or logo
// placeholder and replaces the shape with a picture, or with the
// configured fallback when the asset is missing or unreadable.
func (b *slideBuild) renderPlaceholder(shape *Shape, field domain.Field) []byte {
	if !shape.HasXfrm {
		// No box to place a picture into; still clear the marker text.
		return setShapeText(shape.Raw, fallbackCaption(field))
	}

	data, ok := b.resolveAsset(field)
	if ok {
		if block, err := b.renderPicture(shape, field, data); err == nil {
			return block
		}
	}
	return b.renderFallback(shape, field)
}

// resolveAsset finds the image bytes for the record's declared
// filename, honoring the loose-extension convention and the derived
// photo name lookup when enabled.
func (b *slideBuild) resolveAsset(field domain.Field) ([]byte, bool) {
	declared := strings.TrimSpace(b.rec.Value(field))
	opts := b.state.opts

	if declared != "" {
		if data, ok := b.state.assets.Lookup(declared); ok {
			return data, true
		}
		if opts.MatchIgnoreExtension {
			if data, ok := b.state.assets.LookupLoose(declared); ok {
				return data, true
			}
		}
	}

	if field == domain.FieldPhoto && opts.DerivePhotoNames {
		if derived := b.rec.DerivedPhotoName(); derived != "" {
			if data, ok := b.state.assets.LookupLoose(derived); ok {
				return data, true
			}
		}
	}

	return nil, false
}

func (b *slideBuild) renderPicture(shape *Shape, field domain.Field, data []byte) ([]byte, error) {
	cropped, format, err := imaging.CropToAspect(data, shape.AspectRatio(), b.state.opts.MaxImageEdge)
	if err != nil {
		return nil, err
	}

	ext := "png"
	if format == "jpeg" {
		ext = "jpg"
	}

	b.state.mediaNum++
	mediaPath := fmt.Sprintf("ppt/media/image%d.%s", b.state.mediaNum, ext)
	b.state.pkg.SetPart(mediaPath, cropped)
	b.state.imageExts[ext] = true

	relID := fmt.Sprintf("rId%d", nextRelID(b.rels))
	b.rels = append(b.rels, Relationship{
		ID:     relID,
		Type:   relTypeImage,
		Target: fmt.Sprintf("../media/image%d.%s", b.state.mediaNum, ext),
	})

	name := fmt.Sprintf("%s %s", field, b.rec.FullName())
	return BuildPicture(b.nextShapeID(), name, relID, shape.OffX, shape.OffY, shape.ExtCX, shape.ExtCY), nil
}

func (b *slideBuild) renderFallback(shape *Shape, field domain.Field) []byte {
	if b.state.opts.FallbackStyle == config.FallbackGrayBox {
		w := int(shape.ExtCX / emuPerPixel)
		h := int(shape.ExtCY / emuPerPixel)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		if box, err := imaging.GrayBox(w, h, grayBoxLabel); err == nil {
			if block, err := b.embedFallbackBox(shape, field, box); err == nil {
				return block
			}
		}
	}

	name := fmt.Sprintf("Brak %s", field)
	return BuildFallbackText(b.nextShapeID(), name, fallbackCaption(field), shape.OffX, shape.OffY, shape.ExtCX, shape.ExtCY)
}

func fallbackCaption(field domain.Field) string {
	if field == domain.FieldLogo {
		return missingLogoText
	}
	return missingPhotoText
}

func (b *slideBuild) embedFallbackBox(shape *Shape, field domain.Field, box []byte) ([]byte, error) {
	b.state.mediaNum++
	mediaPath := fmt.Sprintf("ppt/media/image%d.png", b.state.mediaNum)
	b.state.pkg.SetPart(mediaPath, box)
	b.state.imageExts["png"] = true

	relID := fmt.Sprintf("rId%d", nextRelID(b.rels))
	b.rels = append(b.rels, Relationship{
		ID:     relID,
		Type:   relTypeImage,
		Target: fmt.Sprintf("../media/image%d.png", b.state.mediaNum),
	})

	name := fmt.Sprintf("Brak %s", field)
	return BuildPicture(b.nextShapeID(), name, relID, shape.OffX, shape.OffY, shape.ExtCX, shape.ExtCY), nil
}
