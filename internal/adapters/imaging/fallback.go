package imaging

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// GrayBox renders a solid gray rectangle with a centered label, used
// in place of a photo whose file is missing from the archive. The
// result is PNG bytes sized to the placeholder's pixel dimensions.
func GrayBox(width, height int, label string) ([]byte, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB255(189, 189, 189)
	dc.Clear()

	if label != "" && width >= 40 && height >= 16 {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetRGB255(66, 66, 66)
		dc.DrawStringAnchored(label, float64(width)/2, float64(height)/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode fallback box: %w", err)
	}
	return buf.Bytes(), nil
}
