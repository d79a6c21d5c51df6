package deck

import (
	"bytes"
	"fmt"
)

// BuildPicture renders a p:pic element stretching the image behind
// relID over the given bounding box. Coordinates are EMU.
func BuildPicture(shapeID int, name, relID string, x, y, cx, cy int64) []byte {
	var b bytes.Buffer
	b.WriteString(`<p:pic><p:nvPicPr>`)
	fmt.Fprintf(&b, `<p:cNvPr id="%d" name="%s"/>`, shapeID, xmlEscape(name))
	b.WriteString(`<p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, xmlEscape(relID))
	b.WriteString(`<p:spPr><a:xfrm>`)
	fmt.Fprintf(&b, `<a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/>`, x, y, cx, cy)
	b.WriteString(`</a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
	return b.Bytes()
}

// BuildFallbackText renders a centered gray italic caption shape used
// when an image asset cannot be found for a placeholder.
func BuildFallbackText(shapeID int, name, text string, x, y, cx, cy int64) []byte {
	var b bytes.Buffer
	b.WriteString(`<p:sp><p:nvSpPr>`)
	fmt.Fprintf(&b, `<p:cNvPr id="%d" name="%s"/>`, shapeID, xmlEscape(name))
	b.WriteString(`<p:cNvSpPr/><p:nvPr/></p:nvSpPr>`)
	b.WriteString(`<p:spPr><a:xfrm>`)
	fmt.Fprintf(&b, `<a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/>`, x, y, cx, cy)
	b.WriteString(`</a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr anchor="ctr"/><a:lstStyle/><a:p><a:pPr algn="ctr"/>`)
	b.WriteString(`<a:r><a:rPr lang="pl-PL" sz="1200" i="1" dirty="0"><a:solidFill><a:srgbClr val="808080"/></a:solidFill></a:rPr>`)
	b.WriteString(`<a:t>`)
	xmlEscapeTo(&b, text)
	b.WriteString(`</a:t></a:r></a:p></p:txBody></p:sp>`)
	return b.Bytes()
}
