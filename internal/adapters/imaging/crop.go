package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// subImager is satisfied by every stdlib image type.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CropToAspect center-crops an encoded image to the target aspect
// ratio so it fills a placeholder box without stretching (the
// object-fit: cover behavior). Images larger than maxEdge on either
// side are scaled down to keep the generated deck small; maxEdge <= 0
// disables scaling. Returns the re-encoded bytes plus the format
// ("jpeg" or "png").
func CropToAspect(data []byte, targetRatio float64, maxEdge int) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, "", fmt.Errorf("image has zero size")
	}
	if targetRatio <= 0 {
		targetRatio = float64(w) / float64(h)
	}

	crop := cropRect(bounds, targetRatio)
	cropped := src
	if crop != bounds {
		si, ok := src.(subImager)
		if !ok {
			return nil, "", fmt.Errorf("image type %T does not support cropping", src)
		}
		cropped = si.SubImage(crop)
	}

	out := scaleDown(cropped, maxEdge)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 90}); err != nil {
			return nil, "", fmt.Errorf("failed to encode jpeg: %w", err)
		}
		return buf.Bytes(), "jpeg", nil
	default:
		if err := png.Encode(&buf, out); err != nil {
			return nil, "", fmt.Errorf("failed to encode png: %w", err)
		}
		return buf.Bytes(), "png", nil
	}
}

// cropRect computes the centered crop window for the target ratio.
func cropRect(bounds image.Rectangle, targetRatio float64) image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	ratio := float64(w) / float64(h)

	if ratio > targetRatio {
		// Too wide: trim the sides
		newW := int(targetRatio * float64(h))
		left := bounds.Min.X + (w-newW)/2
		return image.Rect(left, bounds.Min.Y, left+newW, bounds.Max.Y)
	}

	// Too tall: trim top and bottom
	newH := int(float64(w) / targetRatio)
	top := bounds.Min.Y + (h-newH)/2
	return image.Rect(bounds.Min.X, top, bounds.Max.X, top+newH)
}

// scaleDown resamples the image so neither edge exceeds maxEdge.
func scaleDown(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return src
	}

	scale := float64(maxEdge) / float64(w)
	if h > w {
		scale = float64(maxEdge) / float64(h)
	}
	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
