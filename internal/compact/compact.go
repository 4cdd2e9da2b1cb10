// Package compact shrinks oversized embedded images to fit a per-item
// byte budget. Compaction never fails: an image that cannot be decoded
// degrades to no image rather than blocking the write that carries it.
package compact

import (
	"bytes"
	"image"
	"image/jpeg"

	_ "image/gif" // register decoders for the formats pages may embed
	_ "image/png"

	"golang.org/x/image/draw"

	"studyvault/internal/model"
)

// Compactor re-encodes images down a JPEG quality ladder.
type Compactor struct {
	startQuality int
	qualityStep  int
	minQuality   int
}

// NewCompactor creates a Compactor with the given quality ladder.
// Qualities are JPEG quality values in 1-100; the ladder starts at
// startQuality and steps down by qualityStep until minQuality.
func NewCompactor(startQuality, qualityStep, minQuality int) *Compactor {
	if startQuality <= 0 {
		startQuality = 60
	}
	if qualityStep <= 0 {
		qualityStep = 10
	}
	if minQuality <= 0 {
		minQuality = 30
	}
	// A ladder that starts below its floor would never encode at all.
	if startQuality < minQuality {
		startQuality = minQuality
	}
	return &Compactor{
		startQuality: startQuality,
		qualityStep:  qualityStep,
		minQuality:   minQuality,
	}
}

// Compact returns an image whose encoded size is at most maxBytes.
//
// An image already within budget is returned unchanged, so compacting
// twice is a no-op. Otherwise the image is downscaled to maxWidthPx
// (aspect preserved) and re-encoded as JPEG at decreasing quality. If
// the floor quality still overshoots, the encoding is hard-truncated
// and the result flagged degraded. An undecodable image degrades to
// the zero image, also flagged.
func (c *Compactor) Compact(img model.Image, maxBytes, maxWidthPx int) (model.Image, bool) {
	if img.IsZero() {
		return img, false
	}
	if len(img.Data) <= maxBytes {
		return img, false
	}

	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return model.Image{}, true
	}

	src = downscale(src, maxWidthPx)

	var encoded []byte
	for q := c.startQuality; q >= c.minQuality; q -= c.qualityStep {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: q}); err != nil {
			return model.Image{}, true
		}
		encoded = buf.Bytes()
		if len(encoded) <= maxBytes {
			return model.Image{MimeType: "image/jpeg", Data: encoded}, false
		}
	}

	// Floor quality still over budget: truncate as a last resort and
	// flag the record so the caller knows the image is unusable as-is.
	if len(encoded) > maxBytes {
		encoded = encoded[:maxBytes]
	}
	return model.Image{MimeType: "image/jpeg", Data: encoded, Degraded: true}, true
}

// downscale scales src so its width is at most maxWidth, preserving
// aspect ratio. Images already narrow enough are returned as-is.
func downscale(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || w <= maxWidth {
		return src
	}

	newW := maxWidth
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
