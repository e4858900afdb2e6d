package scan

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// Cascade orchestrates symbol decoding across the variant waterfall, then an
// optional vision-model fallback. Symbol decoding is cheap and deterministic,
// so it is exhausted over every transform before paying for a network call.
type Cascade struct {
	decoder Decoder
}

func NewCascade(decoder Decoder) *Cascade {
	return &Cascade{decoder: decoder}
}

// Decode attempts to read a 13-digit ISBN from src. The first variant to
// yield a symbol wins and remaining variants are never tried. When every
// variant fails and vision is non-nil, the original image is submitted to the
// model exactly once. Diagnostics describe swallowed failures; they are
// informational only.
func (c *Cascade) Decode(ctx context.Context, src image.Image, vision VisionReader) (string, []string, bool) {
	var diags []string

	if c.decoder.Available() {
		for _, v := range Variants(src) {
			if isbn, ok := c.decoder.Decode(v.Image); ok {
				slog.Debug("Barcode decoded", "variant", v.Name, "isbn", isbn)
				return isbn, diags, true
			}
		}
		diags = append(diags, "no variant produced a symbol")
	} else {
		diags = append(diags, "barcode decoding unavailable")
	}

	if vision == nil {
		return "", diags, false
	}

	text, err := vision.ReadDigits(ctx, src)
	if err != nil {
		slog.Warn("Vision fallback failed", "err", err)
		diags = append(diags, fmt.Sprintf("vision fallback: %v", err))
		return "", diags, false
	}

	isbn, ok := ExtractISBN(text)
	if !ok {
		diags = append(diags, "vision output contained no usable ISBN")
		return "", diags, false
	}

	slog.Info("Barcode read via vision fallback", "isbn", isbn)
	return isbn, diags, true
}
