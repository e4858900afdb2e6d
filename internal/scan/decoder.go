// Package scan extracts a 13-digit ISBN from a photograph of a book's
// barcode. Symbol decoding is tried across a waterfall of image variants
// before an optional vision-model fallback.
package scan

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
)

// Decoder reads a linear barcode symbol from a single image variant.
type Decoder interface {
	// Decode returns the 13-digit payload of the first EAN-13 symbol found.
	Decode(img image.Image) (string, bool)

	// Available reports whether decode capability exists at all. Callers may
	// check it to distinguish a permanent "not found" from a transient miss.
	Available() bool
}

// EAN13Decoder decodes EAN-13 symbols with the zxing port. Decoding is
// best-effort per variant: every library error is treated as "not found".
type EAN13Decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

func NewEAN13Decoder() *EAN13Decoder {
	return &EAN13Decoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

func (d *EAN13Decoder) Available() bool { return true }

func (d *EAN13Decoder) Decode(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	result, err := oned.NewEAN13Reader().Decode(bmp, d.hints)
	if err != nil {
		return "", false
	}

	text := result.GetText()
	if len(text) != 13 {
		return "", false
	}
	return text, true
}
