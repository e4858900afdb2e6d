package scan

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Variant is one transformed copy of the source photograph, tried in order
// by the cascade.
type Variant struct {
	Name  string
	Image image.Image
}

// Variants produces the fixed decode waterfall for a source image. Cheap,
// likely-successful transforms come first; the center-crop variants come
// before the rotated ones because a handheld phone photo usually centers the
// barcode and the crop removes price stickers and shelf edges that cause
// false negatives. This is a curated list, not an adaptive search.
func Variants(src image.Image) []Variant {
	gray := imaging.Grayscale(src)
	bin := binarize(gray)

	bounds := src.Bounds()
	cropW, cropH := bounds.Dx()/2, bounds.Dy()/2
	cropGray := imaging.CropCenter(gray, cropW, cropH)

	// Rotate270 in imaging terms is 90 degrees clockwise.
	rotGray := imaging.Rotate270(gray)

	return []Variant{
		{Name: "original", Image: src},
		{Name: "gray", Image: gray},
		{Name: "binary", Image: bin},
		{Name: "crop-gray", Image: cropGray},
		{Name: "crop-binary", Image: binarize(cropGray)},
		{Name: "rot90-gray", Image: rotGray},
		{Name: "rot90-binary", Image: binarize(rotGray)},
	}
}

// binarize applies a global threshold chosen by Otsu's method.
func binarize(src image.Image) *image.Gray {
	g := toGray(src)
	threshold := otsuThreshold(g)

	out := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		if v > threshold {
			out.Pix[i] = 255
		} else {
			out.Pix[i] = 0
		}
	}
	return out
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	bounds := src.Bounds()
	g := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return g
}

// otsuThreshold picks the threshold that maximizes between-class variance
// over the grayscale histogram.
func otsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}

	total := len(g.Pix)
	if total == 0 {
		return 128
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var maxVariance float64
	var threshold uint8

	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])

		mB := sumB / wB
		mF := (sum - sumB) / wF
		variance := wB * wF * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			threshold = uint8(i)
		}
	}

	return threshold
}
