package detection

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	previewLineWidth  = 3
	previewCornerSize = 20
)

var (
	previewBoxColor    = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	previewCornerColor = color.RGBA{R: 220, G: 0, B: 0, A: 255}
)

// PreviewOverlay renders the detected content rectangle onto a copy of the
// image for visual inspection: a green outline with red corner ticks. When
// bounds is nil (the detector declined) the copy is returned unmarked.
func PreviewOverlay(img image.Image, bounds *Bounds) *image.RGBA {
	src := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), img, src.Min, draw.Src)

	if bounds == nil {
		return out
	}

	r := bounds.Rect()
	drawRectOutline(out, r, previewLineWidth, previewBoxColor)
	drawCornerTicks(out, r, previewCornerSize, previewLineWidth, previewCornerColor)
	return out
}

// drawRectOutline paints a rectangle border of the given thickness, clipped
// to the image.
func drawRectOutline(img *image.RGBA, r image.Rectangle, width int, c color.RGBA) {
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width)
	bottom := image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y)
	right := image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y)

	for _, side := range []image.Rectangle{top, bottom, left, right} {
		fillRect(img, side, c)
	}
}

// drawCornerTicks paints L-shaped markers at each corner of the rectangle.
func drawCornerTicks(img *image.RGBA, r image.Rectangle, size, width int, c color.RGBA) {
	corners := []struct {
		h, v image.Rectangle
	}{
		{ // top-left
			h: image.Rect(r.Min.X, r.Min.Y, r.Min.X+size, r.Min.Y+width),
			v: image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Min.Y+size),
		},
		{ // top-right
			h: image.Rect(r.Max.X-size, r.Min.Y, r.Max.X, r.Min.Y+width),
			v: image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Min.Y+size),
		},
		{ // bottom-left
			h: image.Rect(r.Min.X, r.Max.Y-width, r.Min.X+size, r.Max.Y),
			v: image.Rect(r.Min.X, r.Max.Y-size, r.Min.X+width, r.Max.Y),
		},
		{ // bottom-right
			h: image.Rect(r.Max.X-size, r.Max.Y-width, r.Max.X, r.Max.Y),
			v: image.Rect(r.Max.X-width, r.Max.Y-size, r.Max.X, r.Max.Y),
		},
	}

	for _, corner := range corners {
		fillRect(img, corner.h, c)
		fillRect(img, corner.v, c)
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}
