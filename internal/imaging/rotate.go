package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Rotate rotates an image clockwise by the given angle in degrees.
//
// The angle is normalized into [0,360); a zero angle returns an unmodified
// copy. Rotation uses Lanczos-quality resampling and expands the canvas to
// hold the rotated image, filling the exposed corners with transparency.
func Rotate(img image.Image, angle float64) (*image.NRGBA, error) {
	if err := ValidateImage(img); err != nil {
		return nil, err
	}

	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	if angle == 0 {
		return imaging.Clone(img), nil
	}

	// imaging rotates counter-clockwise for positive angles.
	return imaging.Rotate(img, -angle, color.Transparent), nil
}

// Thumbnail scales an image down to fit within maxWidth x maxHeight while
// preserving aspect ratio. Images already within the bounds are returned as
// an unmodified copy.
func Thumbnail(img image.Image, maxWidth, maxHeight int) (*image.NRGBA, error) {
	if err := ValidateImage(img); err != nil {
		return nil, err
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos), nil
}

// CropRegion extracts a copy of the rectangle r, given in the image's local
// coordinate space with (0,0) at the top-left pixel.
func CropRegion(img image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, r.Add(img.Bounds().Min))
}
