package imaging

import (
	"fmt"
	"image"
)

// Grid size limits. A 1x1 grid is also rejected since it would split nothing.
const (
	MinGridCount = 1
	MaxGridCount = 18
)

// InvalidGridError reports a grid specification outside the supported range.
//
// Callers should re-prompt for new row/column counts; the error is not fatal
// to a batch.
type InvalidGridError struct {
	Rows int
	Cols int
}

func (e *InvalidGridError) Error() string {
	if e.Rows == 1 && e.Cols == 1 {
		return "invalid grid: 1x1 grid would not split the image"
	}
	return fmt.Sprintf("invalid grid: rows and cols must be in [%d,%d], got %dx%d",
		MinGridCount, MaxGridCount, e.Rows, e.Cols)
}

// InvalidImageError reports an image that cannot be processed at all:
// a nil image or one with zero or negative dimensions.
//
// Batch callers should skip the offending file, log it, and continue.
type InvalidImageError struct {
	Width  int
	Height int
	Reason string
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image (%dx%d): %s", e.Width, e.Height, e.Reason)
}

// ValidateImage checks that img is usable by the splitter and detector.
// Returns an *InvalidImageError describing the problem, or nil.
func ValidateImage(img image.Image) error {
	if img == nil {
		return &InvalidImageError{Reason: "nil image"}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return &InvalidImageError{Width: b.Dx(), Height: b.Dy(), Reason: "empty image"}
	}
	return nil
}
