package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// GridSpec describes how a sticker sheet is divided into cells.
type GridSpec struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Validate checks the grid against the supported range [1,18] and rejects
// the degenerate 1x1 grid.
func (g GridSpec) Validate() error {
	if g.Rows < MinGridCount || g.Rows > MaxGridCount ||
		g.Cols < MinGridCount || g.Cols > MaxGridCount ||
		(g.Rows == 1 && g.Cols == 1) {
		return &InvalidGridError{Rows: g.Rows, Cols: g.Cols}
	}
	return nil
}

// Cells returns the total number of cells in the grid.
func (g GridSpec) Cells() int {
	return g.Rows * g.Cols
}

// DetectGridType guesses the grid layout of a sheet from its dimensions.
//
// The rule is a closed decision table over the aspect ratio r = width/height:
//   - 0.9 <= r <= 1.1 and min(width,height) >= 300: 3x3 (square-ish sheet)
//   - 1.8 <= r <= 2.2 or 0.45 <= r <= 0.55: 2x2 (2:1 rectangle either way)
//   - anything else: 2x2
//
// Borderline ratios always resolve to 2x2. There is no confidence score.
func DetectGridType(width, height int) GridSpec {
	ratio := 1.0
	if height > 0 {
		ratio = float64(width) / float64(height)
	}

	if ratio >= 0.9 && ratio <= 1.1 && min(width, height) >= 300 {
		return GridSpec{Rows: 3, Cols: 3}
	}
	if (ratio >= 1.8 && ratio <= 2.2) || (ratio >= 0.45 && ratio <= 0.55) {
		return GridSpec{Rows: 2, Cols: 2}
	}
	return GridSpec{Rows: 2, Cols: 2}
}

// SplitLines computes the interior split-line coordinates for a grid.
//
// Horizontal lines are Y coordinates at floor(height/rows * i) for i in
// [1, rows-1]; vertical lines are X coordinates at floor(width/cols * i).
// The outer frame (0 and width/height) is not included.
func SplitLines(g GridSpec, width, height int) (hLines, vLines []int) {
	if g.Rows > 1 {
		step := float64(height) / float64(g.Rows)
		for i := 1; i < g.Rows; i++ {
			hLines = append(hLines, int(step*float64(i)))
		}
	}
	if g.Cols > 1 {
		step := float64(width) / float64(g.Cols)
		for i := 1; i < g.Cols; i++ {
			vLines = append(vLines, int(step*float64(i)))
		}
	}
	return hLines, vLines
}

// CellRects returns the cell rectangles for a grid over a width x height
// image, in row-major order (row 0 left-to-right first).
//
// The rectangles partition the image exactly: boundaries come from
// SplitLines, so the last row and column absorb any remainder pixels from
// integer division.
func CellRects(g GridSpec, width, height int) []image.Rectangle {
	hLines, vLines := SplitLines(g, width, height)

	yCoords := make([]int, 0, g.Rows+1)
	yCoords = append(yCoords, 0)
	yCoords = append(yCoords, hLines...)
	yCoords = append(yCoords, height)

	xCoords := make([]int, 0, g.Cols+1)
	xCoords = append(xCoords, 0)
	xCoords = append(xCoords, vLines...)
	xCoords = append(xCoords, width)

	rects := make([]image.Rectangle, 0, g.Cells())
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			rects = append(rects, image.Rect(xCoords[col], yCoords[row], xCoords[col+1], yCoords[row+1]))
		}
	}
	return rects
}

// Partition splits an image into rows x cols sub-images.
//
// Cells are returned in row-major order and together cover the source image
// exactly once. The source image is never modified; each cell is an
// independent copy.
//
// Returns *InvalidGridError if the grid is out of range (or 1x1), and
// *InvalidImageError for a nil or empty image. There is no other failure
// mode: crops over in-bounds integer rectangles cannot fail.
func Partition(img image.Image, g GridSpec) ([]*image.NRGBA, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateImage(img); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	cells := make([]*image.NRGBA, 0, g.Cells())
	for _, r := range CellRects(g, bounds.Dx(), bounds.Dy()) {
		cells = append(cells, imaging.Crop(img, r.Add(bounds.Min)))
	}
	return cells, nil
}

// PartitionOverlay draws the grid's split lines on a copy of the image for
// preview purposes. Diagnostic only; it has no effect on Partition.
//
// lineColorHex is parsed as "#RRGGBB"; an unparseable value falls back to red.
func PartitionOverlay(img image.Image, g GridSpec, lineColorHex string) (*image.RGBA, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateImage(img); err != nil {
		return nil, err
	}

	lineColor := color.RGBA{255, 0, 0, 255}
	if c, err := colorful.Hex(lineColorHex); err == nil {
		r, gr, b := c.RGB255()
		lineColor = color.RGBA{r, gr, b, 255}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	hLines, vLines := SplitLines(g, width, height)
	for _, x := range vLines {
		for y := 0; y < height; y++ {
			result.Set(x, y, lineColor)
		}
	}
	for _, y := range hLines {
		for x := 0; x < width; x++ {
			result.Set(x, y, lineColor)
		}
	}

	return result, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
