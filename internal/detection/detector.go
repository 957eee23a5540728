package detection

import (
	"image"
	"math"
	"sort"

	"github.com/stickertools/sheet-split-mcp/internal/imaging"
)

// Bounds represents a detected content rectangle in pixel coordinates.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Width is the horizontal extent in pixels.
func (b Bounds) Width() int { return b.X2 - b.X1 }

// Height is the vertical extent in pixels.
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// Rect converts the bounds to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle { return image.Rect(b.X1, b.Y1, b.X2, b.Y2) }

// DetectContentRegion estimates the bounding rectangle of an image's real
// content, excluding a thin uniform or noisy border.
//
// The result is (nil, nil) when the detector declines: evidence was
// insufficient or the candidate would cut too deep on some side. Declining is
// a normal outcome and the caller must use the original image unchanged. The
// returned rectangle, when present, always satisfies X1 < X2, Y1 < Y2 and
// lies within the image bounds.
//
// The only error is *imaging.InvalidImageError for a nil or empty image.
// Detection is deterministic: identical input and Params yield an identical
// result.
func DetectContentRegion(img image.Image, p Params) (*Bounds, error) {
	if err := imaging.ValidateImage(img); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	edges := edgeMap(img, p)
	box := selectContent(findContours(edges), width, height, p)
	if box == nil {
		box = fallbackScan(grayMatrix(img), p)
	}
	if box == nil {
		return nil, nil
	}
	if !validateBox(*box, width, height, p) {
		return nil, nil
	}

	if p.ProtectiveMargin > 0 {
		box = expandBox(*box, width, height, p.ProtectiveMargin)
	}
	return box, nil
}

// selectContent filters contours down to plausible content regions and picks
// the best-scoring survivor. Returns nil when nothing survives.
//
// A sheet border shows up in the edge map as an outline ring, so a contour's
// extent is judged by the area it encloses (its bounding box), not by its
// edge-pixel count. Filtering rejects contours whose enclosed-area ratio
// falls outside the Params bounds, whose bounding box is more elongated than
// MaxAspectRatio, or whose enclosed-area to perimeter ratio is below
// MinComplexity (spindly shapes are stray lines, not stickers).
func selectContent(contours []contour, width, height int, p Params) *Bounds {
	totalArea := float64(width * height)

	var survivors []contour
	for _, c := range contours {
		enclosed := float64(c.Box.Dx() * c.Box.Dy())
		areaRatio := enclosed / totalArea
		if areaRatio < p.MinAreaRatio || areaRatio > p.MaxAreaRatio {
			continue
		}
		if aspectRatio(c.Box) > p.MaxAspectRatio {
			continue
		}
		if c.Perimeter > 0 && enclosed/float64(c.Perimeter) < p.MinComplexity {
			continue
		}
		survivors = append(survivors, c)
	}
	if len(survivors) == 0 {
		return nil
	}

	// Score survivors; ties keep the first-encountered contour (stable).
	best := survivors[0]
	bestScore := scoreContour(survivors[0], width, height, p)
	for _, c := range survivors[1:] {
		if s := scoreContour(c, width, height, p); s > bestScore {
			best = c
			bestScore = s
		}
	}

	return &Bounds{X1: best.Box.Min.X, Y1: best.Box.Min.Y, X2: best.Box.Max.X, Y2: best.Box.Max.Y}
}

// scoreContour rates a candidate by how much of the frame it covers, how
// centered it is, and how square its bounding box is.
func scoreContour(c contour, width, height int, p Params) float64 {
	totalArea := float64(width * height)
	enclosed := float64(c.Box.Dx() * c.Box.Dy())

	areaScore := 1 - math.Abs(enclosed/totalArea-p.TargetAreaRatio)*2
	areaScore = math.Max(0, areaScore)

	cx := float64(c.Box.Min.X+c.Box.Max.X) / 2
	cy := float64(c.Box.Min.Y+c.Box.Max.Y) / 2
	dx := cx - float64(width)/2
	dy := cy - float64(height)/2
	halfDiag := math.Sqrt(float64(width*width+height*height)) / 2
	centerScore := 1 - math.Sqrt(dx*dx+dy*dy)/halfDiag

	aspectScore := 1 - math.Abs(aspectRatio(c.Box)-1)*0.2
	aspectScore = math.Max(0, aspectScore)

	return p.Weights.Area*areaScore + p.Weights.Center*centerScore + p.Weights.Aspect*aspectScore
}

// aspectRatio returns the elongation of a rectangle: longer side over
// shorter side, always >= 1.
func aspectRatio(r image.Rectangle) float64 {
	w := float64(r.Dx())
	h := float64(r.Dy())
	if w == 0 || h == 0 {
		return math.Inf(1)
	}
	return math.Max(w, h) / math.Min(w, h)
}

// fallbackScan locates content boundaries statistically when contour search
// finds nothing usable.
//
// It computes a dispersion value per row and per column (intensity variance
// by default, mean gradient magnitude with UseGradientScan), thresholds at
// the ScanPercentile of those values scaled by ScanSensitivity, then scans
// inward from each of the four edges for the first row/column exceeding the
// threshold. Returns nil when some side never exceeds the threshold, which
// happens on blank or near-uniform images.
func fallbackScan(gray [][]float64, p Params) *Bounds {
	var rowStat, colStat []float64
	if p.UseGradientScan {
		rowStat, colStat = gradientDispersion(gray)
	} else {
		rowStat, colStat = varianceDispersion(gray)
	}

	rowThreshold := percentile(rowStat, p.ScanPercentile) * p.ScanSensitivity
	colThreshold := percentile(colStat, p.ScanPercentile) * p.ScanSensitivity

	top, topFound := scanForward(rowStat, rowThreshold)
	bottom, bottomFound := scanBackward(rowStat, rowThreshold)
	left, leftFound := scanForward(colStat, colThreshold)
	right, rightFound := scanBackward(colStat, colThreshold)

	if !topFound || !bottomFound || !leftFound || !rightFound {
		return nil
	}
	if left >= right || top >= bottom {
		return nil
	}
	return &Bounds{X1: left, Y1: top, X2: right + 1, Y2: bottom + 1}
}

// varianceDispersion computes the intensity variance of each row and column.
func varianceDispersion(gray [][]float64) (rows, cols []float64) {
	height := len(gray)
	width := len(gray[0])

	rows = make([]float64, height)
	for y := 0; y < height; y++ {
		var sum float64
		for x := 0; x < width; x++ {
			sum += gray[y][x]
		}
		mean := sum / float64(width)
		var v float64
		for x := 0; x < width; x++ {
			d := gray[y][x] - mean
			v += d * d
		}
		rows[y] = v / float64(width)
	}

	cols = make([]float64, width)
	for x := 0; x < width; x++ {
		var sum float64
		for y := 0; y < height; y++ {
			sum += gray[y][x]
		}
		mean := sum / float64(height)
		var v float64
		for y := 0; y < height; y++ {
			d := gray[y][x] - mean
			v += d * d
		}
		cols[x] = v / float64(height)
	}
	return rows, cols
}

// gradientDispersion computes the mean Sobel gradient magnitude of each row
// and column.
func gradientDispersion(gray [][]float64) (rows, cols []float64) {
	height := len(gray)
	width := len(gray[0])

	mag, _ := sobelGradients(gray)

	rows = make([]float64, height)
	cols = make([]float64, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rows[y] += mag[y][x]
			cols[x] += mag[y][x]
		}
	}
	for y := range rows {
		rows[y] /= float64(width)
	}
	for x := range cols {
		cols[x] /= float64(height)
	}
	return rows, cols
}

// percentile returns the pct-th percentile of values (nearest-rank on the
// sorted copy). pct is in [0,100].
func percentile(values []float64, pct float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(pct / 100 * float64(len(sorted)-1))
	return sorted[clamp(idx, 0, len(sorted)-1)]
}

// scanForward returns the first index whose value exceeds the threshold.
func scanForward(values []float64, threshold float64) (int, bool) {
	for i, v := range values {
		if v > threshold {
			return i, true
		}
	}
	return 0, false
}

// scanBackward returns the last index whose value exceeds the threshold.
func scanBackward(values []float64, threshold float64) (int, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] > threshold {
			return i, true
		}
	}
	return 0, false
}

// validateBox rejects degenerate detections: a candidate whose crop depth on
// any side exceeds the edge-thickness limit would remove actual content (or
// signals an unreliable detection), so the detector declines instead.
func validateBox(b Bounds, width, height int, p Params) bool {
	if b.X1 >= b.X2 || b.Y1 >= b.Y2 {
		return false
	}
	if b.X1 < 0 || b.Y1 < 0 || b.X2 > width || b.Y2 > height {
		return false
	}

	maxEdge := int(float64(min(width, height)) * p.EdgeThicknessLimit)
	if b.Y1 >= maxEdge || b.X1 >= maxEdge {
		return false
	}
	if b.Y2 <= height-maxEdge || b.X2 <= width-maxEdge {
		return false
	}
	return true
}

// expandBox grows the accepted rectangle outward by margin (a fraction of
// each dimension), clamped to the image bounds. Protects content that sits
// right against the detected boundary.
func expandBox(b Bounds, width, height int, margin float64) *Bounds {
	mx := int(float64(width) * margin)
	my := int(float64(height) * margin)
	return &Bounds{
		X1: clamp(b.X1-mx, 0, width),
		Y1: clamp(b.Y1-my, 0, height),
		X2: clamp(b.X2+mx, 0, width),
		Y2: clamp(b.Y2+my, 0, height),
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
