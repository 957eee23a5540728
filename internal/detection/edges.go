package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// grayMatrix converts an image to a 2D luminance matrix on the 0-255 scale
// using ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B).
func grayMatrix(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			gray[y][x] = 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
		}
	}
	return gray
}

// edgeMap computes the detector's binary edge map: a Gaussian-blurred
// grayscale run through Canny-style, Sobel and Laplacian operators, the
// results OR-combined, then morphologically closed. With dashed-line
// bridging enabled, an extra close/open pass with the larger structuring
// element runs first to merge broken border segments.
func edgeMap(img image.Image, p Params) [][]bool {
	src := img
	if p.BlurRadius > 0 {
		src = blur.Gaussian(img, p.BlurRadius)
	}
	blurred := grayMatrix(src)

	mag, dir := sobelGradients(blurred)
	edges := combineEdges(
		cannyEdges(mag, dir, p.CannyLow, p.CannyHigh),
		thresholdEdges(mag, p.SobelThreshold),
		laplacianEdges(blurred, p.LaplacianThreshold),
	)

	if p.BridgeDashedLines {
		edges = closeBinary(edges, p.BridgeKernelSize, p.BridgeIterations)
		edges = openBinary(edges, p.BridgeKernelSize, 1)
	}

	return closeBinary(edges, p.MorphKernelSize, p.MorphIterations)
}

// sobelGradients computes per-pixel gradient magnitude and direction using
// 3x3 Sobel operators. Border pixels use clamped (replicated) edge values.
func sobelGradients(gray [][]float64) (magnitude, direction [][]float64) {
	height := len(gray)
	width := len(gray[0])

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude = make([][]float64, height)
	direction = make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += gray[py][px] * sobelX[ky+1][kx+1]
					gy += gray[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}
	return magnitude, direction
}

// cannyEdges thins the gradient magnitude with non-maximum suppression and
// applies hysteresis thresholding: pixels above high are strong edges, pixels
// between low and high are kept only when adjacent to a strong edge.
func cannyEdges(magnitude, direction [][]float64, low, high float64) [][]bool {
	height := len(magnitude)
	width := len(magnitude[0])

	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			// Compare against the two neighbors along the gradient direction.
			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= high {
				edges[y][x] = true
			} else if val >= low {
				for ky := -1; ky <= 1 && !edges[y][x]; ky++ {
					for kx := -1; kx <= 1 && !edges[y][x]; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py][px] >= high {
							edges[y][x] = true
						}
					}
				}
			}
		}
	}
	return edges
}

// thresholdEdges marks pixels whose gradient magnitude exceeds the threshold.
func thresholdEdges(magnitude [][]float64, threshold float64) [][]bool {
	height := len(magnitude)
	width := len(magnitude[0])

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			edges[y][x] = magnitude[y][x] > threshold
		}
	}
	return edges
}

// laplacianEdges marks pixels whose 4-neighbor Laplacian response exceeds
// the threshold in absolute value.
func laplacianEdges(gray [][]float64, threshold float64) [][]bool {
	height := len(gray)
	width := len(gray[0])

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			up := gray[clamp(y-1, 0, height-1)][x]
			down := gray[clamp(y+1, 0, height-1)][x]
			left := gray[y][clamp(x-1, 0, width-1)]
			right := gray[y][clamp(x+1, 0, width-1)]
			lap := up + down + left + right - 4*gray[y][x]
			edges[y][x] = math.Abs(lap) > threshold
		}
	}
	return edges
}

// combineEdges ORs any number of binary maps of identical shape.
func combineEdges(maps ...[][]bool) [][]bool {
	height := len(maps[0])
	width := len(maps[0][0])

	combined := make([][]bool, height)
	for y := 0; y < height; y++ {
		combined[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			for _, m := range maps {
				if m[y][x] {
					combined[y][x] = true
					break
				}
			}
		}
	}
	return combined
}

// dilateBinary grows edge regions by a square structuring element of the
// given size. Out-of-bounds neighbors contribute nothing.
func dilateBinary(edges [][]bool, kernelSize int) [][]bool {
	height := len(edges)
	width := len(edges[0])
	r := kernelSize / 2

	out := make([][]bool, height)
	for y := 0; y < height; y++ {
		out[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			for ky := -r; ky <= r && !out[y][x]; ky++ {
				for kx := -r; kx <= r && !out[y][x]; kx++ {
					ny, nx := y+ky, x+kx
					if ny >= 0 && ny < height && nx >= 0 && nx < width && edges[ny][nx] {
						out[y][x] = true
					}
				}
			}
		}
	}
	return out
}

// erodeBinary shrinks edge regions by a square structuring element of the
// given size. Out-of-bounds neighbors count as filled so regions touching
// the image border are not eaten from the outside.
func erodeBinary(edges [][]bool, kernelSize int) [][]bool {
	height := len(edges)
	width := len(edges[0])
	r := kernelSize / 2

	out := make([][]bool, height)
	for y := 0; y < height; y++ {
		out[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			keep := true
			for ky := -r; ky <= r && keep; ky++ {
				for kx := -r; kx <= r && keep; kx++ {
					ny, nx := y+ky, x+kx
					if ny < 0 || ny >= height || nx < 0 || nx >= width {
						continue
					}
					if !edges[ny][nx] {
						keep = false
					}
				}
			}
			out[y][x] = keep
		}
	}
	return out
}

// closeBinary performs morphological closing: iterations of dilation followed
// by the same number of erosions. Closing joins nearby edge fragments.
func closeBinary(edges [][]bool, kernelSize, iterations int) [][]bool {
	for i := 0; i < iterations; i++ {
		edges = dilateBinary(edges, kernelSize)
	}
	for i := 0; i < iterations; i++ {
		edges = erodeBinary(edges, kernelSize)
	}
	return edges
}

// openBinary performs morphological opening: erosion then dilation, removing
// isolated specks left after closing.
func openBinary(edges [][]bool, kernelSize, iterations int) [][]bool {
	for i := 0; i < iterations; i++ {
		edges = erodeBinary(edges, kernelSize)
	}
	for i := 0; i < iterations; i++ {
		edges = dilateBinary(edges, kernelSize)
	}
	return edges
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
