package detection

import "image"

// minContourSize discards connected components smaller than this many pixels
// as noise.
const minContourSize = 10

// contour is one connected component of the closed edge map. Area counts the
// component's filled pixels; Perimeter counts the pixels touching a non-edge
// neighbor (or the image border), approximating the boundary length.
type contour struct {
	Box       image.Rectangle
	Area      int
	Perimeter int
}

// findContours groups connected edge pixels into contours using iterative
// 8-connected flood fill. Components smaller than minContourSize are dropped.
func findContours(edges [][]bool) []contour {
	height := len(edges)
	width := len(edges[0])

	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	var contours []contour
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] && !visited[y][x] {
				c := floodFill(edges, visited, x, y)
				if c.Area >= minContourSize {
					contours = append(contours, c)
				}
			}
		}
	}
	return contours
}

// floodFill collects the connected component containing (startX, startY).
//
// Uses a stack-based approach (not recursive) to avoid stack overflow on
// large components. Bounding box, area and perimeter are accumulated while
// filling so the component's pixels never need to be stored.
func floodFill(edges, visited [][]bool, startX, startY int) contour {
	height := len(edges)
	width := len(edges[0])

	c := contour{Box: image.Rect(startX, startY, startX+1, startY+1)}
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !edges[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		c.Area++
		c.Box = c.Box.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
		if isBoundary(edges, p.X, p.Y) {
			c.Perimeter++
		}

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return c
}

// isBoundary reports whether an edge pixel has a 4-neighbor that is not an
// edge pixel, counting out-of-bounds as non-edge.
func isBoundary(edges [][]bool, x, y int) bool {
	height := len(edges)
	width := len(edges[0])

	for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || nx >= width || ny < 0 || ny >= height || !edges[ny][nx] {
			return true
		}
	}
	return false
}
