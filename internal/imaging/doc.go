// Package imaging provides the raster-level operations of the sheet splitter.
//
// This package implements image loading and caching, grid partitioning of
// composite sticker sheets, rotation, thumbnail generation, and output
// encoding with the splitter's filename convention. All operations work with
// standard Go image.Image types and use a coordinate system where (0,0) is at
// the top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Grid Partitioning
//
// A sticker sheet is split along evenly spaced boundaries computed by integer
// division, so the last row and column absorb any remainder pixels. Cells are
// emitted in row-major order (row 0 left-to-right, then row 1, and so on) and
// cover the source image exactly once: no gaps, no overlaps.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and never mutate their input; partitioning, rotation and
// encoding all return new images.
//
// # Error Handling
//
// Precondition violations are reported through two exported error types:
//   - InvalidGridError: row/column counts outside [1,18], or a 1x1 grid
//   - InvalidImageError: nil image or zero/negative dimensions
//
// File I/O and encoding failures are wrapped with fmt.Errorf("...: %w", err).
package imaging
