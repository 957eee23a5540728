// Package detection locates the content region of a sticker-sheet image so
// that thin border or frame artifacts can be removed before splitting.
//
// The detector is a best-effort heuristic, not a general vision system. It
// never corrupts the image: the only possible outcomes are a content
// rectangle strictly inside the frame, or a decline ("no crop"), in which
// case the caller uses the original image unchanged. Declining is a normal
// result, not an error.
//
// # Pipeline
//
// Detection is a single deterministic pass:
//
//  1. Edge map: a binary map combining Canny-style, Sobel and Laplacian
//     operators over a Gaussian-blurred grayscale of the input
//  2. Morphological close to join broken edges (an optional dashed-line
//     bridging step uses a larger structuring element with more iterations)
//  3. Connected-component contour search on the closed map
//  4. Contour filtering by area ratio, aspect ratio and complexity, then
//     scoring of the survivors by area, centrality and squareness
//  5. If no contour survives: a statistical fallback that scans inward from
//     each of the four edges over per-row/per-column dispersion
//  6. Validation against the edge-thickness limit; a candidate that would cut
//     too deep on any side is declined
//
// # Tuning
//
// All thresholds live in an immutable Params value passed per call, so the
// detector has no shared mutable state and is trivially safe for concurrent
// batch use. Mode provides the three canonical presets (auto, aggressive,
// conservative); anything finer is adjusted on Params directly.
//
// # Coordinate System
//
// Bounds use the standard image convention: origin at top-left, (X1,Y1)
// inclusive, (X2,Y2) exclusive.
package detection
