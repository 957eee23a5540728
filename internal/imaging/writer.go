package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// jpegQuality is the fixed quality used for JPEG output.
const jpegQuality = 95

// SplitFilename builds the output filename for one split piece:
// a 3-digit zero-padded sequence number, an underscore, the original base
// name, and the extension. Sequence numbers are 1-based.
//
//	SplitFilename(1, "emoji", "png") == "001_emoji.png"
func SplitFilename(seq int, baseName, ext string) string {
	return fmt.Sprintf("%03d_%s.%s", seq, baseName, ext)
}

// OutputFolderName builds the default output folder name for a sheet:
// the original filename without extension, suffixed with "_split".
func OutputFolderName(originalFilename string) string {
	base := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	return base + "_split"
}

// EncodePNG encodes an image as PNG, preserving any alpha channel.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes an image as JPEG at quality 95.
//
// JPEG has no alpha channel, so the image is first composited onto a white
// background.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattenOnWhite(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// flattenOnWhite composites an image onto an opaque white background.
func flattenOnWhite(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Over)
	return flat
}

// SaveReport summarizes a batch save: which files were written and which
// failed. A failure on one piece never aborts the rest.
type SaveReport struct {
	// Saved holds the paths of successfully written pieces, in split order.
	Saved []string `json:"saved"`

	// Failed holds "filename: reason" entries for pieces that could not be
	// written.
	Failed []string `json:"failed,omitempty"`
}

// SaveSplitImages writes a sheet's split pieces to outputDir using the
// SplitFilename convention. format is "png" (keeps alpha) or "jpg"
// (composites onto white, quality 95); any other value is an error.
//
// The directory is created if needed. Per-piece write failures are collected
// in the report rather than aborting the batch.
func SaveSplitImages(images []image.Image, outputDir, originalFilename, format string) (*SaveReport, error) {
	var encode func(image.Image) ([]byte, error)
	var ext string
	switch format {
	case "png":
		encode, ext = EncodePNG, "png"
	case "jpg", "jpeg":
		encode, ext = EncodeJPEG, "jpg"
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	baseName := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
	report := &SaveReport{}

	for i, img := range images {
		filename := SplitFilename(i+1, baseName, ext)
		data, err := encode(img)
		if err != nil {
			report.Failed = append(report.Failed, fmt.Sprintf("%s: %v", filename, err))
			continue
		}
		path := filepath.Join(outputDir, filename)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			report.Failed = append(report.Failed, fmt.Sprintf("%s: %v", filename, err))
			continue
		}
		report.Saved = append(report.Saved, path)
	}

	return report, nil
}
