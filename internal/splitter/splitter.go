// Package splitter ties the imaging and detection layers into the full
// sticker-sheet pipeline: rotate, trim the sheet border, partition into a
// grid, and write the pieces out. It also runs the pipeline over batches of
// files with bounded parallelism.
package splitter

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/stickertools/sheet-split-mcp/internal/detection"
	"github.com/stickertools/sheet-split-mcp/internal/imaging"
)

// Options controls a single split run. The zero value rotates nothing, keeps
// the border, auto-detects the grid and writes PNG pieces.
type Options struct {
	// Grid is the explicit row/column layout. The zero value means
	// auto-detect from the sheet's aspect ratio.
	Grid imaging.GridSpec

	// Angle rotates the sheet clockwise in degrees before anything else.
	Angle float64

	// RemoveBorder runs content-region detection and crops to the result.
	// When the detector declines the sheet is used unchanged.
	RemoveBorder bool

	// Detection tunes the border detector. Ignored unless RemoveBorder.
	Detection detection.Params

	// Format selects the output encoding: "png", "jpg" or "jpeg".
	// Empty means "png".
	Format string
}

// Result describes one completed split.
type Result struct {
	SourcePath string              `json:"source_path"`
	OutputDir  string              `json:"output_dir"`
	Grid       imaging.GridSpec    `json:"grid"`
	Trimmed    *detection.Bounds   `json:"trimmed,omitempty"`
	Report     *imaging.SaveReport `json:"report"`
}

// Splitter runs split pipelines against a shared image cache.
type Splitter struct {
	cache   *imaging.ImageCache
	workers int
}

// New creates a Splitter. workers bounds batch parallelism and must be
// positive.
func New(cache *imaging.ImageCache, workers int) *Splitter {
	if workers < 1 {
		workers = 1
	}
	return &Splitter{cache: cache, workers: workers}
}

// Split runs the in-memory pipeline on an already-decoded sheet and returns
// the pieces in row-major order, the grid actually used, and the content
// bounds if the border was trimmed.
func Split(img image.Image, opts Options) ([]*image.NRGBA, imaging.GridSpec, *detection.Bounds, error) {
	if err := imaging.ValidateImage(img); err != nil {
		return nil, imaging.GridSpec{}, nil, err
	}

	sheet := img
	if opts.Angle != 0 {
		rotated, err := imaging.Rotate(sheet, opts.Angle)
		if err != nil {
			return nil, imaging.GridSpec{}, nil, err
		}
		sheet = rotated
	}

	var trimmed *detection.Bounds
	if opts.RemoveBorder {
		bounds, err := detection.DetectContentRegion(sheet, opts.Detection)
		if err != nil {
			return nil, imaging.GridSpec{}, nil, err
		}
		if bounds != nil {
			sheet = imaging.CropRegion(sheet, bounds.Rect())
			trimmed = bounds
		}
	}

	grid := opts.Grid
	if grid == (imaging.GridSpec{}) {
		b := sheet.Bounds()
		grid = imaging.DetectGridType(b.Dx(), b.Dy())
	}

	pieces, err := imaging.Partition(sheet, grid)
	if err != nil {
		return nil, imaging.GridSpec{}, nil, err
	}
	return pieces, grid, trimmed, nil
}

// ProcessFile loads a sheet, splits it and writes the pieces under
// outputDir. An empty outputDir derives a sibling "<name>_split" directory
// next to the source file.
func (s *Splitter) ProcessFile(path, outputDir string, opts Options) (*Result, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}

	pieces, grid, trimmed, err := Split(img, opts)
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", path, err)
	}

	base := filepath.Base(path)
	if outputDir == "" {
		outputDir = filepath.Join(filepath.Dir(path), imaging.OutputFolderName(base))
	}

	format := opts.Format
	if format == "" {
		format = "png"
	}

	toSave := make([]image.Image, len(pieces))
	for i, p := range pieces {
		toSave[i] = p
	}
	report, err := imaging.SaveSplitImages(toSave, outputDir, base, format)
	if err != nil {
		return nil, err
	}

	return &Result{
		SourcePath: path,
		OutputDir:  outputDir,
		Grid:       grid,
		Trimmed:    trimmed,
		Report:     report,
	}, nil
}

// BatchItem is the per-file outcome of a batch run. Exactly one of Result
// and Err is set.
type BatchItem struct {
	Path   string  `json:"path"`
	Result *Result `json:"result,omitempty"`
	Err    string  `json:"error,omitempty"`
}

// ProcessFiles splits every listed sheet, writing each one's pieces under
// outputDir (or the per-file default when empty). Files are processed in
// parallel up to the configured worker count. One failing file does not stop
// the others; failures are reported in the returned items. The only error
// returned is a context cancellation.
func (s *Splitter) ProcessFiles(ctx context.Context, paths []string, outputDir string, opts Options) ([]BatchItem, error) {
	items := make([]BatchItem, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i].Path = path
			res, err := s.ProcessFile(path, outputDir, opts)
			if err != nil {
				log.Printf("batch: %s failed: %v", path, err)
				items[i].Err = err.Error()
				return nil
			}
			items[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	return items, nil
}
