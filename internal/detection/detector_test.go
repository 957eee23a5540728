package detection

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stickertools/sheet-split-mcp/internal/imaging"
)

// createSheetWithFrame creates a white image with a dark rectangular frame
// drawn inset pixels from each edge, thickness pixels thick.
func createSheetWithFrame(width, height, inset, thickness int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	white := color.RGBA{255, 255, 255, 255}
	dark := color.RGBA{20, 20, 20, 255}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, white)
		}
	}
	for t := 0; t < thickness; t++ {
		for x := inset; x < width-inset; x++ {
			img.Set(x, inset+t, dark)
			img.Set(x, height-1-inset-t, dark)
		}
		for y := inset; y < height-inset; y++ {
			img.Set(inset+t, y, dark)
			img.Set(width-1-inset-t, y, dark)
		}
	}
	return img
}

// createCheckerboard creates an image of alternating black and white squares.
func createCheckerboard(width, height, square int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/square)+(y/square))%2 == 0 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}
	return img
}

func TestDetectContentRegionFrame(t *testing.T) {
	// 600x600 sheet with a frame 20px in from every edge. The detector
	// should find the framed region within a few pixels.
	img := createSheetWithFrame(600, 600, 20, 2)

	bounds, err := DetectContentRegion(img, DefaultParams())
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	if bounds == nil {
		t.Fatal("detector declined, expected a detection")
	}

	const tolerance = 8
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"x1", bounds.X1, 20},
		{"y1", bounds.Y1, 20},
		{"x2", bounds.X2, 580},
		{"y2", bounds.Y2, 580},
	}
	for _, c := range checks {
		if c.got < c.want-tolerance || c.got > c.want+tolerance {
			t.Errorf("%s = %d, want %d +/- %d", c.name, c.got, c.want, tolerance)
		}
	}
}

func TestDetectContentRegionFrameWithNoisyInterior(t *testing.T) {
	img := createSheetWithFrame(600, 600, 20, 2)

	// Speckle the interior; the frame must still win.
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		x := 40 + rng.Intn(520)
		y := 40 + rng.Intn(520)
		v := uint8(rng.Intn(256))
		img.Set(x, y, color.RGBA{v, v, v, 255})
	}

	bounds, err := DetectContentRegion(img, DefaultParams())
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	if bounds == nil {
		t.Fatal("detector declined, expected a detection")
	}

	const tolerance = 8
	if bounds.X1 < 20-tolerance || bounds.X1 > 20+tolerance ||
		bounds.Y1 < 20-tolerance || bounds.Y1 > 20+tolerance {
		t.Errorf("top-left = (%d,%d), want near (20,20)", bounds.X1, bounds.Y1)
	}
}

func TestDetectContentRegionSafety(t *testing.T) {
	img := createSheetWithFrame(400, 300, 10, 2)

	bounds, err := DetectContentRegion(img, DefaultParams())
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	if bounds == nil {
		return // declining is a valid outcome; nothing more to check
	}

	if bounds.X1 >= bounds.X2 || bounds.Y1 >= bounds.Y2 {
		t.Errorf("degenerate bounds: %+v", bounds)
	}
	if bounds.X1 < 0 || bounds.Y1 < 0 || bounds.X2 > 400 || bounds.Y2 > 300 {
		t.Errorf("bounds outside image: %+v", bounds)
	}
}

func TestDetectContentRegionBlankDeclines(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}

	bounds, err := DetectContentRegion(img, DefaultParams())
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	if bounds != nil {
		t.Errorf("expected decline on blank image, got %+v", bounds)
	}
}

func TestDetectContentRegionDeepBorderDeclines(t *testing.T) {
	// The frame sits 100px in: accepting it would cut far deeper than the
	// edge-thickness limit allows, so the detector must decline.
	img := createSheetWithFrame(600, 600, 100, 2)

	bounds, err := DetectContentRegion(img, DefaultParams())
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	if bounds != nil {
		t.Errorf("expected decline on deep border, got %+v", bounds)
	}
}

func TestDetectContentRegionDeterministic(t *testing.T) {
	// Uniform high-dispersion pattern: whatever the detector decides, it
	// must decide the same thing on every run and stay within bounds.
	img := createCheckerboard(400, 400, 8)

	first, err := DetectContentRegion(img, DefaultParams())
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := DetectContentRegion(img, DefaultParams())
		if err != nil {
			t.Fatalf("run %d: DetectContentRegion failed: %v", i, err)
		}
		if (first == nil) != (again == nil) {
			t.Fatalf("run %d: decision changed: %v vs %v", i, first, again)
		}
		if first != nil && *first != *again {
			t.Fatalf("run %d: bounds changed: %+v vs %+v", i, *first, *again)
		}
	}

	if first != nil {
		if first.X1 >= first.X2 || first.Y1 >= first.Y2 ||
			first.X1 < 0 || first.Y1 < 0 || first.X2 > 400 || first.Y2 > 400 {
			t.Errorf("unsafe bounds: %+v", first)
		}
	}
}

func TestDetectContentRegionInvalidImage(t *testing.T) {
	_, err := DetectContentRegion(nil, DefaultParams())
	var imgErr *imaging.InvalidImageError
	if !errors.As(err, &imgErr) {
		t.Errorf("err = %v, want *imaging.InvalidImageError", err)
	}
}

func TestDetectContentRegionProtectiveMargin(t *testing.T) {
	img := createSheetWithFrame(600, 600, 20, 2)

	p := DefaultParams()
	p.ProtectiveMargin = 0.05

	withMargin, err := DetectContentRegion(img, p)
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	without, err := DetectContentRegion(img, DefaultParams())
	if err != nil {
		t.Fatalf("DetectContentRegion failed: %v", err)
	}
	if withMargin == nil || without == nil {
		t.Fatal("detector declined, expected detections")
	}

	if withMargin.X1 > without.X1 || withMargin.Y1 > without.Y1 ||
		withMargin.X2 < without.X2 || withMargin.Y2 < without.Y2 {
		t.Errorf("margin did not expand bounds: with %+v, without %+v", withMargin, without)
	}
	if withMargin.X1 < 0 || withMargin.Y1 < 0 || withMargin.X2 > 600 || withMargin.Y2 > 600 {
		t.Errorf("margin escaped image bounds: %+v", withMargin)
	}
}

func TestFallbackScan(t *testing.T) {
	// Uniform outside, alternating texture inside rows/cols 20-79.
	gray := make([][]float64, 100)
	for y := range gray {
		gray[y] = make([]float64, 100)
		for x := range gray[y] {
			gray[y][x] = 128
			if y >= 20 && y < 80 && x >= 20 && x < 80 && (x+y)%2 == 0 {
				gray[y][x] = 0
			}
		}
	}

	b := fallbackScan(gray, DefaultParams())
	if b == nil {
		t.Fatal("fallbackScan declined, expected a detection")
	}
	want := Bounds{X1: 20, Y1: 20, X2: 80, Y2: 80}
	if *b != want {
		t.Errorf("got %+v, want %+v", *b, want)
	}
}

func TestFallbackScanUniformDeclines(t *testing.T) {
	gray := make([][]float64, 50)
	for y := range gray {
		gray[y] = make([]float64, 50)
		for x := range gray[y] {
			gray[y][x] = 77
		}
	}

	if b := fallbackScan(gray, DefaultParams()); b != nil {
		t.Errorf("expected decline on uniform matrix, got %+v", b)
	}
}

func TestValidateBox(t *testing.T) {
	p := DefaultParams() // EdgeThicknessLimit 0.08: maxEdge = 48 on 600x600

	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"shallow trim accepted", Bounds{20, 20, 580, 580}, true},
		{"no trim accepted", Bounds{0, 0, 600, 600}, true},
		{"left cut too deep", Bounds{100, 20, 580, 580}, false},
		{"right cut too deep", Bounds{20, 20, 500, 580}, false},
		{"top cut too deep", Bounds{20, 48, 580, 580}, false},
		{"inverted", Bounds{100, 100, 50, 50}, false},
		{"outside image", Bounds{-5, 0, 600, 600}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateBox(tt.b, 600, 600, p); got != tt.want {
				t.Errorf("validateBox(%+v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestExpandBoxClamped(t *testing.T) {
	b := expandBox(Bounds{5, 5, 95, 95}, 100, 100, 0.1)
	want := Bounds{0, 0, 100, 100}
	if *b != want {
		t.Errorf("got %+v, want %+v", *b, want)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}

	tests := []struct {
		pct  float64
		want float64
	}{
		{0, 1},
		{50, 3},
		{100, 5},
	}
	for _, tt := range tests {
		if got := percentile(values, tt.pct); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"aggressive", ModeAggressive, false},
		{"conservative", ModeConservative, false},
		{"bogus", ModeAuto, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q): err = %v, wantErr = %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestModePresets(t *testing.T) {
	auto := ModeAuto.Params()
	aggressive := ModeAggressive.Params()
	conservative := ModeConservative.Params()

	if aggressive.MinAreaRatio >= auto.MinAreaRatio {
		t.Error("aggressive should accept smaller content regions than auto")
	}
	if aggressive.EdgeThicknessLimit <= auto.EdgeThicknessLimit {
		t.Error("aggressive should allow deeper trims than auto")
	}
	if conservative.MinAreaRatio <= auto.MinAreaRatio {
		t.Error("conservative should demand larger content regions than auto")
	}
	if conservative.EdgeThicknessLimit >= auto.EdgeThicknessLimit {
		t.Error("conservative should allow shallower trims than auto")
	}
}

func TestPreviewOverlay(t *testing.T) {
	img := createSheetWithFrame(200, 200, 10, 2)

	b := &Bounds{X1: 40, Y1: 40, X2: 160, Y2: 160}
	out := PreviewOverlay(img, b)

	// Outline pixel is green.
	r, g, bl, _ := out.At(100, 41).RGBA()
	if uint8(g>>8) != 200 || uint8(r>>8) != 0 || uint8(bl>>8) != 0 {
		t.Errorf("outline pixel: got (%d,%d,%d), want (0,200,0)", r>>8, g>>8, bl>>8)
	}

	// Corner tick pixel is red.
	r, g, bl, _ = out.At(41, 41).RGBA()
	if uint8(r>>8) != 220 || uint8(g>>8) != 0 || uint8(bl>>8) != 0 {
		t.Errorf("corner pixel: got (%d,%d,%d), want (220,0,0)", r>>8, g>>8, bl>>8)
	}
}

func TestPreviewOverlayDeclineUnmarked(t *testing.T) {
	img := createSheetWithFrame(100, 100, 10, 2)

	out := PreviewOverlay(img, nil)
	for _, pt := range []image.Point{{0, 0}, {50, 50}, {99, 99}} {
		wr, wg, wb, _ := img.At(pt.X, pt.Y).RGBA()
		gr, gg, gb, _ := out.At(pt.X, pt.Y).RGBA()
		if wr != gr || wg != gg || wb != gb {
			t.Errorf("pixel %v changed on decline", pt)
		}
	}
}
