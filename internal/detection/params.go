package detection

import "fmt"

// Mode selects a named tuning profile for content-region detection.
type Mode int

const (
	// ModeAuto is the balanced default profile.
	ModeAuto Mode = iota

	// ModeAggressive removes more border at the risk of clipping content.
	ModeAggressive

	// ModeConservative removes less border, preferring to keep content.
	ModeConservative
)

// String returns the mode's wire name as used by the MCP tools.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeAggressive:
		return "aggressive"
	case ModeConservative:
		return "conservative"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a wire name to a Mode. An empty string resolves to
// ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "auto":
		return ModeAuto, nil
	case "aggressive":
		return ModeAggressive, nil
	case "conservative":
		return ModeConservative, nil
	default:
		return ModeAuto, fmt.Errorf("unknown detection mode: %q", s)
	}
}

// ScoreWeights weighs the three contour-scoring terms. The weights should
// sum to 1 but are not normalized.
type ScoreWeights struct {
	Area   float64
	Center float64
	Aspect float64
}

// Params holds every tunable threshold of the detector as an immutable
// per-call value.
//
// Zero values are not meaningful; start from a Mode preset (or
// DefaultParams) and adjust fields as needed.
type Params struct {
	// MinAreaRatio and MaxAreaRatio bound the fraction of total image area a
	// contour may cover to count as content.
	MinAreaRatio float64
	MaxAreaRatio float64

	// EdgeThicknessLimit is the maximum border thickness, as a fraction of
	// the shorter image dimension, that a detection may remove on any side.
	// A candidate cutting deeper than this is declined as unreliable.
	EdgeThicknessLimit float64

	// BlurRadius is the Gaussian pre-blur radius applied before the edge
	// operators.
	BlurRadius float64

	// CannyLow and CannyHigh are the hysteresis thresholds (0-255 scale) of
	// the Canny-style operator.
	CannyLow  float64
	CannyHigh float64

	// SobelThreshold is the gradient-magnitude cutoff (0-255 scale) of the
	// Sobel operator.
	SobelThreshold float64

	// LaplacianThreshold is the absolute-response cutoff (0-255 scale) of
	// the Laplacian operator.
	LaplacianThreshold float64

	// MorphKernelSize and MorphIterations control the morphological close
	// joining broken edges.
	MorphKernelSize int
	MorphIterations int

	// BridgeDashedLines enables an extra closing pass with a larger
	// structuring element, merging dashed or dotted border segments into
	// continuous detectable edges.
	BridgeDashedLines bool
	BridgeKernelSize  int
	BridgeIterations  int

	// ProtectiveMargin expands the accepted rectangle outward by this
	// fraction of each dimension, clamped to the image bounds. Zero disables
	// the margin.
	ProtectiveMargin float64

	// TargetAreaRatio is the area fraction at which a contour's area score
	// peaks; the score decays linearly with distance from it.
	TargetAreaRatio float64

	// Weights combines the area, centrality and aspect scores.
	Weights ScoreWeights

	// MaxAspectRatio rejects contours more elongated than this (long thin
	// shapes are border lines, not content).
	MaxAspectRatio float64

	// MinComplexity rejects contours whose filled-area to perimeter ratio
	// falls below it (spindly shapes are edge artifacts).
	MinComplexity float64

	// ScanPercentile sets the fallback scan's dispersion threshold as a
	// percentile of the per-row/per-column values. ScanSensitivity scales
	// the threshold (values below 1 make the scan more eager to stop).
	ScanPercentile  float64
	ScanSensitivity float64

	// UseGradientScan switches the fallback scan's dispersion statistic from
	// intensity variance to mean gradient magnitude.
	UseGradientScan bool
}

// DefaultParams returns the baseline parameter set shared by all presets.
func DefaultParams() Params {
	return Params{
		MinAreaRatio:       0.6,
		MaxAreaRatio:       0.98,
		EdgeThicknessLimit: 0.08,
		BlurRadius:         1.5,
		CannyLow:           30,
		CannyHigh:          100,
		SobelThreshold:     50,
		LaplacianThreshold: 20,
		MorphKernelSize:    3,
		MorphIterations:    2,
		BridgeKernelSize:   9,
		BridgeIterations:   4,
		TargetAreaRatio:    0.5,
		Weights:            ScoreWeights{Area: 0.5, Center: 0.3, Aspect: 0.2},
		MaxAspectRatio:     5,
		MinComplexity:      2,
		ScanPercentile:     20,
		ScanSensitivity:    1.0,
	}
}

// Params resolves a mode to its preset parameter set.
func (m Mode) Params() Params {
	p := DefaultParams()
	switch m {
	case ModeAggressive:
		p.MinAreaRatio = 0.5
		p.EdgeThicknessLimit = 0.15
	case ModeConservative:
		p.MinAreaRatio = 0.75
		p.EdgeThicknessLimit = 0.05
	}
	return p
}
