package blend

import (
	"log/slog"
)

// Calibration is the affine clamp applied to the raw score before display.
// The floor keeps low-overlap pairs from reading as a failing grade while the
// slope stretches mid/high raw scores into the 80–95 display range.
type Calibration struct {
	Floor   float64
	Offset  float64
	Slope   float64
	Ceiling float64
}

// Tuning holds the non-weight scoring constants. All are configuration, not
// invariants.
type Tuning struct {
	RatingScaleSpan  float64
	LengthNormalizer float64
	YearNormalizer   float64
	Calibration      Calibration
}

// DefaultTuning returns the shipping scoring constants.
func DefaultTuning() Tuning {
	return Tuning{
		RatingScaleSpan:  4,
		LengthNormalizer: 400,
		YearNormalizer:   50,
		Calibration: Calibration{
			Floor:   40,
			Offset:  16,
			Slope:   1.2,
			Ceiling: 100,
		},
	}
}

// BlendResult is the complete output for one reader pair. Both the raw and
// calibrated scores are returned so consumers can audit the calibration
// independently of the weights.
type BlendResult struct {
	Score      float64           `json:"score"`
	ScoreRaw   float64           `json:"score_raw"`
	Components []ComponentResult `json:"components"`
}

// Blender combines the seven component scorers into a calibrated 40–100
// compatibility score. It is stateless and safe for concurrent use.
type Blender struct {
	weights WeightSet
	tuning  Tuning
	logger  *slog.Logger
}

// NewBlender creates a Blender with the given weights and tuning.
func NewBlender(weights WeightSet, tuning Tuning, logger *slog.Logger) *Blender {
	return &Blender{weights: weights, tuning: tuning, logger: logger}
}

// Compute scores one reader pair. Every component is symmetric in its two
// arguments and missing inputs degrade the affected component to 0 rather
// than failing the whole computation, so a result is always produced.
func (bl *Blender) Compute(profileA, profileB *ReaderProfile, genresA, genresB GenreProfile) BlendResult {
	components := []ComponentResult{
		CommonBooksComponent(profileA, profileB),
		CommonAuthorsComponent(profileA, profileB),
		GenreComponent(genresA, genresB),
		EraComponent(profileA, profileB),
		RatingComponent(profileA, profileB, bl.tuning.RatingScaleSpan),
		LengthComponent(profileA, profileB, bl.tuning.LengthNormalizer),
		YearComponent(profileA, profileB, bl.tuning.YearNormalizer),
	}

	weights := []float64{
		bl.weights.CommonBooks,
		bl.weights.CommonAuthors,
		bl.weights.Genre,
		bl.weights.Era,
		bl.weights.Rating,
		bl.weights.Length,
		bl.weights.Year,
	}

	var total float64
	for i := range components {
		components[i].Weight = weights[i]
		components[i].Weighted = components[i].Score * weights[i]
		total += components[i].Weighted
	}

	raw := clamp(100*total, 0, 100)
	return BlendResult{
		Score:      bl.calibrate(raw),
		ScoreRaw:   raw,
		Components: components,
	}
}

func (bl *Blender) calibrate(raw float64) float64 {
	c := bl.tuning.Calibration
	return clamp(c.Offset+c.Slope*raw, c.Floor, c.Ceiling)
}
