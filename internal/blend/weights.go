package blend

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each blend component.
// All weights must sum to 1.0 (±0.001 tolerance).
type WeightSet struct {
	CommonBooks   float64
	CommonAuthors float64
	Genre         float64
	Era           float64
	Rating        float64
	Length        float64
	Year          float64
}

// DefaultWeights returns the shipping weight distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		CommonBooks:   0.25,
		CommonAuthors: 0.10,
		Genre:         0.25,
		Era:           0.15,
		Rating:        0.10,
		Length:        0.10,
		Year:          0.05,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.CommonBooks + w.CommonAuthors + w.Genre + w.Era +
		w.Rating + w.Length + w.Year
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range w.asList() {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

func (w WeightSet) asList() []float64 {
	return []float64{
		w.CommonBooks, w.CommonAuthors, w.Genre, w.Era,
		w.Rating, w.Length, w.Year,
	}
}
