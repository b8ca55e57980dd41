package scoring

import (
	"fmt"
	"math"
)

// Weights defines the relative importance of each base scoring factor.
// Mobility and constraint fit are averaged into a single environment factor.
// All weights must sum to 1.0 (±0.001 tolerance).
type Weights struct {
	Combat         float64
	ThreatResponse float64
	Environment    float64
	Resources      float64
	Assets         float64
}

// DefaultWeights returns the documented default distribution.
func DefaultWeights() Weights {
	return Weights{
		Combat:         0.40,
		ThreatResponse: 0.20,
		Environment:    0.13,
		Resources:      0.15,
		Assets:         0.12,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Combat + w.ThreatResponse + w.Environment + w.Resources + w.Assets
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w Weights) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("scoring weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range w.vector() {
		if v < 0 {
			return fmt.Errorf("negative scoring weight: %f", v)
		}
	}
	return nil
}

func (w Weights) vector() []float64 {
	return []float64{w.Combat, w.ThreatResponse, w.Environment, w.Resources, w.Assets}
}
