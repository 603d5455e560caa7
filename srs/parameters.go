package srs

import "fmt"

// DefaultWeights are the published FSRS-6 default weights. w[0..3] seed the
// initial stability per first rating, w[4..7] drive difficulty, w[8..10] the
// recall stability growth, w[11..14] the post-lapse stability, w[15..16] the
// hard penalty and easy bonus, w[17..19] same-day reviews, w[20] the decay
// exponent of the forgetting curve.
var DefaultWeights = [21]float64{
	0.212, 1.2931, 2.3065, 8.2956,
	6.4133, 0.8334, 3.0194, 0.001,
	1.8722, 0.1666, 0.796, 1.4835,
	0.0614, 0.2629, 1.6483, 0.6014,
	1.8729, 0.5425, 0.0912, 0.0658,
	0.1542,
}

var weightLowerBounds = [21]float64{
	0.001, 0.001, 0.001, 0.001,
	1.0, 0.001, 0.001, 0.001,
	0.0, 0.0, 0.001, 0.001,
	0.001, 0.001, 0.0, 0.0,
	1.0, 0.0, 0.0, 0.0,
	0.1,
}

var weightUpperBounds = [21]float64{
	100.0, 100.0, 100.0, 100.0,
	10.0, 4.0, 4.0, 0.75,
	4.5, 0.8, 3.5, 5.0,
	0.25, 0.9, 4.0, 1.0,
	6.0, 2.0, 2.0, 0.8,
	0.8,
}

// Params configures a Scheduler. The zero value of any field falls back to
// its default in NewScheduler.
type Params struct {
	// Weights is the 21-element FSRS weight vector. Zero → DefaultWeights.
	Weights [21]float64
	// DesiredRetention is the recall probability targeted when picking the
	// next interval. Zero → 0.9.
	DesiredRetention float64
	// LearningSteps is the number of successful grades required to graduate
	// a new card from Learning to Review. Zero → 2.
	LearningSteps int
	// RelearningSteps is the number of successful grades required to return
	// a lapsed card from Relearning to Review. Zero → 1.
	RelearningSteps int
	// MaximumInterval caps the scheduled interval in days. Zero → 36500.
	MaximumInterval int
}

// DefaultParams returns the fully populated default configuration.
func DefaultParams() Params {
	return Params{
		Weights:          DefaultWeights,
		DesiredRetention: 0.9,
		LearningSteps:    2,
		RelearningSteps:  1,
		MaximumInterval:  36500,
	}
}

// validateWeights checks every weight against its published bounds.
func validateWeights(w [21]float64) error {
	for i := range w {
		if w[i] < weightLowerBounds[i] || w[i] > weightUpperBounds[i] {
			return fmt.Errorf("srs: weight w[%d] = %g outside [%g, %g]",
				i, w[i], weightLowerBounds[i], weightUpperBounds[i])
		}
	}
	return nil
}
