package srs

import (
	"math"
	"testing"
)

func TestIntervalInvertsForgettingCurve(t *testing.T) {
	curve := newForgettingCurve(DefaultWeights)

	// At the default 0.9 retention the interval equals the stability.
	for _, s := range []float64{1, 2.5, 10, 100} {
		got := curve.interval(s, 0.9, 36500)
		want := int(math.Round(s))
		if got != want {
			t.Errorf("interval(%v, 0.9) = %d, want %d", s, got, want)
		}
	}
}

func TestIntervalBounds(t *testing.T) {
	curve := newForgettingCurve(DefaultWeights)

	if got := curve.interval(0.1, 0.9, 36500); got != 1 {
		t.Errorf("tiny stability interval = %d, want floor of 1", got)
	}
	if got := curve.interval(1e9, 0.9, 36500); got != 36500 {
		t.Errorf("huge stability interval = %d, want cap of 36500", got)
	}
}

func TestRetrievabilityDecays(t *testing.T) {
	curve := newForgettingCurve(DefaultWeights)

	prev := 1.1
	for _, days := range []float64{0, 1, 5, 10, 50} {
		r := curve.retrievability(days, 10)
		if r >= prev {
			t.Errorf("retrievability(%v) = %v, want strictly decreasing", days, r)
		}
		prev = r
	}
	if r0 := curve.retrievability(0, 10); r0 != 1 {
		t.Errorf("retrievability(0) = %v, want 1", r0)
	}
}

func TestInitialStabilityOrderedByRating(t *testing.T) {
	curve := newForgettingCurve(DefaultWeights)
	if !(curve.initialStability(Again) < curve.initialStability(Hard) &&
		curve.initialStability(Hard) < curve.initialStability(Good) &&
		curve.initialStability(Good) < curve.initialStability(Easy)) {
		t.Error("initial stability should grow with the rating")
	}
}

func TestNextDifficultyDirection(t *testing.T) {
	curve := newForgettingCurve(DefaultWeights)

	d := 5.0
	if harder := curve.nextDifficulty(d, Again); harder <= d {
		t.Errorf("Again difficulty %v, want > %v", harder, d)
	}
	if easier := curve.nextDifficulty(d, Easy); easier >= d {
		t.Errorf("Easy difficulty %v, want < %v", easier, d)
	}
}

func TestForgetStabilityShrinks(t *testing.T) {
	curve := newForgettingCurve(DefaultWeights)

	s := 20.0
	next := curve.forgetStability(5.0, s, 0.9)
	if next >= s {
		t.Errorf("forget stability = %v, want < %v", next, s)
	}
}

func TestValidateWeights(t *testing.T) {
	if err := validateWeights(DefaultWeights); err != nil {
		t.Errorf("default weights should validate: %v", err)
	}
	bad := DefaultWeights
	bad[20] = 5.0
	if err := validateWeights(bad); err == nil {
		t.Error("out-of-bounds decay weight should be rejected")
	}
}
