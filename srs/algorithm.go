package srs

import "math"

const (
	minStability  = 0.001
	minDifficulty = 1.0
	maxDifficulty = 10.0
)

// forgettingCurve holds the weight vector plus the two constants derived from
// the decay weight so they are not recomputed on every review.
type forgettingCurve struct {
	w      [21]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1, so that R(S, S) = 0.9
}

func newForgettingCurve(w [21]float64) forgettingCurve {
	decay := -w[20]
	return forgettingCurve{
		w:      w,
		decay:  decay,
		factor: math.Pow(0.9, 1.0/decay) - 1.0,
	}
}

// retrievability is the power-law forgetting curve
// R(t, S) = (1 + factor*t/S)^decay. R(0, S) = 1 and R(S, S) = 0.9.
func (f *forgettingCurve) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+f.factor*elapsedDays/stability, f.decay)
}

// interval inverts the forgetting curve: the number of whole days until
// retrievability drops to the requested retention, clamped to [1, maxDays].
func (f *forgettingCurve) interval(stability, retention float64, maxDays int) int {
	raw := stability / f.factor * (math.Pow(retention, 1.0/f.decay) - 1)
	days := int(math.Round(raw))
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}

// initialStability seeds stability from the first grade: S0(G) = w[G-1].
func (f *forgettingCurve) initialStability(r Rating) float64 {
	return clampStability(f.w[r-1])
}

// initialDifficulty seeds difficulty from the first grade:
// D0(G) = w[4] - e^(w[5]*(G-1)) + 1.
func (f *forgettingCurve) initialDifficulty(r Rating, clamp bool) float64 {
	d := f.w[4] - math.Exp(f.w[5]*float64(r-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextDifficulty moves difficulty toward the grade's target with linear
// damping, then applies mean reversion toward D0(Easy):
//
//	D'  = D + (10-D) * (-w[6]*(G-3)) / 9
//	D'' = w[7]*D0(Easy) + (1-w[7])*D'
func (f *forgettingCurve) nextDifficulty(d float64, r Rating) float64 {
	delta := -f.w[6] * (float64(r) - 3)
	damped := d + (10-d)*delta/9
	reverted := f.w[7]*f.initialDifficulty(Easy, false) + (1-f.w[7])*damped
	return clampDifficulty(reverted)
}

// nextStability grows or shrinks stability for a cross-day review at
// retrievability retr.
func (f *forgettingCurve) nextStability(d, s, retr float64, r Rating) float64 {
	if r == Again {
		return clampStability(f.forgetStability(d, s, retr))
	}
	return clampStability(f.recallStability(d, s, retr, r))
}

// recallStability multiplies stability after a successful recall:
// S' = S * (1 + e^w[8] * (11-D) * S^-w[9] * (e^((1-R)*w[10]) - 1) * penalty * bonus).
// Lower difficulty, lower stability, and lower retrievability all enlarge the
// growth term.
func (f *forgettingCurve) recallStability(d, s, retr float64, r Rating) float64 {
	penalty := 1.0
	if r == Hard {
		penalty = f.w[15]
	}
	bonus := 1.0
	if r == Easy {
		bonus = f.w[16]
	}
	growth := math.Exp(f.w[8]) *
		(11 - d) *
		math.Pow(s, -f.w[9]) *
		(math.Exp((1-retr)*f.w[10]) - 1) *
		penalty * bonus
	return s * (1 + growth)
}

// forgetStability computes post-lapse stability, capped so a lapse can never
// leave the card more stable than a same-day Again would:
//
//	long  = w[11] * D^-w[12] * ((S+1)^w[13] - 1) * e^((1-R)*w[14])
//	short = S / e^(w[17]*w[18])
func (f *forgettingCurve) forgetStability(d, s, retr float64) float64 {
	long := f.w[11] *
		math.Pow(d, -f.w[12]) *
		(math.Pow(s+1, f.w[13]) - 1) *
		math.Exp((1-retr)*f.w[14])
	short := s / math.Exp(f.w[17]*f.w[18])
	return math.Min(long, short)
}

// sameDayStability handles a repeat review within one day, where the full
// forgetting curve does not apply:
// S' = S * e^(w[17]*(G-3+w[18])) * S^-w[19], never shrinking on Good/Easy.
func (f *forgettingCurve) sameDayStability(s float64, r Rating) float64 {
	inc := math.Exp(f.w[17]*(float64(r)-3+f.w[18])) * math.Pow(s, -f.w[19])
	if r == Good || r == Easy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(s * inc)
}

func clampStability(s float64) float64 {
	return math.Max(s, minStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
