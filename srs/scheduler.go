package srs

import (
	"fmt"
	"time"
)

// ScheduleState is the complete scheduling state of one card. The zero value
// describes a brand-new, never-reviewed card that is due immediately.
type ScheduleState struct {
	State         State     `json:"state"`
	Step          int       `json:"step"`           // position in the learning/relearning ladder
	Stability     float64   `json:"stability"`      // 0 before first review
	Difficulty    float64   `json:"difficulty"`     // 0 before first review
	ElapsedDays   int       `json:"elapsed_days"`   // whole days since the previous review
	ScheduledDays int       `json:"scheduled_days"` // the interval just scheduled
	Reps          int       `json:"reps"`
	Lapses        int       `json:"lapses"`
	Due           time.Time `json:"due"`
	LastReview    time.Time `json:"last_review"` // zero before first review
}

// Scheduler computes review schedules from graded recalls. It is stateless
// across calls and safe for concurrent use.
type Scheduler struct {
	curve            forgettingCurve
	desiredRetention float64
	learningSteps    int
	relearningSteps  int
	maximumInterval  int
}

// NewScheduler builds a Scheduler from p, filling zero-value fields with
// defaults and rejecting out-of-range values.
func NewScheduler(p Params) (*Scheduler, error) {
	w := p.Weights
	if w == ([21]float64{}) {
		w = DefaultWeights
	}
	if err := validateWeights(w); err != nil {
		return nil, err
	}

	retention := p.DesiredRetention
	if retention == 0 {
		retention = 0.9
	}
	if retention < 0 || retention > 1 {
		return nil, fmt.Errorf("srs: desired retention %g outside (0, 1]", retention)
	}

	maxIvl := p.MaximumInterval
	if maxIvl == 0 {
		maxIvl = 36500
	}
	if maxIvl < 0 {
		return nil, fmt.Errorf("srs: maximum interval %d must be positive", maxIvl)
	}

	learning := p.LearningSteps
	if learning == 0 {
		learning = 2
	}
	relearning := p.RelearningSteps
	if relearning == 0 {
		relearning = 1
	}
	if learning < 0 || relearning < 0 {
		return nil, fmt.Errorf("srs: step counts must be non-negative")
	}

	return &Scheduler{
		curve:            newForgettingCurve(w),
		desiredRetention: retention,
		learningSteps:    learning,
		relearningSteps:  relearning,
		maximumInterval:  maxIvl,
	}, nil
}

// Schedule grades the card and returns its next scheduling state. The input
// is not mutated. An invalid rating is a programmer error and panics.
//
// Reps increments on every call. A card in Review graded Again lapses into
// Relearning with a same-day due date; every other grade schedules at least
// one day ahead.
func (s *Scheduler) Schedule(cur ScheduleState, rating Rating, now time.Time) ScheduleState {
	if !rating.IsValid() {
		panic(fmt.Sprintf("srs: invalid rating %d", int(rating)))
	}

	next := cur

	// Elapsed time since the previous review. The memory update only
	// credits up to the scheduled interval so an overdue review does not
	// overstate memory strength; the recorded ElapsedDays stays raw.
	var elapsed, credited float64
	if !cur.LastReview.IsZero() {
		elapsed = now.Sub(cur.LastReview).Hours() / 24.0
		if elapsed < 0 {
			elapsed = 0
		}
		credited = elapsed
		if cur.ScheduledDays > 0 && credited > float64(cur.ScheduledDays) {
			credited = float64(cur.ScheduledDays)
		}
	}

	s.updateMemory(&next, rating, credited)
	days := s.transition(&next, rating)

	next.Reps = cur.Reps + 1
	next.ElapsedDays = int(elapsed)
	next.ScheduledDays = days
	next.Due = now.AddDate(0, 0, days)
	next.LastReview = now
	return next
}

// Retrievability estimates the probability of recalling the card at the given
// time. Returns 0 for a never-reviewed card.
func (s *Scheduler) Retrievability(st ScheduleState, now time.Time) float64 {
	if st.LastReview.IsZero() || st.Stability <= 0 {
		return 0
	}
	elapsed := now.Sub(st.LastReview).Hours() / 24.0
	if elapsed < 0 {
		elapsed = 0
	}
	return s.curve.retrievability(elapsed, st.Stability)
}

// updateMemory revises stability and difficulty for the graded recall.
func (s *Scheduler) updateMemory(st *ScheduleState, rating Rating, elapsed float64) {
	if st.Reps == 0 {
		st.Stability = s.curve.initialStability(rating)
		st.Difficulty = s.curve.initialDifficulty(rating, true)
		return
	}

	if elapsed < 1 {
		st.Stability = s.curve.sameDayStability(st.Stability, rating)
	} else {
		retr := s.curve.retrievability(elapsed, st.Stability)
		st.Stability = s.curve.nextStability(st.Difficulty, st.Stability, retr, rating)
	}
	st.Difficulty = s.curve.nextDifficulty(st.Difficulty, rating)
}

// transition applies the state machine and returns the interval in days.
func (s *Scheduler) transition(st *ScheduleState, rating Rating) int {
	switch st.State {
	case New:
		st.State = Learning
		st.Step = 0
		return s.climb(st, rating, s.learningSteps)
	case Learning:
		return s.climb(st, rating, s.learningSteps)
	case Relearning:
		return s.climb(st, rating, s.relearningSteps)
	default: // Review
		if rating == Again {
			st.Lapses++
			st.State = Relearning
			st.Step = 0
			return 0
		}
		return s.stableInterval(st)
	}
}

// climb advances a Learning/Relearning card through its step ladder. Again
// restarts the ladder with a same-day repeat, Hard holds the current step,
// Good advances one step, Easy graduates outright.
func (s *Scheduler) climb(st *ScheduleState, rating Rating, ladder int) int {
	switch rating {
	case Again:
		st.Step = 0
		return 0
	case Hard:
		return s.stableInterval(st)
	case Good:
		st.Step++
		if st.Step >= ladder {
			return s.graduate(st)
		}
		return s.stableInterval(st)
	default: // Easy
		return s.graduate(st)
	}
}

// graduate promotes the card to the long-term Review cycle.
func (s *Scheduler) graduate(st *ScheduleState) int {
	st.State = Review
	st.Step = 0
	return s.stableInterval(st)
}

func (s *Scheduler) stableInterval(st *ScheduleState) int {
	return s.curve.interval(st.Stability, s.desiredRetention, s.maximumInterval)
}
