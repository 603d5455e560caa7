package models

import (
	"time"

	"github.com/google/uuid"

	"flashcard-review-system/srs"
)

// Card is a flashcard plus its denormalized scheduling state. Content fields
// are opaque to the scheduler; only the commit pipeline mutates the
// scheduling columns.
type Card struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	DeckID string `gorm:"index;not null" json:"deck_id"`

	Front       string `gorm:"type:text;not null" json:"front"`
	Back        string `gorm:"type:text;not null" json:"back"`
	AIGenerated bool   `gorm:"default:false" json:"ai_generated"`

	// Scheduling state (see srs.ScheduleState)
	State         srs.State  `gorm:"default:0;index" json:"state"`
	Step          int        `gorm:"default:0" json:"step"`
	Stability     float64    `gorm:"default:0" json:"stability"`
	Difficulty    float64    `gorm:"default:0" json:"difficulty"`
	ElapsedDays   int        `gorm:"default:0" json:"elapsed_days"`
	ScheduledDays int        `gorm:"default:0" json:"scheduled_days"`
	Reps          int        `gorm:"default:0" json:"reps"`
	Lapses        int        `gorm:"default:0" json:"lapses"`
	Due           time.Time  `gorm:"index;not null" json:"due"`
	LastReview    *time.Time `json:"last_review,omitempty"`

	Timestamps
}

// NewCard returns an unsaved card in the New state, due immediately.
func NewCard(deckID, front, back string) Card {
	return Card{
		ID:     uuid.NewString(),
		DeckID: deckID,
		Front:  front,
		Back:   back,
		State:  srs.New,
		Due:    time.Now().UTC(),
	}
}

// ScheduleState assembles the pure scheduler input from the stored columns.
func (c *Card) ScheduleState() srs.ScheduleState {
	st := srs.ScheduleState{
		State:         c.State,
		Step:          c.Step,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		Reps:          c.Reps,
		Lapses:        c.Lapses,
		Due:           c.Due,
	}
	if c.LastReview != nil {
		st.LastReview = *c.LastReview
	}
	return st
}

// ApplySchedule writes a scheduler result back onto the card's columns.
func (c *Card) ApplySchedule(st srs.ScheduleState) {
	c.State = st.State
	c.Step = st.Step
	c.Stability = st.Stability
	c.Difficulty = st.Difficulty
	c.ElapsedDays = st.ElapsedDays
	c.ScheduledDays = st.ScheduledDays
	c.Reps = st.Reps
	c.Lapses = st.Lapses
	c.Due = st.Due
	last := st.LastReview
	c.LastReview = &last
}
