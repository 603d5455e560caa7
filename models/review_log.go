package models

import (
	"time"

	"flashcard-review-system/srs"
)

// ReviewLog is the append-only audit record of one graded review. Rows are
// never updated or deleted; streak and accuracy analytics read them as-is.
type ReviewLog struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	CardID         string     `gorm:"index;not null" json:"card_id"`
	ExternalUserID string     `gorm:"index;not null" json:"external_user_id"`
	Rating         srs.Rating `gorm:"not null" json:"rating"`
	State          srs.State  `gorm:"not null" json:"state"`
	ScheduledDays  int        `gorm:"not null" json:"scheduled_days"`
	Stability      float64    `gorm:"not null" json:"stability"`
	ReviewedAt     time.Time  `gorm:"index;not null" json:"reviewed_at"`
	TimeSpentMs    *int       `json:"time_spent_ms,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
