package models

import "time"

// XPTransaction is the immutable audit record of one XP mutation. Amount is
// negative only for administrative corrections.
//
// Metadata is NULL unless the caller attaches a JSON document; jsonb rejects
// the empty string, so it must never be bound as "".
type XPTransaction struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"index;not null" json:"external_user_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	Reason         string    `gorm:"type:varchar(255);not null" json:"reason"` // e.g. "session_completed", "achievement_week-warrior"
	Metadata       *string   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
