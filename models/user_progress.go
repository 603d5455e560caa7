package models

import (
	"time"

	"gorm.io/gorm"
)

// UserProgress tracks gamified progression for each user (denormalized for
// performance). Level is derived from XP and recomputed on every award;
// streak dates are UTC calendar days stored as YYYY-MM-DD strings.
type UserProgress struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to profile service

	// Core progression
	XP    int64 `json:"xp" gorm:"default:0"`
	Level int   `json:"level" gorm:"default:1"`

	// Daily streaks
	CurrentStreak int    `json:"current_streak" gorm:"default:0"`
	LongestStreak int    `json:"longest_streak" gorm:"default:0"`
	LastStudyDate string `json:"last_study_date" gorm:"type:varchar(10);default:''"` // "" until first study

	// Milestones
	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
