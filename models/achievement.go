package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Requirement predicate types evaluated by the achievement service.
const (
	RequirementReviewCount = "review_count"
	RequirementStreak      = "streak"
	RequirementLevel       = "level"
	RequirementDeckCount   = "deck_count"
	RequirementAICardCount = "ai_card_count"
)

// Achievement: static catalog row. Code is the URL-safe slug of the name.
type Achievement struct {
	ID               string    `gorm:"primaryKey;type:uuid" json:"id"`
	Code             string    `gorm:"uniqueIndex;not null" json:"code"` // e.g. "week-warrior"
	Name             string    `gorm:"not null" json:"name"`
	Description      string    `json:"description"`
	RequirementType  string    `gorm:"type:varchar(32);not null" json:"requirement_type"`
	RequirementValue int64     `gorm:"not null" json:"requirement_value"`
	XPReward         int64     `gorm:"default:0" json:"xp_reward"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserAchievement: one unlock per (user, achievement), ever. The composite
// unique index is what makes concurrent evaluations safe.
type UserAchievement struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string    `gorm:"not null;index:idx_user_achievement,unique" json:"external_user_id"`
	AchievementID  string    `gorm:"not null;index:idx_user_achievement,unique" json:"achievement_id"`
	UnlockedAt     time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

// AchievementCatalog is the built-in achievement set. Codes are derived from
// the names at seed time.
var AchievementCatalog = []Achievement{
	{
		Name:             "First Steps",
		Description:      "Complete your first review",
		RequirementType:  RequirementReviewCount,
		RequirementValue: 1,
		XPReward:         10,
	},
	{
		Name:             "Century Scholar",
		Description:      "Complete 100 reviews",
		RequirementType:  RequirementReviewCount,
		RequirementValue: 100,
		XPReward:         100,
	},
	{
		Name:             "Thousand Cards Deep",
		Description:      "Complete 1000 reviews",
		RequirementType:  RequirementReviewCount,
		RequirementValue: 1000,
		XPReward:         500,
	},
	{
		Name:             "Week Warrior",
		Description:      "Study 7 days in a row",
		RequirementType:  RequirementStreak,
		RequirementValue: 7,
		XPReward:         50,
	},
	{
		Name:             "Monthly Devotion",
		Description:      "Study 30 days in a row",
		RequirementType:  RequirementStreak,
		RequirementValue: 30,
		XPReward:         250,
	},
	{
		Name:             "Rising Star",
		Description:      "Reach level 5",
		RequirementType:  RequirementLevel,
		RequirementValue: 5,
		XPReward:         100,
	},
	{
		Name:             "Seasoned Scholar",
		Description:      "Reach level 10",
		RequirementType:  RequirementLevel,
		RequirementValue: 10,
		XPReward:         300,
	},
	{
		Name:             "Deck Architect",
		Description:      "Own 5 decks",
		RequirementType:  RequirementDeckCount,
		RequirementValue: 5,
		XPReward:         50,
	},
	{
		Name:             "AI Apprentice",
		Description:      "Study 10 AI-generated cards",
		RequirementType:  RequirementAICardCount,
		RequirementValue: 10,
		XPReward:         25,
	},
}

// SeedAchievements inserts any catalog rows not yet present (idempotent).
func SeedAchievements(db *gorm.DB) error {
	for _, a := range AchievementCatalog {
		a.ID = uuid.NewString()
		a.Code = slug.Make(a.Name)
		if err := db.Where("code = ?", a.Code).FirstOrCreate(&a).Error; err != nil {
			return err
		}
	}
	return nil
}
