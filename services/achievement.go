package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"flashcard-review-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// userStats are the aggregates achievement predicates evaluate against,
// recomputed from scratch on every pass.
type userStats struct {
	ReviewCount int64
	Streak      int64
	Level       int64
	DeckCount   int64
	AICardCount int64
}

func (s *AchievementService) collectStats(externalUserID string) (*userStats, error) {
	var prog models.UserProgress
	if err := s.DB.Where("external_user_id = ?", externalUserID).First(&prog).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// No progress row yet: every counter below still counts from zero.
	}

	stats := &userStats{
		Streak: int64(prog.CurrentStreak),
		Level:  int64(prog.Level),
	}

	if err := s.DB.Model(&models.ReviewLog{}).
		Where("external_user_id = ?", externalUserID).
		Count(&stats.ReviewCount).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Deck{}).
		Where("external_user_id = ?", externalUserID).
		Count(&stats.DeckCount).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.ReviewLog{}).
		Joins("JOIN cards ON cards.id = review_logs.card_id").
		Where("review_logs.external_user_id = ? AND cards.ai_generated = ?", externalUserID, true).
		Distinct("cards.id").
		Count(&stats.AICardCount).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (st *userStats) meets(a *models.Achievement) bool {
	switch a.RequirementType {
	case models.RequirementReviewCount:
		return st.ReviewCount >= a.RequirementValue
	case models.RequirementStreak:
		return st.Streak >= a.RequirementValue
	case models.RequirementLevel:
		return st.Level >= a.RequirementValue
	case models.RequirementDeckCount:
		return st.DeckCount >= a.RequirementValue
	case models.RequirementAICardCount:
		return st.AICardCount >= a.RequirementValue
	default:
		return false
	}
}

// EvaluateAchievements checks every locked achievement against fresh
// aggregates and unlocks the ones now satisfied, awarding their XP. Safe to
// re-run at any time: the unique (user, achievement) index turns a concurrent
// double-unlock into a harmless duplicate-key no-op.
func (s *AchievementService) EvaluateAchievements(externalUserID string) ([]models.Achievement, int64, error) {
	stats, err := s.collectStats(externalUserID)
	if err != nil {
		return nil, 0, err
	}

	var catalog []models.Achievement
	if err := s.DB.Order("requirement_value ASC").Find(&catalog).Error; err != nil {
		return nil, 0, err
	}

	unlockedIDs := map[string]bool{}
	var existing []models.UserAchievement
	if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&existing).Error; err != nil {
		return nil, 0, err
	}
	for _, ua := range existing {
		unlockedIDs[ua.AchievementID] = true
	}

	var unlocked []models.Achievement
	var xpGained int64
	for i := range catalog {
		a := &catalog[i]
		if unlockedIDs[a.ID] || !stats.meets(a) {
			continue
		}

		unlock := models.UserAchievement{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			AchievementID:  a.ID,
		}
		if err := s.DB.Create(&unlock).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with a concurrent evaluation; already unlocked.
				continue
			}
			return unlocked, xpGained, err
		}

		log.Printf("[ACHIEVEMENT] unlocked: %s → %s", a.Code, externalUserID)
		unlocked = append(unlocked, *a)

		if a.XPReward > 0 {
			reason := fmt.Sprintf("achievement_%s", a.Code)
			if _, _, err := NewProgressionService(s.DB).AwardXP(externalUserID, a.XPReward, reason, ""); err != nil {
				// The unlock is durable; the reward retries on admin action.
				log.Printf("[ACHIEVEMENT] XP award failed for %s: %v", a.Code, err)
				continue
			}
			xpGained += a.XPReward
		}
	}
	return unlocked, xpGained, nil
}

// ListAchievements returns the full catalog with the user's unlock times
// attached where present.
func (s *AchievementService) ListAchievements(externalUserID string) ([]AchievementStatus, error) {
	var catalog []models.Achievement
	if err := s.DB.Order("requirement_value ASC").Find(&catalog).Error; err != nil {
		return nil, err
	}

	var unlocks []models.UserAchievement
	if err := s.DB.Where("external_user_id = ?", externalUserID).Find(&unlocks).Error; err != nil {
		return nil, err
	}
	byAchievement := map[string]models.UserAchievement{}
	for _, ua := range unlocks {
		byAchievement[ua.AchievementID] = ua
	}

	out := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		status := AchievementStatus{Achievement: a}
		if ua, ok := byAchievement[a.ID]; ok {
			status.Unlocked = true
			status.UnlockedAt = &ua.UnlockedAt
		}
		out = append(out, status)
	}
	return out, nil
}

// AchievementStatus pairs a catalog row with the caller's unlock state.
type AchievementStatus struct {
	models.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
