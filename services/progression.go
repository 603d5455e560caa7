package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"flashcard-review-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPWeights define relative values (tunable via config/env later)
type XPWeights struct {
	CorrectAnswerXP   int64
	IncorrectAnswerXP int64
}

var DefaultXPWeights = XPWeights{
	CorrectAnswerXP:   10,
	IncorrectAnswerXP: 2, // showing up still counts
}

// ErrInvalidSessionCounts rejects negative or empty session summaries.
var ErrInvalidSessionCounts = errors.New("session counts must be non-negative and total at least one")

// LevelForXP derives the display level: floor(sqrt(xp/100)) + 1.
// Level 1 covers 0-99 XP, level 2 starts at 100, level 3 at 400, and so on.
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Sqrt(float64(xp)/100.0)) + 1
}

// XPForLevel is the cumulative XP at which the given level begins.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return 100 * n * n
}

// streakDay formats a moment as its UTC calendar day. All streak comparisons
// happen on these strings, so a user's streak day boundary is midnight UTC
// regardless of where they study from.
func streakDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProgressRecord ensures a UserProgress row exists (idempotent)
func (s *ProgressionService) EnsureProgressRecord(externalUserID string) (*models.UserProgress, error) {
	var prog models.UserProgress
	err := s.DB.Where("external_user_id = ?", externalUserID).First(&prog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		prog = models.UserProgress{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			XP:             0,
			Level:          1,
		}
		if err := s.DB.Create(&prog).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a first-call race; the row exists now.
				if err := s.DB.Where("external_user_id = ?", externalUserID).First(&prog).Error; err != nil {
					return nil, err
				}
				return &prog, nil
			}
			return nil, err
		}
		return &prog, nil
	}
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// AwardXP adds amount to the user's XP with an atomic in-database increment,
// rederives the level, and appends an immutable XPTransaction. Negative
// amounts are admin corrections; XP never drops below zero. metadata is
// either empty or a JSON document. Returns the updated progress and whether
// the level increased.
func (s *ProgressionService) AwardXP(externalUserID string, amount int64, reason, metadata string) (*models.UserProgress, bool, error) {
	if _, err := s.EnsureProgressRecord(externalUserID); err != nil {
		return nil, false, err
	}

	var updated models.UserProgress
	leveledUp := false
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Atomic increment: concurrent awards for the same user must not
		// lose each other's updates.
		if err := tx.Model(&models.UserProgress{}).
			Where("external_user_id = ?", externalUserID).
			UpdateColumn("xp", gorm.Expr("xp + ?", amount)).Error; err != nil {
			return err
		}

		if err := tx.Where("external_user_id = ?", externalUserID).First(&updated).Error; err != nil {
			return err
		}
		if updated.XP < 0 {
			updated.XP = 0
			if err := tx.Model(&updated).UpdateColumn("xp", 0).Error; err != nil {
				return err
			}
		}

		oldLevel := updated.Level
		newLevel := LevelForXP(updated.XP)
		if newLevel != oldLevel {
			changes := map[string]interface{}{"level": newLevel}
			if newLevel > oldLevel {
				now := time.Now()
				changes["last_level_up_at"] = &now
				updated.LastLevelUpAt = &now
				leveledUp = true
			}
			if err := tx.Model(&updated).Updates(changes).Error; err != nil {
				return err
			}
			updated.Level = newLevel
		}

		txn := models.XPTransaction{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Amount:         amount,
			Reason:         reason,
		}
		// jsonb rejects the empty string; no metadata means NULL.
		if metadata != "" {
			txn.Metadata = &metadata
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, false, err
	}

	log.Printf("[XP] %s %+d → xp=%d lvl=%d (reason: %s)",
		externalUserID, amount, updated.XP, updated.Level, reason)
	return &updated, leveledUp, nil
}

// StreakResult reports the streak after recording a study day.
type StreakResult struct {
	CurrentStreak  int  `json:"current_streak"`
	LongestStreak  int  `json:"longest_streak"`
	StreakExtended bool `json:"streak_extended"`
}

// RecordStudyActivity marks the given moment's UTC calendar day as studied.
// Same-day repeats are no-ops, a consecutive day extends the streak, any gap
// restarts it at 1. LongestStreak never decreases.
func (s *ProgressionService) RecordStudyActivity(externalUserID string, at time.Time) (*StreakResult, error) {
	if _, err := s.EnsureProgressRecord(externalUserID); err != nil {
		return nil, err
	}

	today := streakDay(at)
	yesterday := streakDay(at.AddDate(0, 0, -1))

	var result StreakResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var prog models.UserProgress
		if err := tx.Where("external_user_id = ?", externalUserID).First(&prog).Error; err != nil {
			return err
		}

		switch prog.LastStudyDate {
		case today:
			// Already counted today.
		case yesterday:
			prog.CurrentStreak++
			result.StreakExtended = true
		default:
			prog.CurrentStreak = 1
			result.StreakExtended = true
		}

		if prog.CurrentStreak > prog.LongestStreak {
			prog.LongestStreak = prog.CurrentStreak
		}
		prog.LastStudyDate = today

		result.CurrentStreak = prog.CurrentStreak
		result.LongestStreak = prog.LongestStreak
		return tx.Save(&prog).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SessionResult summarizes XP, level and achievement changes after a
// completed study session.
type SessionResult struct {
	XPGained             int64                `json:"xp_gained"`
	NewXP                int64                `json:"new_xp"`
	NewLevel             int                  `json:"new_level"`
	LeveledUp            bool                 `json:"leveled_up"`
	CurrentStreak        int                  `json:"current_streak"`
	LongestStreak        int                  `json:"longest_streak"`
	AchievementsUnlocked []models.Achievement `json:"achievements_unlocked"`
}

// CompleteSession finalizes a study session: records the study day, awards
// weighted XP, then evaluates achievements. Grading already committed per
// card, so nothing here can undo reviews; achievement evaluation is
// best-effort and its failure only costs the summary, never the XP award.
func (s *ProgressionService) CompleteSession(externalUserID string, correctCount, incorrectCount int) (*SessionResult, error) {
	if correctCount < 0 || incorrectCount < 0 || correctCount+incorrectCount == 0 {
		return nil, fmt.Errorf("%w: correct=%d incorrect=%d", ErrInvalidSessionCounts, correctCount, incorrectCount)
	}

	before, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return nil, err
	}
	startLevel := before.Level

	streak, err := s.RecordStudyActivity(externalUserID, time.Now())
	if err != nil {
		return nil, err
	}

	sessionXP := int64(correctCount)*DefaultXPWeights.CorrectAnswerXP +
		int64(incorrectCount)*DefaultXPWeights.IncorrectAnswerXP
	reason := fmt.Sprintf("session_completed_%d_correct_%d_incorrect", correctCount, incorrectCount)
	prog, _, err := s.AwardXP(externalUserID, sessionXP, reason, "")
	if err != nil {
		return nil, err
	}

	result := &SessionResult{
		XPGained:             sessionXP,
		NewXP:                prog.XP,
		NewLevel:             prog.Level,
		LeveledUp:            prog.Level > startLevel,
		CurrentStreak:        streak.CurrentStreak,
		LongestStreak:        streak.LongestStreak,
		AchievementsUnlocked: []models.Achievement{},
	}

	unlocked, achievementXP, err := NewAchievementService(s.DB).EvaluateAchievements(externalUserID)
	if err != nil {
		// The session itself succeeded; a lost achievement pass is
		// recoverable on the next evaluation.
		log.Printf("[SESSION] achievement evaluation failed for %s: %v", externalUserID, err)
		return result, nil
	}
	if len(unlocked) > 0 {
		result.AchievementsUnlocked = unlocked
		result.XPGained += achievementXP
		if refreshed, err := s.EnsureProgressRecord(externalUserID); err == nil {
			result.NewXP = refreshed.XP
			result.NewLevel = refreshed.Level
			result.LeveledUp = refreshed.Level > startLevel
		}
	}
	return result, nil
}

// ProgressSummary is the response shape of GET /progress.
type ProgressSummary struct {
	XP             int64   `json:"xp"`
	Level          int     `json:"level"`
	CurrentLevelXP int64   `json:"current_level_xp"`
	NextLevelXP    int64   `json:"next_level_xp"`
	ProgressPct    float64 `json:"progress_pct"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	LastStudyDate  string  `json:"last_study_date,omitempty"`
}

// GetProgressSummary returns the user's XP, level boundaries and streaks.
func (s *ProgressionService) GetProgressSummary(externalUserID string) (*ProgressSummary, error) {
	prog, err := s.EnsureProgressRecord(externalUserID)
	if err != nil {
		return nil, err
	}

	cur := XPForLevel(prog.Level)
	next := XPForLevel(prog.Level + 1)
	pct := 0.0
	if next > cur {
		pct = float64(prog.XP-cur) / float64(next-cur) * 100.0
	}
	if pct > 100 {
		pct = 100
	}

	return &ProgressSummary{
		XP:             prog.XP,
		Level:          prog.Level,
		CurrentLevelXP: cur,
		NextLevelXP:    next,
		ProgressPct:    math.Round(pct*10) / 10,
		CurrentStreak:  prog.CurrentStreak,
		LongestStreak:  prog.LongestStreak,
		LastStudyDate:  prog.LastStudyDate,
	}, nil
}
