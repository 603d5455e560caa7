// workers/streak_sweeper.go
package workers

import (
	"log"
	"time"

	"flashcard-review-system/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// SweepLapsedStreaks zeroes the displayed streak of every user whose last
// study day is before the given UTC moment's yesterday, i.e. whose streak is
// already broken. LongestStreak is never touched. Returns the number of rows
// reset.
func SweepLapsedStreaks(db *gorm.DB, now time.Time) (int64, error) {
	yesterday := now.UTC().AddDate(0, 0, -1).Format("2006-01-02")

	// ISO dates compare correctly as strings.
	res := db.Model(&models.UserProgress{}).
		Where("current_streak > 0 AND last_study_date <> '' AND last_study_date < ?", yesterday).
		Update("current_streak", 0)
	return res.RowsAffected, res.Error
}

// StartStreakSweeper launches a periodic job running SweepLapsedStreaks.
// Without it a broken streak would keep showing its old value until the
// user's next session.
func StartStreakSweeper(db *gorm.DB) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[StreakSweeper] failed to create scheduler: %v", err)
		return
	}
	sched.Start()

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			reset, err := SweepLapsedStreaks(db, time.Now())
			if err != nil {
				log.Printf("[StreakSweeper] DB error: %v", err)
				return
			}
			if reset > 0 {
				log.Printf("[StreakSweeper] reset %d lapsed streaks", reset)
			}
		}),
	)
	if err != nil {
		log.Printf("[StreakSweeper] failed to schedule job: %v", err)
	}
}
