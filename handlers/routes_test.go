package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flashcard-review-system/models"
	"flashcard-review-system/services"
	"flashcard-review-system/srs"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Deck{},
		&models.Card{},
		&models.ReviewLog{},
		&models.UserProgress{},
		&models.XPTransaction{},
		&models.Achievement{},
		&models.UserAchievement{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := models.SeedAchievements(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	scheduler, err := srs.NewScheduler(srs.DefaultParams())
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}

	app := fiber.New()
	SetupReviewRoutes(app, services.NewReviewService(db, scheduler))
	SetupProgressionRoutes(app, services.NewProgressionService(db), services.NewAchievementService(db))
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, userID string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestMissingUserContextIs401(t *testing.T) {
	app, _ := testApp(t)

	resp := doJSON(t, app, "GET", "/progress", "", nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestPostReviewValidation(t *testing.T) {
	app, db := testApp(t)

	deck := models.NewDeck("user-1", "deck")
	if err := db.Create(&deck).Error; err != nil {
		t.Fatalf("create deck: %v", err)
	}
	card := models.NewCard(deck.ID, "q", "a")
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card: %v", err)
	}

	// Bad rating.
	resp := doJSON(t, app, "POST", "/reviews", "user-1",
		fiber.Map{"card_id": card.ID, "rating": 9})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad rating: status = %d, want 400", resp.StatusCode)
	}

	// Unknown card.
	resp = doJSON(t, app, "POST", "/reviews", "user-1",
		fiber.Map{"card_id": "00000000-0000-0000-0000-000000000000", "rating": 3})
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("unknown card: status = %d, want 404", resp.StatusCode)
	}

	// Someone else's card.
	resp = doJSON(t, app, "POST", "/reviews", "user-2",
		fiber.Map{"card_id": card.ID, "rating": 3})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("foreign card: status = %d, want 403", resp.StatusCode)
	}
}

func TestReviewAndDueFlow(t *testing.T) {
	app, db := testApp(t)

	deck := models.NewDeck("user-1", "deck")
	if err := db.Create(&deck).Error; err != nil {
		t.Fatalf("create deck: %v", err)
	}
	card := models.NewCard(deck.ID, "q", "a")
	card.Due = time.Now().UTC().Add(-time.Minute)
	if err := db.Create(&card).Error; err != nil {
		t.Fatalf("create card: %v", err)
	}

	// The card shows up as due.
	resp := doJSON(t, app, "GET", "/reviews/due", "user-1", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("due: status = %d, want 200", resp.StatusCode)
	}
	var due struct {
		Count int `json:"count"`
	}
	decode(t, resp, &due)
	if due.Count != 1 {
		t.Fatalf("due count = %d, want 1", due.Count)
	}

	// Grade it Good.
	resp = doJSON(t, app, "POST", "/reviews", "user-1",
		fiber.Map{"card_id": card.ID, "rating": 3, "time_spent_ms": 3100})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("review: status = %d, want 200", resp.StatusCode)
	}
	var graded struct {
		Card      models.Card `json:"card"`
		NextDueAt time.Time   `json:"next_due_at"`
	}
	decode(t, resp, &graded)
	if graded.Card.State != srs.Learning {
		t.Errorf("state = %v, want learning", graded.Card.State)
	}
	if !graded.NextDueAt.After(time.Now()) {
		t.Errorf("next_due_at = %v, want in the future", graded.NextDueAt)
	}

	// No longer due.
	resp = doJSON(t, app, "GET", "/reviews/due", "user-1", nil)
	decode(t, resp, &due)
	if due.Count != 0 {
		t.Errorf("due count after review = %d, want 0", due.Count)
	}
}

func TestSessionCompleteAndProgress(t *testing.T) {
	app, _ := testApp(t)

	resp := doJSON(t, app, "POST", "/sessions/complete", "user-1",
		fiber.Map{"correct_count": 0, "incorrect_count": 0})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("empty session: status = %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/sessions/complete", "user-1",
		fiber.Map{"correct_count": 8, "incorrect_count": 2})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("session: status = %d, want 200", resp.StatusCode)
	}
	var session services.SessionResult
	decode(t, resp, &session)
	if session.XPGained != 84 {
		t.Errorf("xp_gained = %d, want 84", session.XPGained)
	}
	if session.CurrentStreak != 1 {
		t.Errorf("current_streak = %d, want 1", session.CurrentStreak)
	}

	resp = doJSON(t, app, "GET", "/progress", "user-1", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("progress: status = %d, want 200", resp.StatusCode)
	}
	var progress services.ProgressSummary
	decode(t, resp, &progress)
	if progress.XP != 84 || progress.Level != 1 {
		t.Errorf("progress = %+v, want xp 84 level 1", progress)
	}
	if progress.NextLevelXP != 100 {
		t.Errorf("next_level_xp = %d, want 100", progress.NextLevelXP)
	}

	resp = doJSON(t, app, "GET", "/progress/achievements", "user-1", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("achievements: status = %d, want 200", resp.StatusCode)
	}
	var achievements []services.AchievementStatus
	decode(t, resp, &achievements)
	if len(achievements) != len(models.AchievementCatalog) {
		t.Errorf("achievements = %d, want %d", len(achievements), len(models.AchievementCatalog))
	}
}
