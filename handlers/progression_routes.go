// handlers/progression_routes.go
package handlers

import (
	"errors"

	"flashcard-review-system/middleware"
	"flashcard-review-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(app *fiber.App, progressionService *services.ProgressionService, achievementService *services.AchievementService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// POST /sessions/complete — close a study session: streak, XP, achievements.
	secured.Post("/sessions/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			CorrectCount   int `json:"correct_count"`
			IncorrectCount int `json:"incorrect_count"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		result, err := progressionService.CompleteSession(userID, req.CorrectCount, req.IncorrectCount)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSessionCounts) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete session",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	// GET /progress — XP, level boundaries, streaks.
	secured.Get("/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		summary, err := progressionService.GetProgressSummary(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(summary)
	})

	// GET /progress/achievements — catalog plus the caller's unlock state.
	secured.Get("/progress/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		achievements, err := achievementService.ListAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(achievements)
	})

	// Admin endpoints
	adminGroup := app.Group("/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id"`
			XP     int64  `json:"xp"`
			Reason string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.UserID == "" || req.XP == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id and a non-zero xp amount are required",
			})
		}

		prog, leveledUp, err := progressionService.AwardXP(req.UserID, req.XP, "admin_grant_"+req.Reason, "")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"user_id":    req.UserID,
			"new_xp":     prog.XP,
			"new_level":  prog.Level,
			"leveled_up": leveledUp,
		})
	})
}
