// handlers/review_routes.go
package handlers

import (
	"errors"
	"strconv"

	"flashcard-review-system/middleware"
	"flashcard-review-system/services"
	"flashcard-review-system/srs"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App, reviewService *services.ReviewService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// POST /reviews — grade one card and persist its new schedule.
	secured.Post("/reviews", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			CardID      string `json:"card_id"`
			Rating      int    `json:"rating"` // 1=again … 4=easy
			TimeSpentMs *int   `json:"time_spent_ms,omitempty"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.CardID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "card_id is required",
			})
		}

		card, err := reviewService.CommitReview(userID, req.CardID, srs.Rating(req.Rating), req.TimeSpentMs)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidRating):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrCardNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, services.ErrNotCardOwner):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to commit review",
					"cause": err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{
			"card":        card,
			"next_due_at": card.Due,
		})
	})

	// GET /reviews/due?deck_id=&limit= — cards eligible for review, oldest first.
	secured.Get("/reviews/due", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		deckID := c.Query("deck_id")
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		cards, err := reviewService.DueCards(userID, deckID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch due cards",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"cards": cards,
			"count": len(cards),
		})
	})
}
