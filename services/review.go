package services

import (
	"errors"
	"fmt"
	"time"

	"flashcard-review-system/models"
	"flashcard-review-system/srs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Failure classes surfaced by the review pipeline. Handlers map these onto
// HTTP statuses.
var (
	ErrCardNotFound  = errors.New("card not found")
	ErrNotCardOwner  = errors.New("card belongs to another user's deck")
	ErrInvalidRating = errors.New("rating must be 1 (again) through 4 (easy)")
)

type ReviewService struct {
	DB        *gorm.DB
	Scheduler *srs.Scheduler
}

func NewReviewService(db *gorm.DB, scheduler *srs.Scheduler) *ReviewService {
	return &ReviewService{DB: db, Scheduler: scheduler}
}

// DueCards returns the caller's cards with due <= now, oldest-due first, ties
// broken by card id. deckID narrows to one deck when non-empty. Read-only.
func (s *ReviewService) DueCards(externalUserID, deckID string, limit int) ([]models.Card, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := s.DB.
		Select("cards.*").
		Joins("JOIN decks ON decks.id = cards.deck_id").
		Where("decks.external_user_id = ? AND decks.deleted_at IS NULL", externalUserID).
		Where("cards.due <= ?", time.Now().UTC())
	if deckID != "" {
		q = q.Where("cards.deck_id = ?", deckID)
	}

	var cards []models.Card
	err := q.Order("cards.due ASC, cards.id ASC").
		Limit(limit).
		Find(&cards).Error
	return cards, err
}

// CommitReview grades one card: it fetches the card, checks deck ownership,
// runs the memory model, and persists the new scheduling state together with
// the append-only review log entry in a single transaction. A committed card
// update therefore always has its log row.
func (s *ReviewService) CommitReview(externalUserID, cardID string, rating srs.Rating, timeSpentMs *int) (*models.Card, error) {
	if !rating.IsValid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, int(rating))
	}

	var card models.Card
	if err := s.DB.Where("id = ?", cardID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	var deck models.Deck
	if err := s.DB.Where("id = ?", card.DeckID).First(&deck).Error; err != nil {
		return nil, err
	}
	if deck.ExternalUserID != externalUserID {
		return nil, ErrNotCardOwner
	}

	now := time.Now().UTC()
	next := s.Scheduler.Schedule(card.ScheduleState(), rating, now)
	card.ApplySchedule(next)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&card).Error; err != nil {
			return err
		}
		entry := models.ReviewLog{
			ID:             uuid.NewString(),
			CardID:         card.ID,
			ExternalUserID: externalUserID,
			Rating:         rating,
			State:          next.State,
			ScheduledDays:  next.ScheduledDays,
			Stability:      next.Stability,
			ReviewedAt:     now,
			TimeSpentMs:    timeSpentMs,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}
