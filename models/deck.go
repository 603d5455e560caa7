package models

import "github.com/google/uuid"

// Deck carries only what the review subsystem needs: ownership for access
// checks and a name for display. Full deck CRUD lives in the content service.
type Deck struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	Name           string `gorm:"not null" json:"name"`

	Timestamps
}

// NewDeck returns an unsaved deck owned by the given user.
func NewDeck(externalUserID, name string) Deck {
	return Deck{
		ID:             uuid.NewString(),
		ExternalUserID: externalUserID,
		Name:           name,
	}
}
