package models

import (
	"gorm.io/gorm"
)

// RsvpRecord is the invite-side row for a traveler, seeded before the
// trip opens. Travelers authenticate against it; it never changes
// through this API.
type RsvpRecord struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex" json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	PartySize    int    `json:"party_size"`
	BasePrice    int    `json:"base_price"` // euros
}
