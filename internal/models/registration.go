package models

import (
	"gorm.io/gorm"
)

type RegistrationFields struct {
	RoomType      string `json:"room_type"`
	ExtraLuggage  int    `json:"extra_luggage"`
	PaymentMethod string `json:"payment_method"`
	DietaryNotes  string `json:"dietary_notes"`
	// Rafting and Tango were answered inside the old static form before
	// the choice log existed. They short-circuit the completion
	// predicate for travelers who committed back then.
	Rafting bool `json:"rafting"`
	Tango   bool `json:"tango"`
}

// Registration is write-once: one row per traveler, no update or
// delete path. Corrections happen out of band.
type Registration struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex" json:"email"`
	ConfirmationRef    string `json:"confirmation_ref"`
	RegistrationFields `gorm:"embedded"`
}
