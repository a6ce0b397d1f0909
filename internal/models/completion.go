package models

import (
	"gorm.io/gorm"
)

// CompletionEntry marks a traveler as having answered every pending
// add-on choice. The roster is derived from the choice log and the
// legacy registration flags; it is a cache, not the source of truth.
type CompletionEntry struct {
	gorm.Model
	Email string `gorm:"uniqueIndex" json:"email"`
}
