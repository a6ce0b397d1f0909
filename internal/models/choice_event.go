package models

import (
	"gorm.io/gorm"
)

// ChoiceEvent is append-only: one row per answer a traveler gives to an
// add-on option. A traveler may answer each (item, option) pair exactly
// once; the composite unique index backs the duplicate check so a
// concurrent second write fails at the database instead of slipping
// through. CreatedAt is audit only and never used for ordering.
type ChoiceEvent struct {
	gorm.Model
	Email   string `gorm:"uniqueIndex:idx_choice_key" json:"email"`
	ItemKey string `gorm:"uniqueIndex:idx_choice_key" json:"item_key"`
	Option  string `gorm:"uniqueIndex:idx_choice_key" json:"option"`
	Choice  string `json:"choice"` // "yes" or "no"
	Value   int    `json:"value"`  // euros; always 0 when Choice is "no"
}
