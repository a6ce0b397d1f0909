// Package pricing derives a traveler's displayed total. Arithmetic
// only; the numbers come from the RSVP base price, accepted add-on
// values and the registration surcharges.
package pricing

import (
	"context"
	"errors"

	"github.com/andestrip/registration-api/internal/models"
	"gorm.io/gorm"
)

// Room surcharges and the per-bag fee for luggage beyond the included
// allowance, in euros.
const (
	singleRoomSurcharge = 400
	extraLuggageFee     = 30
)

type Summary struct {
	Email         string `json:"email"`
	BasePrice     int    `json:"base_price"`
	ChoicesTotal  int    `json:"choices_total"`
	RoomSurcharge int    `json:"room_surcharge"`
	LuggageFee    int    `json:"luggage_fee"`
	Total         int    `json:"total"`
}

type Calculator struct {
	db    *gorm.DB
	cache *Cache
}

func NewCalculator(db *gorm.DB, cache *Cache) *Calculator {
	return &Calculator{db: db, cache: cache}
}

// Summary computes (or returns the cached) pricing view for a
// traveler. A missing RSVP record is surfaced as gorm.ErrRecordNotFound.
func (c *Calculator) Summary(ctx context.Context, email string) (Summary, error) {
	norm := models.NormalizeKey(email)

	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, norm); ok {
			return cached, nil
		}
	}

	var rsvp models.RsvpRecord
	if err := c.db.WithContext(ctx).Where("email = ?", norm).First(&rsvp).Error; err != nil {
		return Summary{}, err
	}

	var choicesTotal int
	err := c.db.WithContext(ctx).Model(&models.ChoiceEvent{}).
		Where("email = ?", norm).
		Select("COALESCE(SUM(value), 0)").
		Scan(&choicesTotal).Error
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Email:        norm,
		BasePrice:    rsvp.BasePrice,
		ChoicesTotal: choicesTotal,
	}

	var registration models.Registration
	err = c.db.WithContext(ctx).Where("email = ?", norm).First(&registration).Error
	if err == nil {
		if registration.RoomType == "single" {
			summary.RoomSurcharge = singleRoomSurcharge
		}
		summary.LuggageFee = registration.ExtraLuggage * extraLuggageFee
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Summary{}, err
	}

	summary.Total = summary.BasePrice + summary.ChoicesTotal + summary.RoomSurcharge + summary.LuggageFee

	if c.cache != nil {
		c.cache.Set(ctx, norm, summary)
	}
	return summary, nil
}
