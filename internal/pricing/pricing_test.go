package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andestrip/registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.RsvpRecord{}, &models.ChoiceEvent{}, &models.Registration{}); err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	return db
}

func TestSummary(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.RsvpRecord{Email: "ana@x.com", BasePrice: 1200})
	db.Create(&models.ChoiceEvent{Email: "ana@x.com", ItemKey: "tango-night", Option: "tango", Choice: "yes", Value: 25})
	db.Create(&models.ChoiceEvent{Email: "ana@x.com", ItemKey: "bariloche-activity", Option: "rafting", Choice: "no", Value: 0})
	db.Create(&models.Registration{
		Email:              "ana@x.com",
		RegistrationFields: models.RegistrationFields{RoomType: "single", ExtraLuggage: 2},
	})

	calc := NewCalculator(db, nil)
	summary, err := calc.Summary(context.Background(), "Ana@X.com")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	if summary.BasePrice != 1200 {
		t.Errorf("expected base 1200, got %d", summary.BasePrice)
	}
	if summary.ChoicesTotal != 25 {
		t.Errorf("expected choices total 25, got %d", summary.ChoicesTotal)
	}
	if summary.RoomSurcharge != 400 {
		t.Errorf("expected single-room surcharge 400, got %d", summary.RoomSurcharge)
	}
	if summary.LuggageFee != 60 {
		t.Errorf("expected luggage fee 60, got %d", summary.LuggageFee)
	}
	if want := 1200 + 25 + 400 + 60; summary.Total != want {
		t.Errorf("expected total %d, got %d", want, summary.Total)
	}
}

func TestSummaryWithoutRegistration(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.RsvpRecord{Email: "ana@x.com", BasePrice: 1200})

	calc := NewCalculator(db, nil)
	summary, err := calc.Summary(context.Background(), "ana@x.com")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.Total != 1200 {
		t.Errorf("expected bare base price 1200, got %d", summary.Total)
	}
}

func TestSummaryUnknownTraveler(t *testing.T) {
	calc := NewCalculator(setupDB(t), nil)

	_, err := calc.Summary(context.Background(), "ghost@x.com")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestSummaryCacheAndInvalidation(t *testing.T) {
	db := setupDB(t)
	db.Create(&models.RsvpRecord{Email: "ana@x.com", BasePrice: 1200})

	cache := NewCache(nil, time.Minute)
	calc := NewCalculator(db, cache)
	ctx := context.Background()

	first, err := calc.Summary(ctx, "ana@x.com")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}

	// A write the calculator does not see: without invalidation the
	// cached view is returned.
	db.Create(&models.ChoiceEvent{Email: "ana@x.com", ItemKey: "tango-night", Option: "tango", Choice: "yes", Value: 25})

	cached, _ := calc.Summary(ctx, "ana@x.com")
	if cached.Total != first.Total {
		t.Errorf("expected cached total %d, got %d", first.Total, cached.Total)
	}

	cache.Invalidate(ctx, "ana@x.com")

	fresh, _ := calc.Summary(ctx, "ana@x.com")
	if fresh.Total != first.Total+25 {
		t.Errorf("expected recomputed total %d, got %d", first.Total+25, fresh.Total)
	}
}

func TestCacheNilRedisDegrades(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "ana@x.com"); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Set(ctx, "ana@x.com", Summary{Email: "ana@x.com", Total: 10})
	got, ok := cache.Get(ctx, "ana@x.com")
	if !ok || got.Total != 10 {
		t.Errorf("expected in-memory hit with total 10, got %v ok=%v", got, ok)
	}

	cache.Invalidate(ctx, "ana@x.com")
	if _, ok := cache.Get(ctx, "ana@x.com"); ok {
		t.Error("expected miss after invalidation")
	}
}
