// Package registration owns the write-once traveler registration row.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andestrip/registration-api/internal/models"
	"github.com/andestrip/registration-api/internal/notifier"
	"github.com/andestrip/registration-api/internal/queue"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrMissingEmail is returned when a submission carries no email.
var ErrMissingEmail = errors.New("registration requires an email")

// DuplicateRegistrationError is user-facing: travelers see the exact
// email that is already registered, not a generic conflict.
type DuplicateRegistrationError struct {
	Email string
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("email %s is already registered", e.Email)
}

// Invalidator drops a traveler's cached pricing view.
type Invalidator interface {
	Invalidate(ctx context.Context, email string)
}

// Store appends registrations. There is no update or delete path
// anywhere in the system; one row per traveler, forever.
type Store struct {
	db        *gorm.DB
	cache     Invalidator
	notifier  notifier.Notifier
	publisher *queue.Publisher
}

func NewStore(db *gorm.DB, cache Invalidator, n notifier.Notifier, publisher *queue.Publisher) *Store {
	return &Store{
		db:        db,
		cache:     cache,
		notifier:  n,
		publisher: publisher,
	}
}

// Submit validates and appends one registration. Emails differing only
// by case or surrounding whitespace are the same traveler.
func (s *Store) Submit(ctx context.Context, email string, fields models.RegistrationFields) (models.Registration, error) {
	if strings.TrimSpace(email) == "" {
		return models.Registration{}, ErrMissingEmail
	}
	norm := models.NormalizeKey(email)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("email = ?", norm).
		Count(&count).Error
	if err != nil {
		return models.Registration{}, err
	}
	if count > 0 {
		return models.Registration{}, &DuplicateRegistrationError{Email: norm}
	}

	registration := models.Registration{
		Email:              norm,
		ConfirmationRef:    uuid.NewString(),
		RegistrationFields: fields,
	}
	if err := s.db.WithContext(ctx).Create(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.Registration{}, &DuplicateRegistrationError{Email: norm}
		}
		return models.Registration{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, norm)
	}
	if s.notifier != nil {
		_ = s.notifier.AnnounceRegistration(registration)
	}
	if s.publisher != nil {
		_ = s.publisher.PublishRegistrationSubmitted(ctx, queue.RegistrationSubmittedEvent{
			Email:           registration.Email,
			RoomType:        registration.RoomType,
			ExtraLuggage:    registration.ExtraLuggage,
			PaymentMethod:   registration.PaymentMethod,
			ConfirmationRef: registration.ConfirmationRef,
			SubmittedAt:     registration.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return registration, nil
}
