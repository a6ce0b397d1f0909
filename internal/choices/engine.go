package choices

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/andestrip/registration-api/internal/models"
	"github.com/andestrip/registration-api/internal/notifier"
	"github.com/andestrip/registration-api/internal/queue"
	"gorm.io/gorm"
)

// PricingInvalidator drops a traveler's cached pricing view. Choice
// values feed the displayed total, so every accepted answer must
// invalidate it.
type PricingInvalidator interface {
	Invalidate(ctx context.Context, email string)
}

// Engine applies answers to the append-once choice log and derives the
// per-traveler completion state from it.
type Engine struct {
	db        *gorm.DB
	cache     PricingInvalidator
	notifier  notifier.Notifier
	publisher *queue.Publisher
	admins    map[string]bool
}

func NewEngine(db *gorm.DB, cache PricingInvalidator, n notifier.Notifier, publisher *queue.Publisher, adminEmails []string) *Engine {
	admins := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		admins[models.NormalizeKey(email)] = true
	}
	return &Engine{
		db:        db,
		cache:     cache,
		notifier:  n,
		publisher: publisher,
		admins:    admins,
	}
}

// RecordChoiceInput carries a pre-authenticated traveler identity; the
// login flow has already validated credentials against the RSVP store
// before a request reaches the engine.
type RecordChoiceInput struct {
	Email   string
	ItemKey string
	Option  string
	Choice  string
}

// RecordChoice appends one answer. Each (email, item, option) triple
// may be written exactly once; a second attempt fails with
// ErrDuplicateChoice no matter what answer it carries. The value is
// the option's price when accepting and always 0 when declining.
//
// The completion-roster refresh afterwards is best-effort: a failure
// there is reported out of band and never surfaces to the caller.
func (e *Engine) RecordChoice(ctx context.Context, in RecordChoiceInput) (models.ChoiceEvent, error) {
	email := models.NormalizeKey(in.Email)
	itemKey := models.NormalizeKey(in.ItemKey)
	option := models.NormalizeKey(in.Option)
	choice := models.NormalizeKey(in.Choice)

	if email == "" || itemKey == "" || option == "" || choice == "" {
		return models.ChoiceEvent{}, ErrInvalidChoice
	}
	if choice != "yes" && choice != "no" {
		return models.ChoiceEvent{}, ErrInvalidChoice
	}

	var count int64
	err := e.db.WithContext(ctx).Model(&models.ChoiceEvent{}).
		Where("email = ? AND item_key = ? AND option = ?", email, itemKey, option).
		Count(&count).Error
	if err != nil {
		return models.ChoiceEvent{}, err
	}
	if count > 0 {
		return models.ChoiceEvent{}, ErrDuplicateChoice
	}

	value, err := priceFor(itemKey, option)
	if err != nil {
		return models.ChoiceEvent{}, err
	}
	if choice == "no" {
		value = 0
	}

	event := models.ChoiceEvent{
		Email:   email,
		ItemKey: itemKey,
		Option:  option,
		Choice:  choice,
		Value:   value,
	}
	if err := e.db.WithContext(ctx).Create(&event).Error; err != nil {
		// Two concurrent first writes can both pass the check above;
		// the unique index turns the loser into the same domain error.
		if isUniqueViolation(err) {
			return models.ChoiceEvent{}, ErrDuplicateChoice
		}
		return models.ChoiceEvent{}, err
	}

	if e.cache != nil {
		e.cache.Invalidate(ctx, email)
	}

	if err := e.refreshRoster(ctx, email); err != nil {
		if e.notifier != nil {
			_ = e.notifier.ReportFailure("completion roster update for "+email, err)
		}
	}

	if e.notifier != nil {
		_ = e.notifier.AnnounceChoice(event)
	}
	if e.publisher != nil {
		_ = e.publisher.PublishChoiceRecorded(ctx, queue.ChoiceRecordedEvent{
			Email:      event.Email,
			ItemKey:    event.ItemKey,
			Option:     event.Option,
			Choice:     event.Choice,
			Value:      event.Value,
			RecordedAt: event.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return event, nil
}

// Effective reduces a traveler's events into one answer per
// "itemKey-option" key. The first row seen wins: duplicates cannot
// exist through RecordChoice, but if one ever slips in it must not
// silently flip the earlier answer.
func (e *Engine) Effective(ctx context.Context, email string) (map[string]string, error) {
	var events []models.ChoiceEvent
	err := e.db.WithContext(ctx).
		Where("email = ?", models.NormalizeKey(email)).
		Order("id").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	effective := make(map[string]string, len(events))
	for _, event := range events {
		key := event.ItemKey + "-" + event.Option
		if _, seen := effective[key]; !seen {
			effective[key] = event.Choice
		}
	}
	return effective, nil
}

// IsComplete reports whether the traveler has answered every pending
// choice group. Tango has a single option, so any answer (or the
// legacy form flag) suffices. The two-option groups count as answered
// only with one acceptance or both options explicitly declined;
// declining just one of two leaves the group open.
func (e *Engine) IsComplete(ctx context.Context, email string) (bool, error) {
	norm := models.NormalizeKey(email)

	effective, err := e.Effective(ctx, norm)
	if err != nil {
		return false, err
	}

	var legacyRafting, legacyTango bool
	var registration models.Registration
	err = e.db.WithContext(ctx).Where("email = ?", norm).First(&registration).Error
	switch {
	case err == nil:
		legacyRafting = registration.Rafting
		legacyTango = registration.Tango
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No registration yet; only the event log counts.
	default:
		return false, err
	}

	_, tangoAnswered := effective[ItemTangoNight+"-"+OptionTango]
	tangoDone := legacyTango || tangoAnswered

	rafting := effective[ItemBariloche+"-"+OptionRafting]
	circuito := effective[ItemBariloche+"-"+OptionCircuitoChico]
	barilocheDone := legacyRafting ||
		rafting == "yes" ||
		circuito == "yes" ||
		(rafting == "no" && circuito == "no")

	horse := effective[ItemValleDeUco+"-"+OptionHorse]
	walking := effective[ItemValleDeUco+"-"+OptionWalking]
	valleDone := horse == "yes" ||
		walking == "yes" ||
		(horse == "no" && walking == "no")

	return tangoDone && barilocheDone && valleDone, nil
}

// ReconcileRoster walks every registration not yet on the completion
// roster and appends those whose choices are all answered. A failure
// on one traveler is skipped, not fatal. Only callers in the
// configured admin set may run it; anyone else gets ErrUnauthorized
// before any row is touched. Returns the number of travelers added.
func (e *Engine) ReconcileRoster(ctx context.Context, callerEmail string) (int, error) {
	if !e.admins[models.NormalizeKey(callerEmail)] {
		return 0, ErrUnauthorized
	}

	var registrations []models.Registration
	if err := e.db.WithContext(ctx).Find(&registrations).Error; err != nil {
		return 0, err
	}

	added := 0
	for _, registration := range registrations {
		onRoster, err := e.onRoster(ctx, registration.Email)
		if err != nil || onRoster {
			continue
		}
		complete, err := e.IsComplete(ctx, registration.Email)
		if err != nil || !complete {
			continue
		}
		if err := e.appendRoster(ctx, registration.Email); err != nil {
			continue
		}
		added++
	}
	return added, nil
}

// refreshRoster is the incremental path run after each choice write.
func (e *Engine) refreshRoster(ctx context.Context, email string) error {
	onRoster, err := e.onRoster(ctx, email)
	if err != nil {
		return err
	}
	if onRoster {
		return nil
	}

	complete, err := e.IsComplete(ctx, email)
	if err != nil {
		return err
	}
	if !complete {
		return nil
	}
	return e.appendRoster(ctx, email)
}

func (e *Engine) onRoster(ctx context.Context, email string) (bool, error) {
	var count int64
	err := e.db.WithContext(ctx).Model(&models.CompletionEntry{}).
		Where("email = ?", models.NormalizeKey(email)).
		Count(&count).Error
	return count > 0, err
}

func (e *Engine) appendRoster(ctx context.Context, email string) error {
	entry := models.CompletionEntry{Email: models.NormalizeKey(email)}
	if err := e.db.WithContext(ctx).Create(&entry).Error; err != nil {
		// Someone else appended between the membership check and now.
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
