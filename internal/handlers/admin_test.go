package handlers

import (
	"testing"

	"github.com/andestrip/registration-api/internal/choices"
	"github.com/andestrip/registration-api/internal/models"
)

func TestHandleReconcile(t *testing.T) {
	db := setupDB(t)
	engine := choices.NewEngine(db, nil, nil, nil, []string{"admin@x.com"})
	handler := NewAdminHandler(engine)

	db.Create(&models.Registration{
		Email:              "ana@x.com",
		RegistrationFields: models.RegistrationFields{Rafting: true, Tango: true},
	})
	db.Create(&models.ChoiceEvent{Email: "ana@x.com", ItemKey: "valle-de-uco-activity", Option: "horse", Choice: "yes", Value: 50})

	resp, err := handler.HandleReconcile(authedCtx("admin@x.com"), &struct{}{})
	if err != nil {
		t.Fatalf("HandleReconcile returned error: %v", err)
	}
	if resp.Body.Added != 1 {
		t.Errorf("expected 1 roster addition, got %d", resp.Body.Added)
	}
}

func TestHandleReconcileForbidden(t *testing.T) {
	db := setupDB(t)
	engine := choices.NewEngine(db, nil, nil, nil, []string{"admin@x.com"})
	handler := NewAdminHandler(engine)

	db.Create(&models.Registration{
		Email:              "ana@x.com",
		RegistrationFields: models.RegistrationFields{Rafting: true, Tango: true},
	})

	_, err := handler.HandleReconcile(authedCtx("ana@x.com"), &struct{}{})
	if err == nil {
		t.Fatal("expected error for non-admin caller, got nil")
	}
	if statusOf(t, err) != 403 {
		t.Errorf("expected 403, got %d", statusOf(t, err))
	}

	var count int64
	db.Model(&models.CompletionEntry{}).Count(&count)
	if count != 0 {
		t.Errorf("roster must stay untouched, got %d entries", count)
	}
}
