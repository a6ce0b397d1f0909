package handlers

import (
	"context"
	"errors"

	"github.com/andestrip/registration-api/internal/auth"
	"github.com/andestrip/registration-api/internal/models"
	"github.com/andestrip/registration-api/internal/registration"
	"github.com/danielgtaylor/huma/v2"
)

type RegistrationHandler struct {
	store *registration.Store
}

func NewRegistrationHandler(store *registration.Store) *RegistrationHandler {
	return &RegistrationHandler{store: store}
}

type RegistrationRequest struct {
	Body struct {
		RoomType      string `json:"room_type" doc:"single, double or shared"`
		ExtraLuggage  int    `json:"extra_luggage" doc:"Bags beyond the included allowance"`
		PaymentMethod string `json:"payment_method" doc:"card or transfer"`
		DietaryNotes  string `json:"dietary_notes" doc:"Food restrictions or allergies"`
		Rafting       bool   `json:"rafting" doc:"Legacy static-form rafting commitment"`
		Tango         bool   `json:"tango" doc:"Legacy static-form tango commitment"`
	}
}

type RegistrationResponse struct {
	Body struct {
		Message         string `json:"message"`
		ConfirmationRef string `json:"confirmation_ref"`
	}
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	email, ok := ctx.Value(auth.EmailKey).(string)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	reg, err := h.store.Submit(ctx, email, models.RegistrationFields{
		RoomType:      input.Body.RoomType,
		ExtraLuggage:  input.Body.ExtraLuggage,
		PaymentMethod: input.Body.PaymentMethod,
		DietaryNotes:  input.Body.DietaryNotes,
		Rafting:       input.Body.Rafting,
		Tango:         input.Body.Tango,
	})
	if err != nil {
		var dup *registration.DuplicateRegistrationError
		switch {
		case errors.As(err, &dup):
			return nil, huma.Error409Conflict(dup.Error())
		case errors.Is(err, registration.ErrMissingEmail):
			return nil, huma.Error400BadRequest(err.Error())
		default:
			return nil, huma.Error500InternalServerError("Failed to process registration: " + err.Error())
		}
	}

	res := &RegistrationResponse{}
	res.Body.Message = "Registration processed successfully"
	res.Body.ConfirmationRef = reg.ConfirmationRef
	return res, nil
}
