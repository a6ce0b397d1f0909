package handlers

import (
	"context"
	"errors"

	"github.com/andestrip/registration-api/internal/auth"
	"github.com/andestrip/registration-api/internal/choices"
	"github.com/danielgtaylor/huma/v2"
)

type AdminHandler struct {
	engine *choices.Engine
}

func NewAdminHandler(engine *choices.Engine) *AdminHandler {
	return &AdminHandler{engine: engine}
}

type ReconcileResponse struct {
	Body struct {
		Message string `json:"message"`
		Added   int    `json:"added"`
	}
}

func (h *AdminHandler) HandleReconcile(ctx context.Context, input *struct{}) (*ReconcileResponse, error) {
	email, ok := ctx.Value(auth.EmailKey).(string)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	added, err := h.engine.ReconcileRoster(ctx, email)
	if err != nil {
		if errors.Is(err, choices.ErrUnauthorized) {
			return nil, huma.Error403Forbidden("Admin access required")
		}
		return nil, huma.Error500InternalServerError("Reconciliation failed: " + err.Error())
	}

	res := &ReconcileResponse{}
	res.Body.Message = "Roster reconciled"
	res.Body.Added = added
	return res, nil
}
