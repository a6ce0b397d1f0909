package handlers

import (
	"context"
	"errors"

	"github.com/andestrip/registration-api/internal/auth"
	"github.com/andestrip/registration-api/internal/pricing"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type PricingHandler struct {
	calc *pricing.Calculator
}

func NewPricingHandler(calc *pricing.Calculator) *PricingHandler {
	return &PricingHandler{calc: calc}
}

type PricingResponse struct {
	Body pricing.Summary
}

func (h *PricingHandler) HandleSummary(ctx context.Context, input *struct{}) (*PricingResponse, error) {
	email, ok := ctx.Value(auth.EmailKey).(string)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	summary, err := h.calc.Summary(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("No RSVP record for " + email)
		}
		return nil, huma.Error500InternalServerError("Failed to compute pricing: " + err.Error())
	}

	return &PricingResponse{Body: summary}, nil
}
