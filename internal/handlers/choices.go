package handlers

import (
	"context"
	"errors"

	"github.com/andestrip/registration-api/internal/auth"
	"github.com/andestrip/registration-api/internal/choices"
	"github.com/danielgtaylor/huma/v2"
)

type ChoiceHandler struct {
	engine *choices.Engine
}

func NewChoiceHandler(engine *choices.Engine) *ChoiceHandler {
	return &ChoiceHandler{engine: engine}
}

type RecordChoiceRequest struct {
	Body struct {
		ItemKey string `json:"item_key" doc:"Decision group, e.g. bariloche-activity"`
		Option  string `json:"option" doc:"Alternative within the group, e.g. rafting"`
		Choice  string `json:"choice" doc:"The answer, yes or no"`
	}
}

type RecordChoiceResponse struct {
	Body struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	}
}

func (h *ChoiceHandler) HandleRecordChoice(ctx context.Context, input *RecordChoiceRequest) (*RecordChoiceResponse, error) {
	email, ok := ctx.Value(auth.EmailKey).(string)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	event, err := h.engine.RecordChoice(ctx, choices.RecordChoiceInput{
		Email:   email,
		ItemKey: input.Body.ItemKey,
		Option:  input.Body.Option,
		Choice:  input.Body.Choice,
	})
	if err != nil {
		switch {
		case errors.Is(err, choices.ErrDuplicateChoice):
			return nil, huma.Error409Conflict("This choice was already answered")
		case errors.Is(err, choices.ErrUnknownItemKey):
			return nil, huma.Error422UnprocessableEntity("Unknown item key: " + input.Body.ItemKey)
		case errors.Is(err, choices.ErrInvalidChoice):
			return nil, huma.Error400BadRequest("Choice must be yes or no, with item and option set")
		default:
			return nil, huma.Error500InternalServerError("Failed to record choice: " + err.Error())
		}
	}

	res := &RecordChoiceResponse{}
	res.Body.Message = "Choice recorded"
	res.Body.Value = event.Value
	return res, nil
}

type EffectiveChoicesResponse struct {
	Body struct {
		Choices  map[string]string `json:"choices" doc:"Map of itemKey-option to yes/no"`
		Complete bool              `json:"complete" doc:"Whether every pending choice group is answered"`
	}
}

func (h *ChoiceHandler) HandleEffectiveChoices(ctx context.Context, input *struct{}) (*EffectiveChoicesResponse, error) {
	email, ok := ctx.Value(auth.EmailKey).(string)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	effective, err := h.engine.Effective(ctx, email)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load choices: " + err.Error())
	}
	complete, err := h.engine.IsComplete(ctx, email)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to derive completion: " + err.Error())
	}

	res := &EffectiveChoicesResponse{}
	res.Body.Choices = effective
	res.Body.Complete = complete
	return res, nil
}
