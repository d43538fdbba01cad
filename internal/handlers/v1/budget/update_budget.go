package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
)

// UpdateBudgetInput is the Huma input for updating a budget. The body carries
// the full new definition, same shape as create.
type UpdateBudgetInput struct {
	request.Identity
	ID   string `path:"id" doc:"Budget UUID"`
	Body BudgetBody
}

// UpdateBudgetOutput is the Huma output for updating a budget.
type UpdateBudgetOutput struct {
	Status int
}

// UpdateBudgetHandler handles PUT /v1/budget/{id}.
type UpdateBudgetHandler struct {
	Operator actionProcessor
	Limiter  *ratelimit.Limiter
}

// NewUpdateBudgetHandler creates a new UpdateBudgetHandler.
func NewUpdateBudgetHandler(op actionProcessor, limiter *ratelimit.Limiter) *UpdateBudgetHandler {
	return &UpdateBudgetHandler{Operator: op, Limiter: limiter}
}

// Register registers the update budget endpoint with the Huma API.
func (h *UpdateBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-budget",
		Method:      http.MethodPut,
		Path:        "/v1/budget/{id}",
		Summary:     "Update budget",
		Description: "Rewrites a budget's definition and re-arms its alert.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *UpdateBudgetHandler) handle(ctx context.Context, input *UpdateBudgetInput) (*UpdateBudgetOutput, error) {
	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	if err := request.Gate(h.Limiter, "update-budget", userID); err != nil {
		return nil, err
	}

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid budget id", err)
	}
	parsed, err := parseBudgetBody(input.Body)
	if err != nil {
		return nil, err
	}

	action := &actions.UpdateBudget{
		ID:             id,
		UserID:         userID,
		CategoryID:     parsed.categoryID,
		Amount:         parsed.amount,
		Currency:       parsed.currency,
		StartDate:      parsed.startDate,
		EndDate:        parsed.endDate,
		Period:         input.Body.Period,
		AlertEnabled:   input.Body.AlertEnabled,
		AlertThreshold: parsed.alertThreshold,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.MapError(err, "failed to update budget")
	}

	return &UpdateBudgetOutput{Status: http.StatusNoContent}, nil
}
