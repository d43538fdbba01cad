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

// DeleteBudgetInput is the Huma input for deleting a budget.
type DeleteBudgetInput struct {
	request.Identity
	ID string `path:"id" doc:"Budget UUID"`
}

// DeleteBudgetOutput is the Huma output for deleting a budget.
type DeleteBudgetOutput struct {
	Status int
}

// DeleteBudgetHandler handles DELETE /v1/budget/{id}.
type DeleteBudgetHandler struct {
	Operator actionProcessor
	Limiter  *ratelimit.Limiter
}

// NewDeleteBudgetHandler creates a new DeleteBudgetHandler.
func NewDeleteBudgetHandler(op actionProcessor, limiter *ratelimit.Limiter) *DeleteBudgetHandler {
	return &DeleteBudgetHandler{Operator: op, Limiter: limiter}
}

// Register registers the delete budget endpoint with the Huma API.
func (h *DeleteBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-budget",
		Method:      http.MethodDelete,
		Path:        "/v1/budget/{id}",
		Summary:     "Delete budget",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *DeleteBudgetHandler) handle(ctx context.Context, input *DeleteBudgetInput) (*DeleteBudgetOutput, error) {
	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	if err := request.Gate(h.Limiter, "delete-budget", userID); err != nil {
		return nil, err
	}

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid budget id", err)
	}

	action := &actions.DeleteBudget{ID: id, UserID: userID}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.MapError(err, "failed to delete budget")
	}

	return &DeleteBudgetOutput{Status: http.StatusNoContent}, nil
}
