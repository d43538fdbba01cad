package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/service"
)

// GetBudgetInput is the Huma input for fetching a budget.
type GetBudgetInput struct {
	request.Identity
	ID string `path:"id" doc:"Budget UUID"`
}

// GetBudgetOutput is the Huma output for fetching a budget.
type GetBudgetOutput struct {
	Body Budget
}

// budgetGetter is the interface for fetching a single budget.
type budgetGetter interface {
	GetBudget(ctx context.Context, userID, id uuid.UUID) (*service.Budget, error)
}

// GetBudgetHandler handles GET /v1/budget/{id}.
type GetBudgetHandler struct {
	BudgetService budgetGetter
}

// NewGetBudgetHandler creates a new GetBudgetHandler.
func NewGetBudgetHandler(svc budgetGetter) *GetBudgetHandler {
	return &GetBudgetHandler{BudgetService: svc}
}

// Register registers the get budget endpoint with the Huma API.
func (h *GetBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-budget",
		Method:      http.MethodGet,
		Path:        "/v1/budget/{id}",
		Summary:     "Get budget",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *GetBudgetHandler) handle(ctx context.Context, input *GetBudgetInput) (*GetBudgetOutput, error) {
	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid budget id", err)
	}

	b, err := h.BudgetService.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, request.MapError(err, "failed to get budget")
	}

	return &GetBudgetOutput{Body: fromService(*b)}, nil
}
