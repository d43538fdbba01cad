package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/logging"
	"github.com/carson-networks/expense-tracker/internal/service"
)

// ListBudgetsInput is the Huma input for listing budgets.
type ListBudgetsInput struct {
	request.Identity
}

// ListBudgetsResponseBody is the response body for listing budgets.
type ListBudgetsResponseBody struct {
	Budgets []Budget `json:"budgets" doc:"All of the caller's budgets, newest window first"`
}

// ListBudgetsOutput is the Huma output for listing budgets.
type ListBudgetsOutput struct {
	Body ListBudgetsResponseBody
}

// budgetLister is the interface for listing budgets.
type budgetLister interface {
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]service.Budget, error)
}

// ListBudgetsHandler handles GET /v1/budget.
type ListBudgetsHandler struct {
	BudgetService budgetLister
}

// NewListBudgetsHandler creates a new ListBudgetsHandler.
func NewListBudgetsHandler(svc budgetLister) *ListBudgetsHandler {
	return &ListBudgetsHandler{BudgetService: svc}
}

// Register registers the list budgets endpoint with the Huma API.
func (h *ListBudgetsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-budgets",
		Method:      http.MethodGet,
		Path:        "/v1/budget",
		Summary:     "List budgets",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *ListBudgetsHandler) handle(ctx context.Context, input *ListBudgetsInput) (*ListBudgetsOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}

	budgets, err := h.BudgetService.ListBudgets(ctx, userID)
	if err != nil {
		return nil, request.MapError(err, "failed to list budgets")
	}

	if logData != nil {
		logData.AddData("budgetCount", len(budgets))
	}

	resp := ListBudgetsResponseBody{Budgets: make([]Budget, len(budgets))}
	for i, b := range budgets {
		resp.Budgets[i] = fromService(b)
	}
	return &ListBudgetsOutput{Body: resp}, nil
}
