package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/logging"
	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
)

// CreateBudgetInput is the Huma input for creating a budget.
type CreateBudgetInput struct {
	request.Identity
	Body BudgetBody
}

// CreateBudgetResponse is the response body for creating a budget.
type CreateBudgetResponse struct {
	ID string `json:"id" doc:"Created budget UUID"`
}

// CreateBudgetOutput is the Huma output for creating a budget.
type CreateBudgetOutput struct {
	Status int
	Body   CreateBudgetResponse
}

// CreateBudgetHandler handles POST /v1/budget.
type CreateBudgetHandler struct {
	Operator actionProcessor
	Limiter  *ratelimit.Limiter
}

// NewCreateBudgetHandler creates a new CreateBudgetHandler.
func NewCreateBudgetHandler(op actionProcessor, limiter *ratelimit.Limiter) *CreateBudgetHandler {
	return &CreateBudgetHandler{Operator: op, Limiter: limiter}
}

// Register registers the create budget endpoint with the Huma API.
func (h *CreateBudgetHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-budget",
		Method:      http.MethodPost,
		Path:        "/v1/budget",
		Summary:     "Create budget",
		Description: "Creates a budget with its spend computed from transactions already in its window.",
		Tags:        []string{"Budgets"},
	}, h.handle)
}

func (h *CreateBudgetHandler) handle(ctx context.Context, input *CreateBudgetInput) (*CreateBudgetOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	if err := request.Gate(h.Limiter, "create-budget", userID); err != nil {
		return nil, err
	}

	parsed, err := parseBudgetBody(input.Body)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateBudget{
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
		return nil, request.MapError(err, "failed to create budget")
	}

	if logData != nil {
		logData.AddData("budgetID", action.ID.String())
	}

	return &CreateBudgetOutput{
		Status: http.StatusCreated,
		Body:   CreateBudgetResponse{ID: action.ID.String()},
	}, nil
}
