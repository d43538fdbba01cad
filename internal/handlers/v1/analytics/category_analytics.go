package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
)

// CategoryAnalyticsInput is the Huma input for the single-category rollup.
type CategoryAnalyticsInput struct {
	request.Identity
	ID        string `path:"id" doc:"Category UUID"`
	StartDate string `query:"startDate" doc:"Inclusive lower bound YYYY-MM-DD, defaults to start of current month"`
	EndDate   string `query:"endDate" doc:"Inclusive upper bound YYYY-MM-DD, defaults to today"`
}

// CategoryAnalyticsResponseBody is the response body for the single-category rollup.
type CategoryAnalyticsResponseBody struct {
	TotalExpenses    string `json:"totalExpenses" doc:"Decimal category total"`
	TransactionCount int64  `json:"transactionCount" doc:"Transactions in the category"`
	AverageExpense   string `json:"averageExpense" doc:"Decimal mean, half-up to 2 places"`
	HighestExpense   string `json:"highestExpense" doc:"Largest single amount"`
	LowestExpense    string `json:"lowestExpense" doc:"Smallest single amount"`
}

// CategoryAnalyticsOutput is the Huma output for the single-category rollup.
type CategoryAnalyticsOutput struct {
	Body CategoryAnalyticsResponseBody
}

// categoryAnalyticsProvider is the interface for computing the category rollup.
type categoryAnalyticsProvider interface {
	CategoryAnalytics(ctx context.Context, userID, categoryID uuid.UUID, start, end time.Time) (*analytics.CategoryAnalytics, error)
}

// CategoryAnalyticsHandler handles GET /v1/analytics/category/{id}.
type CategoryAnalyticsHandler struct {
	AnalyticsService categoryAnalyticsProvider
}

// NewCategoryAnalyticsHandler creates a new CategoryAnalyticsHandler.
func NewCategoryAnalyticsHandler(svc categoryAnalyticsProvider) *CategoryAnalyticsHandler {
	return &CategoryAnalyticsHandler{AnalyticsService: svc}
}

// Register registers the category analytics endpoint with the Huma API.
func (h *CategoryAnalyticsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "analytics-category",
		Method:      http.MethodGet,
		Path:        "/v1/analytics/category/{id}",
		Summary:     "Category analytics",
		Tags:        []string{"Analytics"},
	}, h.handle)
}

func (h *CategoryAnalyticsHandler) handle(ctx context.Context, input *CategoryAnalyticsInput) (*CategoryAnalyticsOutput, error) {
	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	categoryID, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid category id", err)
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	result, err := h.AnalyticsService.CategoryAnalytics(ctx, userID, categoryID, start, end)
	if err != nil {
		return nil, request.MapError(err, "failed to compute category analytics")
	}

	return &CategoryAnalyticsOutput{Body: CategoryAnalyticsResponseBody{
		TotalExpenses:    result.TotalExpenses.String(),
		TransactionCount: result.TransactionCount,
		AverageExpense:   result.AverageExpense.String(),
		HighestExpense:   result.HighestExpense.String(),
		LowestExpense:    result.LowestExpense.String(),
	}}, nil
}
