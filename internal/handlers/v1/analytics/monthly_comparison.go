package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
)

// MonthlyComparisonInput is the Huma input for the monthly comparison.
type MonthlyComparisonInput struct {
	request.Identity
	Year int `query:"year" minimum:"0" doc:"Calendar year, defaults to the current year"`
}

// MonthlyComparisonResponseBody is the response body for the monthly comparison.
type MonthlyComparisonResponseBody struct {
	Year   int               `json:"year" doc:"Calendar year"`
	Months map[string]string `json:"months" doc:"Decimal total per upper-case month name, all 12 present"`
}

// MonthlyComparisonOutput is the Huma output for the monthly comparison.
type MonthlyComparisonOutput struct {
	Body MonthlyComparisonResponseBody
}

// monthlyComparisonProvider is the interface for computing the comparison.
type monthlyComparisonProvider interface {
	MonthlyComparison(ctx context.Context, userID uuid.UUID, year int) (map[string]decimal.Decimal, error)
}

// MonthlyComparisonHandler handles GET /v1/analytics/monthly-comparison.
type MonthlyComparisonHandler struct {
	AnalyticsService monthlyComparisonProvider
}

// NewMonthlyComparisonHandler creates a new MonthlyComparisonHandler.
func NewMonthlyComparisonHandler(svc monthlyComparisonProvider) *MonthlyComparisonHandler {
	return &MonthlyComparisonHandler{AnalyticsService: svc}
}

// Register registers the monthly comparison endpoint with the Huma API.
func (h *MonthlyComparisonHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "analytics-monthly-comparison",
		Method:      http.MethodGet,
		Path:        "/v1/analytics/monthly-comparison",
		Summary:     "Monthly comparison",
		Description: "Returns the year's transaction totals bucketed per calendar month.",
		Tags:        []string{"Analytics"},
	}, h.handle)
}

func (h *MonthlyComparisonHandler) handle(ctx context.Context, input *MonthlyComparisonInput) (*MonthlyComparisonOutput, error) {
	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}

	year := input.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	months, err := h.AnalyticsService.MonthlyComparison(ctx, userID, year)
	if err != nil {
		return nil, request.MapError(err, "failed to compute monthly comparison")
	}

	resp := MonthlyComparisonResponseBody{
		Year:   year,
		Months: make(map[string]string, len(months)),
	}
	for month, amount := range months {
		resp.Months[month] = amount.String()
	}
	return &MonthlyComparisonOutput{Body: resp}, nil
}
