package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/logging"
)

// ReportInput is the Huma input for the analytics report.
type ReportInput struct {
	request.Identity
	StartDate string `query:"startDate" doc:"Inclusive lower bound YYYY-MM-DD, defaults to start of current month"`
	EndDate   string `query:"endDate" doc:"Inclusive upper bound YYYY-MM-DD, defaults to today"`
}

// ReportResponseBody is the response body for the analytics report.
type ReportResponseBody struct {
	Summary                Summary             `json:"summary" doc:"Headline rollup"`
	CategoryBreakdown      []CategoryBreakdown `json:"categoryBreakdown" doc:"Per-category totals, largest first"`
	MonthlyTrends          []MonthlyTrend      `json:"monthlyTrends" doc:"Per-month totals, chronological"`
	PaymentMethodBreakdown map[string]string   `json:"paymentMethodBreakdown" doc:"Decimal total per payment method"`
	TopExpenses            []TopExpense        `json:"topExpenses" doc:"Largest transactions, descending"`
}

// ReportOutput is the Huma output for the analytics report.
type ReportOutput struct {
	Body ReportResponseBody
}

// reportProvider is the interface for computing the analytics report.
type reportProvider interface {
	Report(ctx context.Context, userID uuid.UUID, start, end time.Time) (*analytics.Report, error)
}

// ReportHandler handles GET /v1/analytics/report.
type ReportHandler struct {
	AnalyticsService reportProvider
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc reportProvider) *ReportHandler {
	return &ReportHandler{AnalyticsService: svc}
}

// Register registers the report endpoint with the Huma API.
func (h *ReportHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "analytics-report",
		Method:      http.MethodGet,
		Path:        "/v1/analytics/report",
		Summary:     "Analytics report",
		Description: "Returns the full rollup over the caller's transactions in the date range.",
		Tags:        []string{"Analytics"},
	}, h.handle)
}

func (h *ReportHandler) handle(ctx context.Context, input *ReportInput) (*ReportOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("reportMs")
	}
	report, err := h.AnalyticsService.Report(ctx, userID, start, end)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, request.MapError(err, "failed to compute report")
	}

	resp := ReportResponseBody{
		Summary:                summaryFromEngine(report.Summary),
		CategoryBreakdown:      make([]CategoryBreakdown, len(report.CategoryBreakdown)),
		MonthlyTrends:          make([]MonthlyTrend, len(report.MonthlyTrends)),
		PaymentMethodBreakdown: make(map[string]string, len(report.PaymentMethodBreakdown)),
		TopExpenses:            make([]TopExpense, len(report.TopExpenses)),
	}
	for i, b := range report.CategoryBreakdown {
		resp.CategoryBreakdown[i] = CategoryBreakdown{
			CategoryID:   b.CategoryID.String(),
			CategoryName: b.CategoryName,
			Amount:       b.Amount.String(),
			Count:        b.Count,
			Percentage:   b.Percentage.String(),
		}
	}
	for i, trend := range report.MonthlyTrends {
		resp.MonthlyTrends[i] = MonthlyTrend{
			Month:  trend.Month,
			Amount: trend.Amount.String(),
			Count:  trend.Count,
		}
	}
	for method, amount := range report.PaymentMethodBreakdown {
		resp.PaymentMethodBreakdown[method] = amount.String()
	}
	for i, top := range report.TopExpenses {
		resp.TopExpenses[i] = TopExpense{
			ID:           top.ID.String(),
			Description:  top.Description,
			Amount:       top.Amount.String(),
			CategoryName: top.CategoryName,
			Date:         top.Date,
		}
	}

	return &ReportOutput{Body: resp}, nil
}
