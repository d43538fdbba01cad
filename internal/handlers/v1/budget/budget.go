package budget

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/service"
)

const dateLayout = "2006-01-02"

// actionProcessor runs a write action through the operator queue.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Budget is the API response model for a budget. Status and percentageUsed
// are derived from the stored spend at read time.
type Budget struct {
	ID              string `json:"id" doc:"Budget UUID"`
	CategoryID      string `json:"categoryID,omitempty" doc:"Category UUID, absent when the budget covers all categories"`
	Amount          string `json:"amount" doc:"Decimal limit"`
	Currency        string `json:"currency" doc:"ISO currency code"`
	StartDate       string `json:"startDate" doc:"Window start, YYYY-MM-DD"`
	EndDate         string `json:"endDate" doc:"Window end, YYYY-MM-DD"`
	Period          string `json:"period" doc:"Cadence tag"`
	SpentAmount     string `json:"spentAmount" doc:"Decimal spend inside the window"`
	RemainingAmount string `json:"remainingAmount" doc:"Decimal amount minus spend, may be negative"`
	AlertEnabled    bool   `json:"alertEnabled" doc:"Whether the threshold alert is armed"`
	AlertThreshold  int    `json:"alertThreshold" doc:"Alert threshold percent, 1-100"`
	AlertSent       bool   `json:"alertSent" doc:"Whether the alert has fired for the current definition"`
	Status          string `json:"status" doc:"ON_TRACK, WARNING, or EXCEEDED"`
	PercentageUsed  int    `json:"percentageUsed" doc:"Spend ratio rounded to a whole percent"`
}

func fromService(b service.Budget) Budget {
	converted := Budget{
		ID:              b.ID.String(),
		Amount:          b.Amount.String(),
		Currency:        b.Currency,
		StartDate:       b.StartDate.Format(dateLayout),
		EndDate:         b.EndDate.Format(dateLayout),
		Period:          b.Period,
		SpentAmount:     b.SpentAmount.String(),
		RemainingAmount: b.RemainingAmount.String(),
		AlertEnabled:    b.AlertEnabled,
		AlertThreshold:  b.AlertThreshold,
		AlertSent:       b.AlertSent,
		Status:          b.Status,
		PercentageUsed:  b.PercentageUsed,
	}
	if b.CategoryID != nil {
		converted.CategoryID = b.CategoryID.String()
	}
	return converted
}

// BudgetBody is the request body shared by create and update.
type BudgetBody struct {
	CategoryID     string `json:"categoryID,omitempty" doc:"Category UUID, omit to cover all categories"`
	Amount         string `json:"amount" required:"true" doc:"Decimal limit, at most 2 fraction digits"`
	Currency       string `json:"currency,omitempty" doc:"ISO currency code, defaults to INR"`
	StartDate      string `json:"startDate" required:"true" doc:"Window start, YYYY-MM-DD"`
	EndDate        string `json:"endDate" required:"true" doc:"Window end, YYYY-MM-DD"`
	Period         string `json:"period" required:"true" doc:"Cadence tag"`
	AlertEnabled   bool   `json:"alertEnabled,omitempty" doc:"Arm the threshold alert"`
	AlertThreshold int    `json:"alertThreshold,omitempty" minimum:"0" maximum:"100" doc:"Alert threshold percent, defaults to 80"`
}

type parsedBudgetBody struct {
	categoryID     *uuid.UUID
	amount         decimal.Decimal
	currency       string
	startDate      time.Time
	endDate        time.Time
	alertThreshold int
}

func parseBudgetBody(body BudgetBody) (*parsedBudgetBody, error) {
	parsed := &parsedBudgetBody{}

	if body.CategoryID != "" {
		categoryID, err := uuid.FromString(body.CategoryID)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
		}
		parsed.categoryID = &categoryID
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	parsed.amount = amount

	parsed.startDate, err = time.Parse(dateLayout, body.StartDate)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid startDate", err)
	}
	parsed.endDate, err = time.Parse(dateLayout, body.EndDate)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid endDate", err)
	}

	parsed.currency = body.Currency
	if parsed.currency == "" {
		parsed.currency = "INR"
	}
	parsed.alertThreshold = body.AlertThreshold
	if parsed.alertThreshold == 0 {
		parsed.alertThreshold = 80
	}
	return parsed, nil
}
