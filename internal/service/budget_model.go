package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/storage/budget"
	"github.com/carson-networks/expense-tracker/internal/tracker"
)

// Budget represents a budget in the service layer. Status and PercentageUsed
// are derived from the stored spend at read time.
type Budget struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	CategoryID      *uuid.UUID
	Amount          decimal.Decimal
	Currency        string
	StartDate       time.Time
	EndDate         time.Time
	Period          string
	SpentAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	AlertEnabled    bool
	AlertThreshold  int
	AlertSent       bool
	Status          string
	PercentageUsed  int
	CreatedAt       time.Time
}

func budgetFromStorage(row *budget.Budget) Budget {
	return Budget{
		ID:              row.ID,
		UserID:          row.UserID,
		CategoryID:      row.CategoryID,
		Amount:          row.Amount,
		Currency:        row.Currency,
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
		Period:          string(row.Period),
		SpentAmount:     row.SpentAmount,
		RemainingAmount: row.RemainingAmount,
		AlertEnabled:    row.AlertEnabled,
		AlertThreshold:  row.AlertThreshold,
		AlertSent:       row.AlertSent,
		Status:          string(tracker.ComputeStatus(row)),
		PercentageUsed:  tracker.PercentageUsed(row),
		CreatedAt:       row.CreatedAt,
	}
}
