package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage"
	"github.com/carson-networks/expense-tracker/internal/storage/budget"
	"github.com/carson-networks/expense-tracker/internal/tracker"
)

// CreateBudget inserts a budget with its spend computed from the already
// existing transactions in its window, so a budget created mid-period starts
// with the right numbers and may alert immediately. ID is populated during
// Perform.
type CreateBudget struct {
	ID uuid.UUID

	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Amount         decimal.Decimal
	Currency       string
	StartDate      time.Time
	EndDate        time.Time
	Period         string
	AlertEnabled   bool
	AlertThreshold int

	IAction
}

func (c *CreateBudget) Perform(ctx context.Context, writer *storage.Writer, deps *Deps) error {
	period := budget.Period(c.Period)
	if !period.Valid() {
		return errs.NewValidationError("unknown budget period: %s", c.Period)
	}
	if c.CategoryID != nil {
		if err := checkCategoryVisible(ctx, writer, c.UserID, *c.CategoryID); err != nil {
			return err
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	unlock := deps.Locks.Lock(id)
	defer unlock()

	now := time.Now().UTC()
	row := &budget.Budget{
		ID:              id,
		UserID:          c.UserID,
		CategoryID:      c.CategoryID,
		Amount:          c.Amount,
		Currency:        c.Currency,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		Period:          period,
		SpentAmount:     decimal.Zero,
		RemainingAmount: c.Amount,
		AlertEnabled:    c.AlertEnabled,
		AlertThreshold:  c.AlertThreshold,
		AlertSent:       false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tracker.ValidateBudget(row); err != nil {
		return err
	}

	track, err := newTracker(ctx, writer, deps, c.UserID)
	if err != nil {
		return err
	}
	err = track.RecalculateAndPersist(ctx, row, func(ctx context.Context, b *budget.Budget) error {
		return writer.Budgets.Insert(ctx, b)
	})
	if err != nil {
		return err
	}

	c.ID = id
	return nil
}
