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

// UpdateBudget rewrites a budget's definition. Editing re-arms the alert
// latch, so a budget whose limit was raised can alert again if it crosses
// the threshold later.
type UpdateBudget struct {
	ID     uuid.UUID
	UserID uuid.UUID

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

func (u *UpdateBudget) Perform(ctx context.Context, writer *storage.Writer, deps *Deps) error {
	// Keyed lock before the FOR UPDATE read; the refresh path takes the
	// locks in the same order.
	unlock := deps.Locks.Lock(u.ID)
	defer unlock()

	existing, err := writer.Budgets.FindByID(ctx, u.ID, true)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("budget", u.ID.String())
		}
		return err
	}
	if existing.UserID != u.UserID {
		return errs.NewAuthorizationError("budget")
	}

	period := budget.Period(u.Period)
	if !period.Valid() {
		return errs.NewValidationError("unknown budget period: %s", u.Period)
	}
	if u.CategoryID != nil {
		if err := checkCategoryVisible(ctx, writer, u.UserID, *u.CategoryID); err != nil {
			return err
		}
	}

	existing.CategoryID = u.CategoryID
	existing.Amount = u.Amount
	existing.Currency = u.Currency
	existing.StartDate = u.StartDate
	existing.EndDate = u.EndDate
	existing.Period = period
	existing.AlertEnabled = u.AlertEnabled
	existing.AlertThreshold = u.AlertThreshold
	existing.AlertSent = false
	existing.UpdatedAt = time.Now().UTC()

	if err := tracker.ValidateBudget(existing); err != nil {
		return err
	}

	track, err := newTracker(ctx, writer, deps, u.UserID)
	if err != nil {
		return err
	}
	return track.RecalculateAndPersist(ctx, existing, func(ctx context.Context, b *budget.Budget) error {
		return writer.Budgets.Update(ctx, b)
	})
}
