package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
	"github.com/carson-networks/expense-tracker/internal/tracker"
)

// UpdateTransaction rewrites a transaction and refreshes the budgets touched
// by both its old and new scope, so moving a transaction between categories
// or dates updates the budgets it left as well as the ones it entered.
type UpdateTransaction struct {
	ID     uuid.UUID
	UserID uuid.UUID

	CategoryID         uuid.UUID
	Amount             decimal.Decimal
	Currency           string
	Description        string
	TransactionDate    time.Time
	PaymentMethod      string
	Merchant           string
	Notes              string
	Tags               []string
	Recurring          bool
	RecurringFrequency string
	RecurringEndDate   *time.Time

	IAction
}

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer, deps *Deps) error {
	existing, err := writer.Transactions.FindByID(ctx, u.ID)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("transaction", u.ID.String())
		}
		return err
	}
	if existing.UserID != u.UserID {
		return errs.NewAuthorizationError("transaction")
	}

	if err := tracker.ValidateAmount(u.Amount); err != nil {
		return err
	}
	method := transaction.PaymentMethod(u.PaymentMethod)
	if !method.Valid() {
		return errs.NewValidationError("unknown payment method: %s", u.PaymentMethod)
	}
	frequency := transaction.RecurringFrequency(u.RecurringFrequency)
	if u.Recurring && !frequency.Valid() {
		return errs.NewValidationError("unknown recurring frequency: %s", u.RecurringFrequency)
	}
	if err := checkCategoryVisible(ctx, writer, u.UserID, u.CategoryID); err != nil {
		return err
	}

	oldCategoryID := existing.CategoryID
	oldDate := existing.TransactionDate

	existing.CategoryID = u.CategoryID
	existing.Amount = u.Amount
	existing.Currency = u.Currency
	existing.Description = u.Description
	existing.TransactionDate = u.TransactionDate
	existing.PaymentMethod = method
	existing.Merchant = u.Merchant
	existing.Notes = u.Notes
	existing.Tags = pq.StringArray(u.Tags)
	existing.Recurring = u.Recurring
	existing.RecurringFreq = frequency
	existing.RecurringEndDate = u.RecurringEndDate
	existing.UpdatedAt = time.Now().UTC()

	if err := writer.Transactions.Update(ctx, existing); err != nil {
		return err
	}

	track, err := newTracker(ctx, writer, deps, u.UserID)
	if err != nil {
		return err
	}
	if err := track.RefreshOnTransactionChange(ctx, u.UserID, oldCategoryID, oldDate); err != nil {
		return err
	}
	if oldCategoryID != u.CategoryID || !oldDate.Equal(u.TransactionDate) {
		if err := track.RefreshOnTransactionChange(ctx, u.UserID, u.CategoryID, u.TransactionDate); err != nil {
			return err
		}
	}

	deps.InvalidateAnalytics(u.UserID)
	return nil
}
