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

// CreateTransaction inserts a transaction and refreshes every budget it
// lands in. ID is populated during Perform.
type CreateTransaction struct {
	ID uuid.UUID

	UserID             uuid.UUID
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

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer, deps *Deps) error {
	if err := tracker.ValidateAmount(c.Amount); err != nil {
		return err
	}
	method := transaction.PaymentMethod(c.PaymentMethod)
	if !method.Valid() {
		return errs.NewValidationError("unknown payment method: %s", c.PaymentMethod)
	}
	frequency := transaction.RecurringFrequency(c.RecurringFrequency)
	if c.Recurring && !frequency.Valid() {
		return errs.NewValidationError("unknown recurring frequency: %s", c.RecurringFrequency)
	}
	if err := checkCategoryVisible(ctx, writer, c.UserID, c.CategoryID); err != nil {
		return err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	row := &transaction.Transaction{
		ID:               id,
		UserID:           c.UserID,
		CategoryID:       c.CategoryID,
		Amount:           c.Amount,
		Currency:         c.Currency,
		Description:      c.Description,
		TransactionDate:  c.TransactionDate,
		PaymentMethod:    method,
		Merchant:         c.Merchant,
		Notes:            c.Notes,
		Tags:             pq.StringArray(c.Tags),
		Recurring:        c.Recurring,
		RecurringFreq:    frequency,
		RecurringEndDate: c.RecurringEndDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := writer.Transactions.Insert(ctx, row); err != nil {
		return err
	}
	c.ID = id

	track, err := newTracker(ctx, writer, deps, c.UserID)
	if err != nil {
		return err
	}
	if err := track.RefreshOnTransactionChange(ctx, c.UserID, c.CategoryID, c.TransactionDate); err != nil {
		return err
	}

	deps.InvalidateAnalytics(c.UserID)
	return nil
}

// checkCategoryVisible verifies the category exists and is either a system
// default or owned by the caller.
func checkCategoryVisible(ctx context.Context, writer *storage.Writer, userID, categoryID uuid.UUID) error {
	cat, err := writer.Categories.FindByID(ctx, categoryID)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("category", categoryID.String())
		}
		return err
	}
	if cat.UserID != nil && *cat.UserID != userID {
		return errs.NewNotFoundError("category", categoryID.String())
	}
	return nil
}
