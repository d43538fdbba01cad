package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage"
)

// DeleteTransaction removes a transaction and refreshes the budgets it was
// counted in.
type DeleteTransaction struct {
	ID     uuid.UUID
	UserID uuid.UUID

	IAction
}

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer, deps *Deps) error {
	existing, err := writer.Transactions.FindByID(ctx, d.ID)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("transaction", d.ID.String())
		}
		return err
	}
	if existing.UserID != d.UserID {
		return errs.NewAuthorizationError("transaction")
	}

	if err := writer.Transactions.Delete(ctx, d.ID); err != nil {
		return err
	}

	track, err := newTracker(ctx, writer, deps, d.UserID)
	if err != nil {
		return err
	}
	if err := track.RefreshOnTransactionChange(ctx, d.UserID, existing.CategoryID, existing.TransactionDate); err != nil {
		return err
	}

	deps.InvalidateAnalytics(d.UserID)
	return nil
}
