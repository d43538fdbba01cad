package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage"
)

// DeleteBudget removes a budget.
type DeleteBudget struct {
	ID     uuid.UUID
	UserID uuid.UUID

	IAction
}

func (d *DeleteBudget) Perform(ctx context.Context, writer *storage.Writer, _ *Deps) error {
	existing, err := writer.Budgets.FindByID(ctx, d.ID, false)
	if err != nil {
		if isNoRows(err) {
			return errs.NewNotFoundError("budget", d.ID.String())
		}
		return err
	}
	if existing.UserID != d.UserID {
		return errs.NewAuthorizationError("budget")
	}

	return writer.Budgets.Delete(ctx, d.ID)
}
