package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage"
)

// BudgetService handles budget read logic. Writes go through the operator so
// the spend refresh and alert check run under the per-budget lock.
type BudgetService struct {
	storage *storage.Storage
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(store *storage.Storage) *BudgetService {
	return &BudgetService{storage: store}
}

// GetBudget retrieves a budget by ID, enforcing ownership.
func (s *BudgetService) GetBudget(ctx context.Context, userID, id uuid.UUID) (*Budget, error) {
	row, err := s.storage.Budgets.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewNotFoundError("budget", id.String())
		}
		return nil, err
	}
	if row.UserID != userID {
		return nil, errs.NewAuthorizationError("budget")
	}

	converted := budgetFromStorage(row)
	return &converted, nil
}

// ListBudgets returns all of the user's budgets, newest window first.
func (s *BudgetService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]Budget, error) {
	rows, err := s.storage.Budgets.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	convertedBudgets := make([]Budget, len(rows))
	for i, row := range rows {
		convertedBudgets[i] = budgetFromStorage(row)
	}
	return convertedBudgets, nil
}
