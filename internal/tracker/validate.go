package tracker

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage/budget"
)

// ValidateAmount enforces the monetary invariant shared by transactions and
// budgets: strictly positive, at most 2 fraction digits.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValidationError("amount must be greater than zero")
	}
	if amount.Exponent() < -2 {
		return errs.NewValidationError("amount must have at most 2 decimal places")
	}
	return nil
}

// ValidateBudget checks the budget field invariants: amount, window order,
// and alert threshold bounds.
func ValidateBudget(b *budget.Budget) error {
	if err := ValidateAmount(b.Amount); err != nil {
		return err
	}
	if b.EndDate.Before(b.StartDate) {
		return errs.NewValidationError("end date must be after start date")
	}
	if b.AlertThreshold < 1 || b.AlertThreshold > 100 {
		return errs.NewValidationError("alert threshold must be between 1 and 100")
	}
	return nil
}
