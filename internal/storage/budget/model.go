package budget

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Period is the informational cadence tag on a budget.
type Period string

const (
	PeriodWeekly    Period = "WEEKLY"
	PeriodMonthly   Period = "MONTHLY"
	PeriodQuarterly Period = "QUARTERLY"
	PeriodYearly    Period = "YEARLY"
	PeriodCustom    Period = "CUSTOM"
)

// Valid reports whether p is one of the known period tags.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly, PeriodCustom:
		return true
	}
	return false
}

// Budget represents a budget record. CategoryID nil means the budget covers
// all categories. SpentAmount/RemainingAmount are derived and refreshed on
// every in-scope transaction write; AlertSent is a one-shot latch that only
// resets when the budget is edited.
type Budget struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	CategoryID      *uuid.UUID      `db:"category_id"`
	Amount          decimal.Decimal `db:"amount"`
	Currency        string          `db:"currency"`
	StartDate       time.Time       `db:"start_date"`
	EndDate         time.Time       `db:"end_date"`
	Period          Period          `db:"period"`
	SpentAmount     decimal.Decimal `db:"spent_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	AlertEnabled    bool            `db:"alert_enabled"`
	AlertThreshold  int             `db:"alert_threshold"`
	AlertSent       bool            `db:"alert_sent"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// IBudgetTable defines the interface for budget storage operations.
// This abstraction allows swapping the implementation without changing callers.
type IBudgetTable interface {
	// FindByID retrieves a budget, taking a row lock when forUpdate is set.
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Budget, error)
	Insert(ctx context.Context, row *Budget) error
	Update(ctx context.Context, row *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error)
	// ListActiveForUser returns the user's budgets whose [start, end] window
	// contains asOf.
	ListActiveForUser(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*Budget, error)
}
