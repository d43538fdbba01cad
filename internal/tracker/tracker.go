package tracker

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/storage/budget"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
	"github.com/carson-networks/expense-tracker/internal/storage/user"
)

// OverallScopeName labels alerts for budgets that cover all categories.
const OverallScopeName = "Overall"

// BudgetAlert is the payload handed to the notifier when a budget crosses
// its alert threshold. Percentage is the unrounded spent/amount ratio.
type BudgetAlert struct {
	Email        string
	CategoryName string
	Percentage   decimal.Decimal
	AmountLimit  decimal.Decimal
}

// Notifier delivers budget alerts. Delivery is fire-and-forget; an error
// here means the alert could not be handed off, not that it failed to arrive.
type Notifier interface {
	Notify(alert BudgetAlert) error
}

// TransactionSource supplies the current matching transaction set.
type TransactionSource interface {
	List(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error)
}

// BudgetStore locates and persists budgets during a refresh. FindByID with
// forUpdate locks the row for the rest of the surrounding transaction.
type BudgetStore interface {
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*budget.Budget, error)
	ListActiveForUser(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*budget.Budget, error)
	Update(ctx context.Context, row *budget.Budget) error
}

// UserSource resolves the owner's email for alerts.
type UserSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Tracker recomputes budget spend and fires at-most-once threshold alerts.
// Construct one per unit of work with the storage handles for that unit; the
// KeyedMutex must be the shared process-wide instance so concurrent writes
// touching the same budget serialize their read-modify-write.
//
// Lock order on every path that touches a budget row is the keyed mutex
// first, then the row lock. The row lock outlives the mutex (it is held
// until the transaction commits), so the row itself must be re-read after
// acquiring the mutex; a snapshot taken earlier can predate another
// worker's commit.
type Tracker struct {
	transactions    TransactionSource
	budgets         BudgetStore
	users           UserSource
	notifier        Notifier
	resolveCategory analytics.CategoryNameResolver
	locks           *KeyedMutex
}

func New(
	transactions TransactionSource,
	budgets BudgetStore,
	users UserSource,
	notifier Notifier,
	resolver analytics.CategoryNameResolver,
	locks *KeyedMutex,
) *Tracker {
	return &Tracker{
		transactions:    transactions,
		budgets:         budgets,
		users:           users,
		notifier:        notifier,
		resolveCategory: resolver,
		locks:           locks,
	}
}

// Recalculate sets SpentAmount to the sum of the budget's current full
// matching transaction set and derives RemainingAmount. It always queries
// the full set rather than accumulating increments, so edits and deletes of
// past transactions never leave drift behind.
func (t *Tracker) Recalculate(ctx context.Context, b *budget.Budget) error {
	filter := &transaction.TransactionFilter{
		UserID:     &b.UserID,
		CategoryID: b.CategoryID,
		StartDate:  &b.StartDate,
		EndDate:    &b.EndDate,
	}
	txns, err := t.transactions.List(ctx, filter)
	if err != nil {
		return err
	}

	spent := decimal.Zero
	for _, tx := range txns {
		spent = spent.Add(tx.Amount)
	}

	b.SpentAmount = spent
	b.RemainingAmount = b.Amount.Sub(spent)
	return nil
}

// MaybeAlert fires the threshold alert when armed and crossed. The trigger
// test uses the unrounded spent/amount ratio, which deliberately diverges
// from the rounded PercentageUsed shown to users at boundary values.
// AlertSent flips true as soon as the notify call returns; delivery failures
// are asynchronous and not observed here. Notifier errors are logged and
// never propagated.
func (t *Tracker) MaybeAlert(ctx context.Context, b *budget.Budget) {
	if !b.AlertEnabled || b.AlertSent {
		return
	}
	if !b.Amount.IsPositive() {
		return
	}

	ratio := b.SpentAmount.Mul(decimal.NewFromInt(100)).Div(b.Amount)
	if ratio.LessThan(decimal.NewFromInt(int64(b.AlertThreshold))) {
		return
	}

	owner, err := t.users.FindByID(ctx, b.UserID)
	if err != nil {
		logrus.WithError(err).WithField("budgetID", b.ID).Warn("Tracker.MaybeAlert.owner lookup failed")
		return
	}

	categoryName := OverallScopeName
	if b.CategoryID != nil {
		name, ok := t.resolveCategory(*b.CategoryID)
		if !ok {
			name = analytics.UnknownCategoryName
		}
		categoryName = name
	}

	err = t.notifier.Notify(BudgetAlert{
		Email:        owner.Email,
		CategoryName: categoryName,
		Percentage:   ratio,
		AmountLimit:  b.Amount,
	})
	if err != nil {
		logrus.WithError(err).WithField("budgetID", b.ID).Warn("Tracker.MaybeAlert.notify failed")
	}

	b.AlertSent = true
	logrus.WithField("budgetID", b.ID).Info("Tracker.MaybeAlert.alert sent")
}

// RefreshOnTransactionChange recomputes every active budget of the user
// whose window contains txDate and whose scope is either unscoped or matches
// the transaction's category, then persists each. The listing is only a
// candidate set; each budget is re-read under its keyed lock and row lock
// before anything is decided from it.
func (t *Tracker) RefreshOnTransactionChange(ctx context.Context, userID, categoryID uuid.UUID, txDate time.Time) error {
	budgets, err := t.budgets.ListActiveForUser(ctx, userID, txDate)
	if err != nil {
		return err
	}

	for _, b := range budgets {
		if b.CategoryID != nil && *b.CategoryID != categoryID {
			continue
		}
		if err := t.refreshOne(ctx, b.ID, categoryID); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) refreshOne(ctx context.Context, id, categoryID uuid.UUID) error {
	unlock := t.locks.Lock(id)
	defer unlock()

	// The listing snapshot may predate a concurrent commit that already
	// refreshed, re-scoped, or alerted this budget. Recalc and the latch
	// check must run against the row as committed, read under its lock.
	b, err := t.budgets.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if b.CategoryID != nil && *b.CategoryID != categoryID {
		return nil
	}

	if err := t.Recalculate(ctx, b); err != nil {
		return err
	}
	t.MaybeAlert(ctx, b)
	return t.budgets.Update(ctx, b)
}

// RecalculateAndPersist runs the recalculate/alert/persist sequence for a
// single budget. Used on budget create and update. The caller must hold the
// budget's keyed lock before its first read of the row, keeping the keyed
// mutex ahead of the row lock on every path.
func (t *Tracker) RecalculateAndPersist(ctx context.Context, b *budget.Budget, persist func(context.Context, *budget.Budget) error) error {
	if err := t.Recalculate(ctx, b); err != nil {
		return err
	}
	t.MaybeAlert(ctx, b)
	return persist(ctx, b)
}
