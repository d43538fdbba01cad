package tracker

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/expense-tracker/internal/storage/budget"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
	"github.com/carson-networks/expense-tracker/internal/storage/user"
)

type mockTransactionSource struct {
	mock.Mock
}

func (m *mockTransactionSource) List(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

type mockBudgetStore struct {
	mock.Mock
}

func (m *mockBudgetStore) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*budget.Budget, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *mockBudgetStore) ListActiveForUser(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*budget.Budget, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.Budget), args.Error(1)
}

func (m *mockBudgetStore) Update(ctx context.Context, row *budget.Budget) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

type mockUserSource struct {
	mock.Mock
}

func (m *mockUserSource) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(alert BudgetAlert) error {
	args := m.Called(alert)
	return args.Error(0)
}

func testBudget(amount string, threshold int) *budget.Budget {
	return &budget.Budget{
		ID:             uuid.Must(uuid.NewV4()),
		UserID:         uuid.Must(uuid.NewV4()),
		Amount:         decimal.RequireFromString(amount),
		Currency:       "USD",
		StartDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Period:         budget.PeriodYearly,
		SpentAmount:    decimal.Zero,
		AlertEnabled:   true,
		AlertThreshold: threshold,
	}
}

func txnsWithAmounts(amounts ...string) []*transaction.Transaction {
	txns := make([]*transaction.Transaction, len(amounts))
	for i, amount := range amounts {
		txns[i] = &transaction.Transaction{
			ID:              uuid.Must(uuid.NewV4()),
			Amount:          decimal.RequireFromString(amount),
			TransactionDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return txns
}

func newTestTracker(txSource *mockTransactionSource, budgets *mockBudgetStore, users *mockUserSource, notifier *mockNotifier) *Tracker {
	resolver := func(id uuid.UUID) (string, bool) { return "Food", true }
	return New(txSource, budgets, users, notifier, resolver, NewKeyedMutex())
}

// -- status derivation --

func TestComputeStatus_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		spent    string
		expected Status
	}{
		{"at threshold is warning", "800.00", StatusWarning},
		{"at limit is exceeded", "1000.00", StatusExceeded},
		{"over limit is exceeded", "1200.00", StatusExceeded},
		{"below threshold is on track", "794.00", StatusOnTrack},
		{"zero spend is on track", "0.00", StatusOnTrack},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := testBudget("1000.00", 80)
			b.SpentAmount = decimal.RequireFromString(tc.spent)
			assert.Equal(t, tc.expected, ComputeStatus(b))
		})
	}
}

func TestPercentageUsed_RoundsHalfUp(t *testing.T) {
	b := testBudget("1000.00", 80)
	b.SpentAmount = decimal.RequireFromString("799.00")

	// 79.9 rounds to 80: the rounded display value can reach WARNING even
	// though the unrounded alert ratio (79.9) stays below the threshold.
	assert.Equal(t, 80, PercentageUsed(b))
	assert.Equal(t, StatusWarning, ComputeStatus(b))
}

func TestPercentageUsed_ZeroAmount(t *testing.T) {
	b := testBudget("1000.00", 80)
	b.Amount = decimal.Zero
	b.SpentAmount = decimal.RequireFromString("50.00")

	assert.Equal(t, 0, PercentageUsed(b))
}

// -- Recalculate --

func TestRecalculate_SumsCurrentMatchingSet(t *testing.T) {
	txSource := new(mockTransactionSource)
	budgets := new(mockBudgetStore)
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(txSource, budgets, users, notifier)

	b := testBudget("1000.00", 80)
	categoryID := uuid.Must(uuid.NewV4())
	b.CategoryID = &categoryID

	txSource.On("List", mock.Anything, mock.MatchedBy(func(f *transaction.TransactionFilter) bool {
		return f.UserID != nil && *f.UserID == b.UserID &&
			f.CategoryID != nil && *f.CategoryID == categoryID &&
			f.StartDate != nil && f.StartDate.Equal(b.StartDate) &&
			f.EndDate != nil && f.EndDate.Equal(b.EndDate)
	})).Return(txnsWithAmounts("100.50", "200.00"), nil)

	err := tr.Recalculate(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, "300.5", b.SpentAmount.String())
	assert.Equal(t, "699.5", b.RemainingAmount.String())
}

func TestRecalculate_ReplacesStaleSpend(t *testing.T) {
	txSource := new(mockTransactionSource)
	tr := newTestTracker(txSource, new(mockBudgetStore), new(mockUserSource), new(mockNotifier))

	b := testBudget("1000.00", 80)
	b.SpentAmount = decimal.RequireFromString("900.00")

	// A deleted transaction shrank the matching set; the recomputation must
	// reflect the full current set, not accumulate on top of the old value.
	txSource.On("List", mock.Anything, mock.Anything).Return(txnsWithAmounts("100.00"), nil)

	err := tr.Recalculate(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, "100", b.SpentAmount.String())
	assert.Equal(t, "900", b.RemainingAmount.String())
}

func TestRecalculate_QueryError(t *testing.T) {
	txSource := new(mockTransactionSource)
	tr := newTestTracker(txSource, new(mockBudgetStore), new(mockUserSource), new(mockNotifier))

	txSource.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	err := tr.Recalculate(context.Background(), testBudget("1000.00", 80))

	assert.Error(t, err)
}

// -- MaybeAlert --

func TestMaybeAlert_FiresOnceAtThreshold(t *testing.T) {
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(new(mockTransactionSource), new(mockBudgetStore), users, notifier)

	b := testBudget("1000.00", 80)
	b.SpentAmount = decimal.RequireFromString("800.00")
	b.RemainingAmount = decimal.RequireFromString("200.00")

	users.On("FindByID", mock.Anything, b.UserID).
		Return(&user.User{ID: b.UserID, Email: "owner@example.com"}, nil)
	notifier.On("Notify", mock.MatchedBy(func(alert BudgetAlert) bool {
		return alert.Email == "owner@example.com" &&
			alert.CategoryName == OverallScopeName &&
			alert.Percentage.Equal(decimal.NewFromInt(80)) &&
			alert.AmountLimit.Equal(decimal.NewFromInt(1000))
	})).Return(nil).Once()

	tr.MaybeAlert(context.Background(), b)
	assert.True(t, b.AlertSent)

	// A second crossing without an intervening edit must not re-fire.
	tr.MaybeAlert(context.Background(), b)

	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestMaybeAlert_RearmsAfterEdit(t *testing.T) {
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(new(mockTransactionSource), new(mockBudgetStore), users, notifier)

	b := testBudget("1000.00", 80)
	b.SpentAmount = decimal.RequireFromString("850.00")

	users.On("FindByID", mock.Anything, b.UserID).
		Return(&user.User{ID: b.UserID, Email: "owner@example.com"}, nil)
	notifier.On("Notify", mock.Anything).Return(nil)

	tr.MaybeAlert(context.Background(), b)
	require.True(t, b.AlertSent)

	// Editing the budget resets the latch, re-arming the alert.
	b.AlertSent = false
	tr.MaybeAlert(context.Background(), b)

	notifier.AssertNumberOfCalls(t, "Notify", 2)
}

func TestMaybeAlert_UnroundedRatioBelowThresholdDoesNotFire(t *testing.T) {
	notifier := new(mockNotifier)
	tr := newTestTracker(new(mockTransactionSource), new(mockBudgetStore), new(mockUserSource), notifier)

	b := testBudget("1000.00", 80)
	b.SpentAmount = decimal.RequireFromString("799.00")

	// 79.9 < 80 unrounded, so no alert, even though the rounded status is
	// already WARNING.
	tr.MaybeAlert(context.Background(), b)

	assert.False(t, b.AlertSent)
	notifier.AssertNotCalled(t, "Notify")
	assert.Equal(t, StatusWarning, ComputeStatus(b))
}

func TestMaybeAlert_DisabledIsNoop(t *testing.T) {
	notifier := new(mockNotifier)
	tr := newTestTracker(new(mockTransactionSource), new(mockBudgetStore), new(mockUserSource), notifier)

	b := testBudget("1000.00", 80)
	b.AlertEnabled = false
	b.SpentAmount = decimal.RequireFromString("999.00")

	tr.MaybeAlert(context.Background(), b)

	assert.False(t, b.AlertSent)
	notifier.AssertNotCalled(t, "Notify")
}

func TestMaybeAlert_ScopedBudgetUsesCategoryName(t *testing.T) {
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(new(mockTransactionSource), new(mockBudgetStore), users, notifier)

	b := testBudget("1000.00", 80)
	categoryID := uuid.Must(uuid.NewV4())
	b.CategoryID = &categoryID
	b.SpentAmount = decimal.RequireFromString("900.00")

	users.On("FindByID", mock.Anything, b.UserID).
		Return(&user.User{ID: b.UserID, Email: "owner@example.com"}, nil)
	notifier.On("Notify", mock.MatchedBy(func(alert BudgetAlert) bool {
		return alert.CategoryName == "Food"
	})).Return(nil)

	tr.MaybeAlert(context.Background(), b)

	assert.True(t, b.AlertSent)
	notifier.AssertExpectations(t)
}

func TestMaybeAlert_NotifierFailureStillSetsLatch(t *testing.T) {
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(new(mockTransactionSource), new(mockBudgetStore), users, notifier)

	b := testBudget("1000.00", 80)
	b.SpentAmount = decimal.RequireFromString("900.00")

	users.On("FindByID", mock.Anything, b.UserID).
		Return(&user.User{ID: b.UserID, Email: "owner@example.com"}, nil)
	notifier.On("Notify", mock.Anything).Return(errors.New("queue full"))

	tr.MaybeAlert(context.Background(), b)

	// The latch flips as soon as the notify call returns; delivery is
	// fire-and-forget and failures are only logged.
	assert.True(t, b.AlertSent)
}

// -- RefreshOnTransactionChange --

func TestRefreshOnTransactionChange_RefreshesMatchingBudgets(t *testing.T) {
	txSource := new(mockTransactionSource)
	budgets := new(mockBudgetStore)
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(txSource, budgets, users, notifier)

	userID := uuid.Must(uuid.NewV4())
	txCategory := uuid.Must(uuid.NewV4())
	otherCategory := uuid.Must(uuid.NewV4())
	txDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	unscoped := testBudget("1000.00", 80)
	unscoped.UserID = userID
	matching := testBudget("500.00", 80)
	matching.UserID = userID
	matching.CategoryID = &txCategory
	unrelated := testBudget("300.00", 80)
	unrelated.UserID = userID
	unrelated.CategoryID = &otherCategory

	budgets.On("ListActiveForUser", mock.Anything, userID, txDate).
		Return([]*budget.Budget{unscoped, matching, unrelated}, nil)
	budgets.On("FindByID", mock.Anything, unscoped.ID, true).Return(unscoped, nil).Once()
	budgets.On("FindByID", mock.Anything, matching.ID, true).Return(matching, nil).Once()
	txSource.On("List", mock.Anything, mock.Anything).Return(txnsWithAmounts("10.00"), nil)
	budgets.On("Update", mock.Anything, unscoped).Return(nil).Once()
	budgets.On("Update", mock.Anything, matching).Return(nil).Once()

	err := tr.RefreshOnTransactionChange(context.Background(), userID, txCategory, txDate)

	require.NoError(t, err)
	budgets.AssertExpectations(t)
	budgets.AssertNotCalled(t, "FindByID", mock.Anything, unrelated.ID, true)
	budgets.AssertNotCalled(t, "Update", mock.Anything, unrelated)
	assert.Equal(t, "10", unscoped.SpentAmount.String())
	assert.Equal(t, "10", matching.SpentAmount.String())
}

func TestRefreshOnTransactionChange_AlertsExactlyOnceAcrossConcurrentWrites(t *testing.T) {
	txSource := new(mockTransactionSource)
	budgets := new(mockBudgetStore)
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(txSource, budgets, users, notifier)

	b := testBudget("100.00", 80)
	txDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	categoryID := uuid.Must(uuid.NewV4())

	budgets.On("ListActiveForUser", mock.Anything, b.UserID, txDate).
		Return([]*budget.Budget{b}, nil)
	budgets.On("FindByID", mock.Anything, b.ID, true).Return(b, nil)
	txSource.On("List", mock.Anything, mock.Anything).Return(txnsWithAmounts("90.00"), nil)
	budgets.On("Update", mock.Anything, b).Return(nil)
	users.On("FindByID", mock.Anything, b.UserID).
		Return(&user.User{ID: b.UserID, Email: "owner@example.com"}, nil)
	notifier.On("Notify", mock.Anything).Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tr.RefreshOnTransactionChange(context.Background(), b.UserID, categoryID, txDate)
		}()
	}
	wg.Wait()

	// The per-budget lock serializes recalc+alert+persist, so the latch is
	// observed set by every later writer and the notifier fires once.
	notifier.AssertNumberOfCalls(t, "Notify", 1)
	assert.True(t, b.AlertSent)
}

func TestRefreshOnTransactionChange_UsesCommittedRowNotListingSnapshot(t *testing.T) {
	txSource := new(mockTransactionSource)
	budgets := new(mockBudgetStore)
	users := new(mockUserSource)
	notifier := new(mockNotifier)
	tr := newTestTracker(txSource, budgets, users, notifier)

	txDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	categoryID := uuid.Must(uuid.NewV4())

	// The listing snapshot is taken without a lock, so by the time the row
	// lock is acquired another worker's commit may already have refreshed
	// and alerted this budget. The snapshot still says alert_sent=false.
	stale := testBudget("100.00", 80)
	stale.SpentAmount = decimal.Zero

	committed := *stale
	committed.SpentAmount = decimal.RequireFromString("90.00")
	committed.RemainingAmount = decimal.RequireFromString("10.00")
	committed.AlertSent = true

	budgets.On("ListActiveForUser", mock.Anything, stale.UserID, txDate).
		Return([]*budget.Budget{stale}, nil)
	budgets.On("FindByID", mock.Anything, stale.ID, true).Return(&committed, nil)
	txSource.On("List", mock.Anything, mock.Anything).Return(txnsWithAmounts("90.00", "5.00"), nil)
	budgets.On("Update", mock.Anything, &committed).Return(nil).Once()

	err := tr.RefreshOnTransactionChange(context.Background(), stale.UserID, categoryID, txDate)

	require.NoError(t, err)
	// The sum persisted comes from the full current set, not the stale
	// snapshot, and the already-set latch suppresses a second alert.
	assert.Equal(t, "95", committed.SpentAmount.String())
	assert.False(t, stale.AlertSent)
	notifier.AssertNotCalled(t, "Notify")
	budgets.AssertExpectations(t)
}

func TestRefreshOnTransactionChange_SkipsRowDeletedAfterListing(t *testing.T) {
	txSource := new(mockTransactionSource)
	budgets := new(mockBudgetStore)
	tr := newTestTracker(txSource, budgets, new(mockUserSource), new(mockNotifier))

	b := testBudget("100.00", 80)
	txDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	budgets.On("ListActiveForUser", mock.Anything, b.UserID, txDate).
		Return([]*budget.Budget{b}, nil)
	budgets.On("FindByID", mock.Anything, b.ID, true).Return(nil, sql.ErrNoRows)

	err := tr.RefreshOnTransactionChange(context.Background(), b.UserID, uuid.Must(uuid.NewV4()), txDate)

	require.NoError(t, err)
	budgets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	txSource.AssertNotCalled(t, "List")
}

// -- validation --

func TestValidateBudget(t *testing.T) {
	valid := testBudget("1000.00", 80)
	assert.NoError(t, ValidateBudget(valid))

	negative := testBudget("1000.00", 80)
	negative.Amount = decimal.RequireFromString("-5.00")
	assert.Error(t, ValidateBudget(negative))

	tooPrecise := testBudget("1000.00", 80)
	tooPrecise.Amount = decimal.RequireFromString("10.999")
	assert.Error(t, ValidateBudget(tooPrecise))

	inverted := testBudget("1000.00", 80)
	inverted.EndDate = inverted.StartDate.AddDate(0, 0, -1)
	assert.Error(t, ValidateBudget(inverted))

	threshold := testBudget("1000.00", 101)
	assert.Error(t, ValidateBudget(threshold))

	zeroThreshold := testBudget("1000.00", 0)
	assert.Error(t, ValidateBudget(zeroThreshold))
}
