package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
)

func newTransactionTestService(t *testing.T) (*TransactionService, *mockTransactionTable) {
	t.Helper()
	mockTable := new(mockTransactionTable)
	store := &storage.Storage{Transactions: mockTable}
	return NewTransactionService(store), mockTable
}

func makeStorageTransactions(n int, userID uuid.UUID, createdAt time.Time) []*transaction.Transaction {
	rows := make([]*transaction.Transaction, n)
	for i := range rows {
		rows[i] = &transaction.Transaction{
			ID:              uuid.Must(uuid.NewV4()),
			UserID:          userID,
			CategoryID:      uuid.Must(uuid.NewV4()),
			Amount:          decimal.RequireFromString("25.00"),
			Currency:        "INR",
			Description:     "Groceries",
			TransactionDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			PaymentMethod:   transaction.PaymentMethodUPI,
			CreatedAt:       createdAt,
		}
	}
	return rows
}

// -- GetTransaction tests --

func TestGetTransaction_Success(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	userID := uuid.Must(uuid.NewV4())
	rows := makeStorageTransactions(1, userID, time.Now())
	mockTable.On("FindByID", mock.Anything, rows[0].ID).Return(rows[0], nil)

	tx, err := svc.GetTransaction(context.Background(), userID, rows[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, rows[0].ID, tx.ID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, "UPI", tx.PaymentMethod)
}

func TestGetTransaction_NotFound(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	id := uuid.Must(uuid.NewV4())
	mockTable.On("FindByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	tx, err := svc.GetTransaction(context.Background(), uuid.Must(uuid.NewV4()), id)
	assert.Nil(t, tx)
	assert.True(t, errs.IsNotFoundError(err))
}

func TestGetTransaction_WrongOwner(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	owner := uuid.Must(uuid.NewV4())
	rows := makeStorageTransactions(1, owner, time.Now())
	mockTable.On("FindByID", mock.Anything, rows[0].ID).Return(rows[0], nil)

	tx, err := svc.GetTransaction(context.Background(), uuid.Must(uuid.NewV4()), rows[0].ID)
	assert.Nil(t, tx)
	assert.True(t, errs.IsAuthorizationError(err))
}

// -- ListTransactions tests --

func TestListTransactions_FirstPageWithMore(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	userID := uuid.Must(uuid.NewV4())
	createdAt := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	// defaultTransactionLimit+1 rows signals another page exists.
	rows := makeStorageTransactions(defaultTransactionLimit+1, userID, createdAt)

	mockTable.On("List", mock.Anything, mock.MatchedBy(func(f *transaction.TransactionFilter) bool {
		return f.UserID != nil && *f.UserID == userID &&
			f.Limit == defaultTransactionLimit && f.Offset == 0 && f.MaxCreationTime == nil
	})).Return(rows, nil)

	transactions, nextCursor, err := svc.ListTransactions(context.Background(), userID, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, transactions, defaultTransactionLimit)
	assert.NotNil(t, nextCursor)
	assert.Equal(t, defaultTransactionLimit, nextCursor.Position)
	assert.Equal(t, defaultTransactionLimit, nextCursor.Limit)
	assert.True(t, nextCursor.MaxCreationTime.Equal(createdAt))
}

func TestListTransactions_LastPage(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	userID := uuid.Must(uuid.NewV4())
	rows := makeStorageTransactions(3, userID, time.Now())
	mockTable.On("List", mock.Anything, mock.Anything).Return(rows, nil)

	transactions, nextCursor, err := svc.ListTransactions(context.Background(), userID, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, transactions, 3)
	assert.Nil(t, nextCursor)
}

func TestListTransactions_Empty(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	userID := uuid.Must(uuid.NewV4())
	mockTable.On("List", mock.Anything, mock.Anything).Return([]*transaction.Transaction{}, nil)

	transactions, nextCursor, err := svc.ListTransactions(context.Background(), userID, nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, transactions)
	assert.Nil(t, nextCursor)
}

func TestListTransactions_CursorCarriesMaxCreationTime(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	userID := uuid.Must(uuid.NewV4())
	maxCreationTime := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	rows := makeStorageTransactions(6, userID, maxCreationTime.Add(-time.Hour))

	mockTable.On("List", mock.Anything, mock.MatchedBy(func(f *transaction.TransactionFilter) bool {
		return f.Limit == 5 && f.Offset == 5 &&
			f.MaxCreationTime != nil && f.MaxCreationTime.Equal(maxCreationTime)
	})).Return(rows, nil)

	cursor := &TransactionCursor{Position: 5, Limit: 5, MaxCreationTime: maxCreationTime}
	transactions, nextCursor, err := svc.ListTransactions(context.Background(), userID, nil, cursor)
	assert.NoError(t, err)
	assert.Len(t, transactions, 5)
	assert.NotNil(t, nextCursor)
	assert.Equal(t, 10, nextCursor.Position)
	// The original bound sticks, not the newest row of this page.
	assert.True(t, nextCursor.MaxCreationTime.Equal(maxCreationTime))
}

func TestListTransactions_QueryFiltersPassedThrough(t *testing.T) {
	svc, mockTable := newTransactionTestService(t)

	userID := uuid.Must(uuid.NewV4())
	categoryID := uuid.Must(uuid.NewV4())
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	mockTable.On("List", mock.Anything, mock.MatchedBy(func(f *transaction.TransactionFilter) bool {
		return f.CategoryID != nil && *f.CategoryID == categoryID &&
			f.StartDate != nil && f.StartDate.Equal(start) &&
			f.EndDate != nil && f.EndDate.Equal(end)
	})).Return([]*transaction.Transaction{}, nil)

	query := &TransactionQuery{CategoryID: &categoryID, StartDate: &start, EndDate: &end}
	_, _, err := svc.ListTransactions(context.Background(), userID, query, nil)
	assert.NoError(t, err)
	mockTable.AssertExpectations(t)
}
