package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/expense-tracker/internal/service"
)

// mockTransactionLister is a mock for transactionLister.
type mockTransactionLister struct {
	mock.Mock
}

func (m *mockTransactionLister) ListTransactions(ctx context.Context, userID uuid.UUID, query *service.TransactionQuery, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error) {
	args := m.Called(ctx, userID, query, cursor)
	var transactions []service.Transaction
	if args.Get(0) != nil {
		transactions = args.Get(0).([]service.Transaction)
	}
	var nextCursor *service.TransactionCursor
	if args.Get(1) != nil {
		nextCursor = args.Get(1).(*service.TransactionCursor)
	}
	return transactions, nextCursor, args.Error(2)
}

func newListTestAPI(t *testing.T, svc transactionLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewListTransactionsHandler(svc).Register(api)
	return api
}

func makeServiceTransaction(userID uuid.UUID) service.Transaction {
	return service.Transaction{
		ID:              uuid.Must(uuid.NewV4()),
		UserID:          userID,
		CategoryID:      uuid.Must(uuid.NewV4()),
		Amount:          decimal.RequireFromString("99.99"),
		Currency:        "INR",
		Description:     "Shoes",
		TransactionDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		PaymentMethod:   "CREDIT_CARD",
		CreatedAt:       time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestHTTP_ListTransactions_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	tx := makeServiceTransaction(userID)

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, userID, mock.Anything, (*service.TransactionCursor)(nil)).
		Return([]service.Transaction{tx}, nil, nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list",
		identityHeader(userID), ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Transactions, 1)
	assert.Equal(t, tx.ID.String(), body.Transactions[0].ID)
	assert.Equal(t, "99.99", body.Transactions[0].Amount)
	assert.Equal(t, "2024-03-10", body.Transactions[0].TransactionDate)
	assert.Nil(t, body.NextCursor)
}

func TestHTTP_ListTransactions_NextCursorReturned(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	maxCreationTime := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, userID, mock.Anything, mock.Anything).
		Return([]service.Transaction{makeServiceTransaction(userID)},
			&service.TransactionCursor{Position: 20, Limit: 20, MaxCreationTime: maxCreationTime}, nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list",
		identityHeader(userID), ListTransactionsBody{})

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListTransactionsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotNil(t, body.NextCursor)
	assert.Equal(t, 20, body.NextCursor.Position)
	assert.Equal(t, maxCreationTime.Format(time.RFC3339), body.NextCursor.MaxCreationTime)
}

func TestHTTP_ListTransactions_FiltersPassedToService(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	categoryID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockTransactionLister)
	mockSvc.On("ListTransactions", mock.Anything, userID, mock.MatchedBy(func(q *service.TransactionQuery) bool {
		return q != nil && q.CategoryID != nil && *q.CategoryID == categoryID &&
			q.StartDate != nil && q.StartDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			q.EndDate != nil && q.EndDate.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	}), mock.Anything).Return(nil, nil, nil)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list",
		identityHeader(userID), ListTransactionsBody{
			CategoryID: categoryID.String(),
			StartDate:  "2024-03-01",
			EndDate:    "2024-03-31",
		})

	assert.Equal(t, http.StatusOK, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_ListTransactions_ReversedRangeRejected(t *testing.T) {
	mockSvc := new(mockTransactionLister)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list",
		identityHeader(uuid.Must(uuid.NewV4())), ListTransactionsBody{
			StartDate: "2024-03-31",
			EndDate:   "2024-03-01",
		})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "ListTransactions")
}

func TestHTTP_ListTransactions_InvalidCursorTime(t *testing.T) {
	mockSvc := new(mockTransactionLister)

	resp := newListTestAPI(t, mockSvc).Post("/v1/transaction/list",
		identityHeader(uuid.Must(uuid.NewV4())), ListTransactionsBody{
			Cursor: &ListTransactionsCursor{Position: 0, Limit: 20, MaxCreationTime: "yesterday"},
		})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "ListTransactions")
}
