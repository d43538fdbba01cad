package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID                 uuid.UUID
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
	CreatedAt          time.Time
}

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}

// TransactionQuery narrows a transaction listing. Nil fields are not applied.
type TransactionQuery struct {
	CategoryID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:                 row.ID,
		UserID:             row.UserID,
		CategoryID:         row.CategoryID,
		Amount:             row.Amount,
		Currency:           row.Currency,
		Description:        row.Description,
		TransactionDate:    row.TransactionDate,
		PaymentMethod:      string(row.PaymentMethod),
		Merchant:           row.Merchant,
		Notes:              row.Notes,
		Tags:               row.Tags,
		Recurring:          row.Recurring,
		RecurringFrequency: string(row.RecurringFreq),
		RecurringEndDate:   row.RecurringEndDate,
		CreatedAt:          row.CreatedAt,
	}
}
