package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the closed set of payment tags a transaction may carry.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "CASH"
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
	PaymentMethodWallet     PaymentMethod = "WALLET"
	PaymentMethodOther      PaymentMethod = "OTHER"
)

// Valid reports whether m is one of the known payment method tags.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodUPI, PaymentMethodNetBanking, PaymentMethodWallet, PaymentMethodOther:
		return true
	}
	return false
}

// RecurringFrequency describes how often a recurring transaction repeats.
type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "DAILY"
	RecurringWeekly  RecurringFrequency = "WEEKLY"
	RecurringMonthly RecurringFrequency = "MONTHLY"
	RecurringYearly  RecurringFrequency = "YEARLY"
)

// Valid reports whether f is one of the known frequency tags.
func (f RecurringFrequency) Valid() bool {
	switch f {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}

// Transaction represents a transaction record. TransactionDate is a calendar
// date; the time component is always midnight UTC.
type Transaction struct {
	ID               uuid.UUID          `db:"id"`
	UserID           uuid.UUID          `db:"user_id"`
	CategoryID       uuid.UUID          `db:"category_id"`
	Amount           decimal.Decimal    `db:"amount"`
	Currency         string             `db:"currency"`
	Description      string             `db:"description"`
	TransactionDate  time.Time          `db:"transaction_date"`
	PaymentMethod    PaymentMethod      `db:"payment_method"`
	Merchant         string             `db:"merchant"`
	Notes            string             `db:"notes"`
	Tags             pq.StringArray     `db:"tags"`
	Recurring        bool               `db:"recurring"`
	RecurringFreq    RecurringFrequency `db:"recurring_frequency"`
	RecurringEndDate *time.Time         `db:"recurring_end_date"`
	CreatedAt        time.Time          `db:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at"`
}

// TransactionFilter specifies filters for listing transactions.
// Nil pointer fields are not applied.
type TransactionFilter struct {
	UserID          *uuid.UUID
	CategoryID      *uuid.UUID
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
	Offset          int
	MaxCreationTime *time.Time
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation without changing callers.
type ITransactionTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, row *Transaction) error
	Update(ctx context.Context, row *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
}
