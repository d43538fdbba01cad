package transaction

import (
	"context"
	"time"

	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/service"
)

const dateLayout = "2006-01-02"

// actionProcessor runs a write action through the operator queue.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID                 string   `json:"id" doc:"Transaction UUID"`
	CategoryID         string   `json:"categoryID" doc:"Category UUID"`
	Amount             string   `json:"amount" doc:"Decimal amount"`
	Currency           string   `json:"currency" doc:"ISO currency code"`
	Description        string   `json:"description" doc:"Description"`
	TransactionDate    string   `json:"transactionDate" doc:"Calendar date, YYYY-MM-DD"`
	PaymentMethod      string   `json:"paymentMethod" doc:"Payment method tag"`
	Merchant           string   `json:"merchant,omitempty" doc:"Merchant name"`
	Notes              string   `json:"notes,omitempty" doc:"Free-form notes"`
	Tags               []string `json:"tags,omitempty" doc:"Free-form tags"`
	Recurring          bool     `json:"recurring" doc:"Whether the transaction recurs"`
	RecurringFrequency string   `json:"recurringFrequency,omitempty" doc:"Recurrence cadence"`
	RecurringEndDate   string   `json:"recurringEndDate,omitempty" doc:"Last recurrence date, YYYY-MM-DD"`
	CreatedAt          string   `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromService(tx service.Transaction) Transaction {
	converted := Transaction{
		ID:                 tx.ID.String(),
		CategoryID:         tx.CategoryID.String(),
		Amount:             tx.Amount.String(),
		Currency:           tx.Currency,
		Description:        tx.Description,
		TransactionDate:    tx.TransactionDate.Format(dateLayout),
		PaymentMethod:      tx.PaymentMethod,
		Merchant:           tx.Merchant,
		Notes:              tx.Notes,
		Tags:               tx.Tags,
		Recurring:          tx.Recurring,
		RecurringFrequency: tx.RecurringFrequency,
		CreatedAt:          tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.RecurringEndDate != nil {
		converted.RecurringEndDate = tx.RecurringEndDate.Format(dateLayout)
	}
	return converted
}
