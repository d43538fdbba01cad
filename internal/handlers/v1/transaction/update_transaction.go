package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
)

// UpdateTransactionInput is the Huma input for updating a transaction. The
// body carries the full new state, same shape as create.
type UpdateTransactionInput struct {
	request.Identity
	ID   string `path:"id" doc:"Transaction UUID"`
	Body CreateTransactionBody
}

// UpdateTransactionOutput is the Huma output for updating a transaction.
type UpdateTransactionOutput struct {
	Status int
}

// UpdateTransactionHandler handles PUT /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	Operator actionProcessor
	Limiter  *ratelimit.Limiter
}

// NewUpdateTransactionHandler creates a new UpdateTransactionHandler.
func NewUpdateTransactionHandler(op actionProcessor, limiter *ratelimit.Limiter) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{Operator: op, Limiter: limiter}
}

// Register registers the update transaction endpoint with the Huma API.
func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPut,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Rewrites a transaction and refreshes the budgets in both its old and new scope.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseUpdateTransactionInput(input *UpdateTransactionInput, userID uuid.UUID) (*actions.UpdateTransaction, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transaction id", err)
	}
	categoryID, err := uuid.FromString(input.Body.CategoryID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	transactionDate, err := time.Parse(dateLayout, input.Body.TransactionDate)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
	}

	var recurringEndDate *time.Time
	if input.Body.RecurringEndDate != "" {
		parsed, parseErr := time.Parse(dateLayout, input.Body.RecurringEndDate)
		if parseErr != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid recurringEndDate", parseErr)
		}
		recurringEndDate = &parsed
	}

	currency := input.Body.Currency
	if currency == "" {
		currency = "INR"
	}

	return &actions.UpdateTransaction{
		ID:                 id,
		UserID:             userID,
		CategoryID:         categoryID,
		Amount:             amount,
		Currency:           currency,
		Description:        input.Body.Description,
		TransactionDate:    transactionDate,
		PaymentMethod:      input.Body.PaymentMethod,
		Merchant:           input.Body.Merchant,
		Notes:              input.Body.Notes,
		Tags:               input.Body.Tags,
		Recurring:          input.Body.Recurring,
		RecurringFrequency: input.Body.RecurringFrequency,
		RecurringEndDate:   recurringEndDate,
	}, nil
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	if err := request.Gate(h.Limiter, "update-transaction", userID); err != nil {
		return nil, err
	}

	action, err := parseUpdateTransactionInput(input, userID)
	if err != nil {
		return nil, err
	}

	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.MapError(err, "failed to update transaction")
	}

	return &UpdateTransactionOutput{Status: http.StatusNoContent}, nil
}
