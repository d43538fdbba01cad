package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/logging"
	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	CategoryID         string   `json:"categoryID" required:"true" doc:"Category UUID"`
	Amount             string   `json:"amount" required:"true" doc:"Decimal amount, at most 2 fraction digits"`
	Currency           string   `json:"currency,omitempty" doc:"ISO currency code, defaults to INR"`
	Description        string   `json:"description" required:"true" minLength:"1" doc:"Description"`
	TransactionDate    string   `json:"transactionDate,omitempty" doc:"Calendar date YYYY-MM-DD, defaults to today"`
	PaymentMethod      string   `json:"paymentMethod" required:"true" doc:"Payment method tag"`
	Merchant           string   `json:"merchant,omitempty" doc:"Merchant name"`
	Notes              string   `json:"notes,omitempty" doc:"Free-form notes"`
	Tags               []string `json:"tags,omitempty" doc:"Free-form tags"`
	Recurring          bool     `json:"recurring,omitempty" doc:"Whether the transaction recurs"`
	RecurringFrequency string   `json:"recurringFrequency,omitempty" doc:"Recurrence cadence, required when recurring"`
	RecurringEndDate   string   `json:"recurringEndDate,omitempty" doc:"Last recurrence date, YYYY-MM-DD"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	request.Identity
	Body CreateTransactionBody
}

// CreateTransactionResponse is the response body for creating a transaction.
type CreateTransactionResponse struct {
	ID string `json:"id" doc:"Created transaction UUID"`
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   CreateTransactionResponse
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	Operator actionProcessor
	Limiter  *ratelimit.Limiter
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(op actionProcessor, limiter *ratelimit.Limiter) *CreateTransactionHandler {
	return &CreateTransactionHandler{Operator: op, Limiter: limiter}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create transaction",
		Description: "Creates a new transaction and refreshes every budget it lands in.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the API input into a ready
// action. Semantic checks beyond syntax live in the action itself.
func parseCreateTransactionInput(input *CreateTransactionInput, userID uuid.UUID) (*actions.CreateTransaction, error) {
	categoryID, err := uuid.FromString(input.Body.CategoryID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid categoryID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	transactionDate := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Body.TransactionDate != "" {
		transactionDate, err = time.Parse(dateLayout, input.Body.TransactionDate)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid transactionDate", err)
		}
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

	return &actions.CreateTransaction{
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

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	if err := request.Gate(h.Limiter, "create-transaction", userID); err != nil {
		return nil, err
	}

	action, err := parseCreateTransactionInput(input, userID)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	err = h.Operator.Process(ctx, action)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, request.MapError(err, "failed to create transaction")
	}

	if logData != nil {
		logData.AddData("transactionID", action.ID.String())
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   CreateTransactionResponse{ID: action.ID.String()},
	}, nil
}
