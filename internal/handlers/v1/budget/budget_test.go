package budget

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

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
	"github.com/carson-networks/expense-tracker/internal/service"
)

// mockProcessor is a mock for actionProcessor.
type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) Process(ctx context.Context, action actions.IAction) error {
	return m.Called(ctx, action).Error(0)
}

// mockBudgetService is a mock for budgetGetter and budgetLister.
type mockBudgetService struct {
	mock.Mock
}

func (m *mockBudgetService) GetBudget(ctx context.Context, userID, id uuid.UUID) (*service.Budget, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Budget), args.Error(1)
}

func (m *mockBudgetService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]service.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Budget), args.Error(1)
}

func testLimiter(capacity int64) *ratelimit.Limiter {
	return ratelimit.NewLimiter(ratelimit.Config{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   capacity,
		RefillInterval: time.Minute,
		MaxKeys:        100,
	})
}

func identityHeader(userID uuid.UUID) string {
	return "X-User-ID: " + userID.String()
}

func validBudgetBody() BudgetBody {
	return BudgetBody{
		Amount:         "1000.00",
		StartDate:      "2024-03-01",
		EndDate:        "2024-03-31",
		Period:         "MONTHLY",
		AlertEnabled:   true,
		AlertThreshold: 80,
	}
}

// -- create --

func TestHTTP_CreateBudget_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	budgetID := uuid.Must(uuid.NewV4())

	mockOp := new(mockProcessor)
	mockOp.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		create, ok := a.(*actions.CreateBudget)
		return ok && create.UserID == userID &&
			create.CategoryID == nil &&
			create.Amount.Equal(decimal.RequireFromString("1000.00")) &&
			create.Period == "MONTHLY" &&
			create.AlertThreshold == 80
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*actions.CreateBudget).ID = budgetID
	}).Return(nil)

	_, api := humatest.New(t)
	NewCreateBudgetHandler(mockOp, testLimiter(5)).Register(api)

	resp := api.Post("/v1/budget", identityHeader(userID), validBudgetBody())

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body CreateBudgetResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, budgetID.String(), body.ID)
	mockOp.AssertExpectations(t)
}

func TestHTTP_CreateBudget_ThresholdDefaultsTo80(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())

	mockOp := new(mockProcessor)
	mockOp.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		create, ok := a.(*actions.CreateBudget)
		return ok && create.AlertThreshold == 80
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*actions.CreateBudget).ID = uuid.Must(uuid.NewV4())
	}).Return(nil)

	_, api := humatest.New(t)
	NewCreateBudgetHandler(mockOp, testLimiter(5)).Register(api)

	body := validBudgetBody()
	body.AlertThreshold = 0
	resp := api.Post("/v1/budget", identityHeader(userID), body)

	assert.Equal(t, http.StatusCreated, resp.Code)
	mockOp.AssertExpectations(t)
}

func TestHTTP_CreateBudget_ValidationErrorMapsTo400(t *testing.T) {
	mockOp := new(mockProcessor)
	mockOp.On("Process", mock.Anything, mock.Anything).
		Return(errs.NewValidationError("end date must be after start date"))

	_, api := humatest.New(t)
	NewCreateBudgetHandler(mockOp, testLimiter(5)).Register(api)

	resp := api.Post("/v1/budget", identityHeader(uuid.Must(uuid.NewV4())), validBudgetBody())
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHTTP_CreateBudget_RateLimited(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())

	mockOp := new(mockProcessor)
	mockOp.On("Process", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*actions.CreateBudget).ID = uuid.Must(uuid.NewV4())
	}).Return(nil)

	_, api := humatest.New(t)
	NewCreateBudgetHandler(mockOp, testLimiter(1)).Register(api)

	resp := api.Post("/v1/budget", identityHeader(userID), validBudgetBody())
	assert.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Post("/v1/budget", identityHeader(userID), validBudgetBody())
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

// -- update --

func TestHTTP_UpdateBudget_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	budgetID := uuid.Must(uuid.NewV4())

	mockOp := new(mockProcessor)
	mockOp.On("Process", mock.Anything, mock.MatchedBy(func(a actions.IAction) bool {
		update, ok := a.(*actions.UpdateBudget)
		return ok && update.ID == budgetID && update.UserID == userID
	})).Return(nil)

	_, api := humatest.New(t)
	NewUpdateBudgetHandler(mockOp, testLimiter(5)).Register(api)

	resp := api.Put("/v1/budget/"+budgetID.String(), identityHeader(userID), validBudgetBody())
	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockOp.AssertExpectations(t)
}

func TestHTTP_UpdateBudget_WrongOwnerMapsTo403(t *testing.T) {
	mockOp := new(mockProcessor)
	mockOp.On("Process", mock.Anything, mock.Anything).
		Return(errs.NewAuthorizationError("budget"))

	_, api := humatest.New(t)
	NewUpdateBudgetHandler(mockOp, testLimiter(5)).Register(api)

	resp := api.Put("/v1/budget/"+uuid.Must(uuid.NewV4()).String(),
		identityHeader(uuid.Must(uuid.NewV4())), validBudgetBody())
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

// -- delete --

func TestHTTP_DeleteBudget_NotFoundMapsTo404(t *testing.T) {
	budgetID := uuid.Must(uuid.NewV4())
	mockOp := new(mockProcessor)
	mockOp.On("Process", mock.Anything, mock.Anything).
		Return(errs.NewNotFoundError("budget", budgetID.String()))

	_, api := humatest.New(t)
	NewDeleteBudgetHandler(mockOp, testLimiter(5)).Register(api)

	resp := api.Delete("/v1/budget/"+budgetID.String(), identityHeader(uuid.Must(uuid.NewV4())))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// -- get / list --

func makeServiceBudget(userID uuid.UUID) service.Budget {
	return service.Budget{
		ID:              uuid.Must(uuid.NewV4()),
		UserID:          userID,
		Amount:          decimal.RequireFromString("1000"),
		Currency:        "INR",
		StartDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Period:          "MONTHLY",
		SpentAmount:     decimal.RequireFromString("850"),
		RemainingAmount: decimal.RequireFromString("150"),
		AlertEnabled:    true,
		AlertThreshold:  80,
		Status:          "WARNING",
		PercentageUsed:  85,
	}
}

func TestHTTP_GetBudget_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	b := makeServiceBudget(userID)

	mockSvc := new(mockBudgetService)
	mockSvc.On("GetBudget", mock.Anything, userID, b.ID).Return(&b, nil)

	_, api := humatest.New(t)
	NewGetBudgetHandler(mockSvc).Register(api)

	resp := api.Get("/v1/budget/"+b.ID.String(), identityHeader(userID))
	assert.Equal(t, http.StatusOK, resp.Code)

	var body Budget
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "WARNING", body.Status)
	assert.Equal(t, 85, body.PercentageUsed)
	assert.Equal(t, "150", body.RemainingAmount)
	assert.Empty(t, body.CategoryID)
}

func TestHTTP_GetBudget_NotFoundMapsTo404(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	mockSvc := new(mockBudgetService)
	mockSvc.On("GetBudget", mock.Anything, mock.Anything, id).
		Return(nil, errs.NewNotFoundError("budget", id.String()))

	_, api := humatest.New(t)
	NewGetBudgetHandler(mockSvc).Register(api)

	resp := api.Get("/v1/budget/"+id.String(), identityHeader(uuid.Must(uuid.NewV4())))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_ListBudgets_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	mockSvc := new(mockBudgetService)
	mockSvc.On("ListBudgets", mock.Anything, userID).
		Return([]service.Budget{makeServiceBudget(userID)}, nil)

	_, api := humatest.New(t)
	NewListBudgetsHandler(mockSvc).Register(api)

	resp := api.Get("/v1/budget", identityHeader(userID))
	assert.Equal(t, http.StatusOK, resp.Code)

	var body ListBudgetsResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Budgets, 1)
	assert.Equal(t, "1000", body.Budgets[0].Amount)
}
