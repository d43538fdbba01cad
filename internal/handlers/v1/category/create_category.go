package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/request"
	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
)

// CreateCategoryBody is the request body for creating a category.
type CreateCategoryBody struct {
	Name string `json:"name" required:"true" minLength:"1" doc:"Display name, unique per user"`
	Type string `json:"type" required:"true" doc:"INCOME or EXPENSE"`
}

// CreateCategoryInput is the Huma input for creating a category.
type CreateCategoryInput struct {
	request.Identity
	Body CreateCategoryBody
}

// CreateCategoryResponse is the response body for creating a category.
type CreateCategoryResponse struct {
	ID string `json:"id" doc:"Created category UUID"`
}

// CreateCategoryOutput is the Huma output for creating a category.
type CreateCategoryOutput struct {
	Status int
	Body   CreateCategoryResponse
}

// CreateCategoryHandler handles POST /v1/category.
type CreateCategoryHandler struct {
	Operator actionProcessor
	Limiter  *ratelimit.Limiter
}

// NewCreateCategoryHandler creates a new CreateCategoryHandler.
func NewCreateCategoryHandler(op actionProcessor, limiter *ratelimit.Limiter) *CreateCategoryHandler {
	return &CreateCategoryHandler{Operator: op, Limiter: limiter}
}

// Register registers the create category endpoint with the Huma API.
func (h *CreateCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-category",
		Method:      http.MethodPost,
		Path:        "/v1/category",
		Summary:     "Create category",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *CreateCategoryHandler) handle(ctx context.Context, input *CreateCategoryInput) (*CreateCategoryOutput, error) {
	userID, err := input.ParseUserID()
	if err != nil {
		return nil, err
	}
	if err := request.Gate(h.Limiter, "create-category", userID); err != nil {
		return nil, err
	}

	action := &actions.CreateCategory{
		UserID: userID,
		Name:   input.Body.Name,
		Type:   input.Body.Type,
	}
	if err := h.Operator.Process(ctx, action); err != nil {
		return nil, request.MapError(err, "failed to create category")
	}

	return &CreateCategoryOutput{
		Status: http.StatusCreated,
		Body:   CreateCategoryResponse{ID: action.ID.String()},
	}, nil
}
