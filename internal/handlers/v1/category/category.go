package category

import (
	"context"

	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/service"
)

// actionProcessor runs a write action through the operator queue.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Category is the API response model for a category.
type Category struct {
	ID     string `json:"id" doc:"Category UUID"`
	Name   string `json:"name" doc:"Display name"`
	Type   string `json:"type" doc:"INCOME or EXPENSE"`
	System bool   `json:"system" doc:"Whether this is a system default category"`
}

func fromService(c service.Category) Category {
	return Category{
		ID:     c.ID.String(),
		Name:   c.Name,
		Type:   c.Type,
		System: c.UserID == nil,
	}
}
