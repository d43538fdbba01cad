package actions

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/storage"
	"github.com/carson-networks/expense-tracker/internal/storage/category"
)

// CreateCategory inserts a user-owned category with a per-owner unique name.
// ID is populated during Perform.
type CreateCategory struct {
	ID uuid.UUID

	UserID uuid.UUID
	Name   string
	Type   string

	IAction
}

func (c *CreateCategory) Perform(ctx context.Context, writer *storage.Writer, _ *Deps) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return errs.NewValidationError("category name must not be empty")
	}
	categoryType := category.Type(c.Type)
	if !categoryType.Valid() {
		return errs.NewValidationError("unknown category type: %s", c.Type)
	}

	_, err := writer.Categories.FindByOwnerAndName(ctx, c.UserID, name)
	if err == nil {
		return errs.NewValidationError("category already exists: %s", name)
	}
	if !isNoRows(err) {
		return err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	row := &category.Category{
		ID:        id,
		UserID:    &c.UserID,
		Name:      name,
		Type:      categoryType,
		CreatedAt: time.Now().UTC(),
	}
	if err := writer.Categories.Insert(ctx, row); err != nil {
		return err
	}

	c.ID = id
	return nil
}
