package category

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Type tags a category as money in or money out.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// Valid reports whether t is a known category type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category represents a category record. A nil UserID marks a system default
// category visible to everyone.
type Category struct {
	ID        uuid.UUID  `db:"id"`
	UserID    *uuid.UUID `db:"user_id"`
	Name      string     `db:"name"`
	Type      Type       `db:"type"`
	CreatedAt time.Time  `db:"created_at"`
}

// ICategoryTable defines the interface for category storage operations.
type ICategoryTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// FindByOwnerAndName enforces per-owner display-name uniqueness.
	FindByOwnerAndName(ctx context.Context, userID uuid.UUID, name string) (*Category, error)
	Insert(ctx context.Context, row *Category) error
	// ListForUser returns the user's categories plus the system defaults.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Category, error)
}
