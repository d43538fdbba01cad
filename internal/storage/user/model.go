package user

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents a user record. Credential handling lives outside this
// service; the tracker only needs the email address for budget alerts.
type User struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// IUserTable defines the interface for user storage operations.
type IUserTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}
