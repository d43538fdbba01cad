package user

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ IUserTable = (*Table)(nil)

// Table implements user storage over Postgres.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

// FindByID retrieves a user by primary key.
func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := psql.Select(
		sm.Columns("id", "email", "name", "created_at"),
		sm.From("users"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[*User]())
	if err != nil {
		return nil, err
	}
	return row, nil
}
