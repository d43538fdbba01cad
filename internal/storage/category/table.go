package category

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/mods"
	"github.com/stephenafamo/scan"
)

var _ ICategoryTable = (*Table)(nil)

var columns = []string{"id", "user_id", "name", "type", "created_at"}

// Table implements category storage over Postgres.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

// FindByID retrieves a category by primary key.
func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	query := psql.Select(
		sm.Columns(toAnySlice(columns)...),
		sm.From("categories"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[*Category]())
	if err != nil {
		return nil, err
	}
	return row, nil
}

// FindByOwnerAndName retrieves the user's category with the given display
// name, used to enforce per-owner uniqueness.
func (t *Table) FindByOwnerAndName(ctx context.Context, userID uuid.UUID, name string) (*Category, error) {
	whereMods := []mods.Where[*dialect.SelectQuery]{
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.Where(psql.Quote("name").EQ(psql.Arg(name))),
	}
	query := psql.Select(
		sm.Columns(toAnySlice(columns)...),
		sm.From("categories"),
		psql.WhereAnd(whereMods...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[*Category]())
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Insert creates a new category row.
func (t *Table) Insert(ctx context.Context, row *Category) error {
	query := psql.Insert(
		im.Into("categories", columns...),
		im.Values(psql.Arg(row.ID, row.UserID, row.Name, row.Type, row.CreatedAt)),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// ListForUser returns the user's categories plus the system defaults
// (rows with no owner), alphabetical.
func (t *Table) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Category, error) {
	whereMods := []mods.Where[*dialect.SelectQuery]{
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.Where(psql.Quote("user_id").IsNull()),
	}
	query := psql.Select(
		sm.Columns(toAnySlice(columns)...),
		sm.From("categories"),
		psql.WhereOr(whereMods...),
		sm.OrderBy("name").Asc(),
	)
	return bob.All(ctx, t.exec, query, scan.StructMapper[*Category]())
}

func toAnySlice(names []string) []any {
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}
