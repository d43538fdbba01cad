package budget

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/bob/mods"
	"github.com/stephenafamo/scan"
)

var _ IBudgetTable = (*Table)(nil)

var columns = []string{
	"id", "user_id", "category_id", "amount", "currency", "start_date",
	"end_date", "period", "spent_amount", "remaining_amount",
	"alert_enabled", "alert_threshold", "alert_sent",
	"created_at", "updated_at",
}

// Table implements budget storage over Postgres.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

// FindByID retrieves a budget by primary key. With forUpdate set the row is
// locked for the rest of the surrounding transaction, which backs the
// serialized read-modify-write around budget refreshes.
func (t *Table) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Budget, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(toAnySlice(columns)...),
		sm.From("budgets"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}
	row, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[*Budget]())
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Insert creates a new budget row.
func (t *Table) Insert(ctx context.Context, row *Budget) error {
	query := psql.Insert(
		im.Into("budgets", columns...),
		im.Values(psql.Arg(
			row.ID, row.UserID, row.CategoryID, row.Amount, row.Currency,
			row.StartDate, row.EndDate, row.Period, row.SpentAmount,
			row.RemainingAmount, row.AlertEnabled, row.AlertThreshold,
			row.AlertSent, row.CreatedAt, row.UpdatedAt,
		)),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// Update rewrites every mutable column, including the derived spend fields
// and the alert latch.
func (t *Table) Update(ctx context.Context, row *Budget) error {
	query := psql.Update(
		um.Table("budgets"),
		um.SetCol("category_id").ToArg(row.CategoryID),
		um.SetCol("amount").ToArg(row.Amount),
		um.SetCol("currency").ToArg(row.Currency),
		um.SetCol("start_date").ToArg(row.StartDate),
		um.SetCol("end_date").ToArg(row.EndDate),
		um.SetCol("period").ToArg(row.Period),
		um.SetCol("spent_amount").ToArg(row.SpentAmount),
		um.SetCol("remaining_amount").ToArg(row.RemainingAmount),
		um.SetCol("alert_enabled").ToArg(row.AlertEnabled),
		um.SetCol("alert_threshold").ToArg(row.AlertThreshold),
		um.SetCol("alert_sent").ToArg(row.AlertSent),
		um.SetCol("updated_at").ToArg(row.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(row.ID))),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// Delete removes the row by primary key.
func (t *Table) Delete(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From("budgets"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// ListForUser returns all of the user's budgets, newest window first.
func (t *Table) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Budget, error) {
	query := psql.Select(
		sm.Columns(toAnySlice(columns)...),
		sm.From("budgets"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.OrderBy("start_date").Desc(),
		sm.OrderBy("id").Desc(),
	)
	return bob.All(ctx, t.exec, query, scan.StructMapper[*Budget]())
}

// ListActiveForUser returns the user's budgets whose window contains asOf.
func (t *Table) ListActiveForUser(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*Budget, error) {
	whereMods := []mods.Where[*dialect.SelectQuery]{
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.Where(psql.Quote("start_date").LTE(psql.Arg(asOf))),
		sm.Where(psql.Quote("end_date").GTE(psql.Arg(asOf))),
	}
	query := psql.Select(
		sm.Columns(toAnySlice(columns)...),
		sm.From("budgets"),
		psql.WhereAnd(whereMods...),
		sm.OrderBy("start_date").Desc(),
	)
	return bob.All(ctx, t.exec, query, scan.StructMapper[*Budget]())
}

func toAnySlice(names []string) []any {
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}
