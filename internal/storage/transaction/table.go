package transaction

import (
	"context"

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

var _ ITransactionTable = (*Table)(nil)

var columns = []string{
	"id", "user_id", "category_id", "amount", "currency", "description",
	"transaction_date", "payment_method", "merchant", "notes", "tags",
	"recurring", "recurring_frequency", "recurring_end_date",
	"created_at", "updated_at",
}

// Table implements transaction storage over Postgres.
type Table struct {
	exec bob.Executor
}

func NewTable(exec bob.Executor) *Table {
	return &Table{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (t *Table) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := psql.Select(
		sm.Columns(toAnySlice(columns)...),
		sm.From("transactions"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Insert creates a new transaction row.
func (t *Table) Insert(ctx context.Context, row *Transaction) error {
	query := psql.Insert(
		im.Into("transactions", columns...),
		im.Values(psql.Arg(
			row.ID, row.UserID, row.CategoryID, row.Amount, row.Currency,
			row.Description, row.TransactionDate, row.PaymentMethod,
			row.Merchant, row.Notes, row.Tags, row.Recurring,
			row.RecurringFreq, row.RecurringEndDate,
			row.CreatedAt, row.UpdatedAt,
		)),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// Update rewrites every mutable column of the row.
func (t *Table) Update(ctx context.Context, row *Transaction) error {
	query := psql.Update(
		um.Table("transactions"),
		um.SetCol("category_id").ToArg(row.CategoryID),
		um.SetCol("amount").ToArg(row.Amount),
		um.SetCol("currency").ToArg(row.Currency),
		um.SetCol("description").ToArg(row.Description),
		um.SetCol("transaction_date").ToArg(row.TransactionDate),
		um.SetCol("payment_method").ToArg(row.PaymentMethod),
		um.SetCol("merchant").ToArg(row.Merchant),
		um.SetCol("notes").ToArg(row.Notes),
		um.SetCol("tags").ToArg(row.Tags),
		um.SetCol("recurring").ToArg(row.Recurring),
		um.SetCol("recurring_frequency").ToArg(row.RecurringFreq),
		um.SetCol("recurring_end_date").ToArg(row.RecurringEndDate),
		um.SetCol("updated_at").ToArg(row.UpdatedAt),
		um.Where(psql.Quote("id").EQ(psql.Arg(row.ID))),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// Delete removes the row by primary key.
func (t *Table) Delete(ctx context.Context, id uuid.UUID) error {
	query := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, t.exec, query)
	return err
}

// List returns transactions matching the filter, newest transaction date
// first. Nil filter returns all rows.
func (t *Table) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(toAnySlice(columns)...),
		sm.From("transactions"),
	}

	if filter != nil {
		var whereMods []mods.Where[*dialect.SelectQuery]
		if filter.UserID != nil {
			whereMods = append(whereMods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
		}
		if filter.CategoryID != nil {
			whereMods = append(whereMods, sm.Where(psql.Quote("category_id").EQ(psql.Arg(*filter.CategoryID))))
		}
		if filter.StartDate != nil {
			whereMods = append(whereMods, sm.Where(psql.Quote("transaction_date").GTE(psql.Arg(*filter.StartDate))))
		}
		if filter.EndDate != nil {
			whereMods = append(whereMods, sm.Where(psql.Quote("transaction_date").LTE(psql.Arg(*filter.EndDate))))
		}
		if filter.MaxCreationTime != nil {
			whereMods = append(whereMods, sm.Where(psql.Quote("created_at").LTE(psql.Arg(*filter.MaxCreationTime))))
		}
		if len(whereMods) == 1 {
			queryMods = append(queryMods, whereMods[0])
		} else if len(whereMods) > 1 {
			queryMods = append(queryMods, psql.WhereAnd(whereMods...))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit+1))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}

	queryMods = append(queryMods,
		sm.OrderBy("transaction_date").Desc(),
		sm.OrderBy("id").Desc(),
	)

	return bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[*Transaction]())
}

func toAnySlice(names []string) []any {
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}
