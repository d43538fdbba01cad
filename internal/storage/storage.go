package storage

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/expense-tracker/internal/config"
	"github.com/carson-networks/expense-tracker/internal/storage/budget"
	"github.com/carson-networks/expense-tracker/internal/storage/category"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
	"github.com/carson-networks/expense-tracker/internal/storage/user"
)

type Storage struct {
	DB           bob.DB
	Users        user.IUserTable
	Categories   category.ICategoryTable
	Transactions transaction.ITransactionTable
	Budgets      budget.IBudgetTable
}

func NewStorage(env *config.Config) *Storage {
	connStr := "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	db := bob.NewDB(sqlDB)

	return &Storage{
		DB:           db,
		Users:        user.NewTable(db),
		Categories:   category.NewTable(db),
		Transactions: transaction.NewTable(db),
		Budgets:      budget.NewTable(db),
	}
}

// Write begins a transaction and returns a Writer whose tables are scoped
// to it. The caller must Commit or Rollback.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewWriter(tx), nil
}
