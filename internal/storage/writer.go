package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/expense-tracker/internal/storage/budget"
	"github.com/carson-networks/expense-tracker/internal/storage/category"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
)

// Writer bundles table access scoped to a single database transaction.
type Writer struct {
	tx           bob.Tx
	Categories   category.ICategoryTable
	Transactions transaction.ITransactionTable
	Budgets      budget.IBudgetTable
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx:           tx,
		Categories:   category.NewTable(tx),
		Transactions: transaction.NewTable(tx),
		Budgets:      budget.NewTable(tx),
	}
}

func (w *Writer) Commit() error {
	return w.tx.Commit()
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback()
}
