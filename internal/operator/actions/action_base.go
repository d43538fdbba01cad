package actions

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/storage"
	"github.com/carson-networks/expense-tracker/internal/storage/user"
	"github.com/carson-networks/expense-tracker/internal/tracker"
)

// Deps carries the process-wide collaborators an action needs beyond the
// transaction-scoped writer. The KeyedMutex is shared so concurrent actions
// touching the same budget serialize; InvalidateAnalytics drops the user's
// memoized reports after a write.
type Deps struct {
	Users               user.IUserTable
	Notifier            tracker.Notifier
	Locks               *tracker.KeyedMutex
	InvalidateAnalytics func(userID uuid.UUID)
}

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer, deps *Deps) error
}

// newTracker builds a Tracker whose reads and writes go through the action's
// transaction, with category names resolved from the user's visible set.
func newTracker(ctx context.Context, writer *storage.Writer, deps *Deps, userID uuid.UUID) (*tracker.Tracker, error) {
	rows, err := writer.Categories.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	resolver := analytics.CategoryNameResolver(func(categoryID uuid.UUID) (string, bool) {
		name, ok := names[categoryID]
		return name, ok
	})

	return tracker.New(writer.Transactions, writer.Budgets, deps.Users, deps.Notifier, resolver, deps.Locks), nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
