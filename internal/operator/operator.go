package operator

import (
	"context"

	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/storage"
)

// Operator is the worker that processes items from the queue. Each item runs
// inside its own database transaction; the budget refresh and alert check
// triggered by a write commit or roll back with it.
type Operator struct {
	storage *storage.Storage
	deps    *actions.Deps
	queue   chan ActionItem
}

func NewOperator(s *storage.Storage, deps *actions.Deps, queue chan ActionItem) *Operator {
	return &Operator{
		storage: s,
		deps:    deps,
		queue:   queue,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	err = item.action.Perform(item.ctx, writer, o.deps)
	if err != nil {
		_ = writer.Rollback()
		item.response <- ActionItemResponse{err: err}
		return
	}

	if err = writer.Commit(); err != nil {
		item.response <- ActionItemResponse{err: err}
		return
	}

	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
