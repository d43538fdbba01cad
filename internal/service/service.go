package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/cache"
	"github.com/carson-networks/expense-tracker/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Budget      *BudgetService
	Category    *CategoryService
	Analytics   *AnalyticsService
}

// NewService creates a new Service with the given storage. The cache memoizes
// computed analytics reports; pass the one built from config so the operator
// can invalidate it on writes.
func NewService(store *storage.Storage, reportCache *cache.LRUCache[*analytics.Report], log *logrus.Logger) *Service {
	categories := NewCategoryService(store)
	return &Service{
		Transaction: NewTransactionService(store),
		Budget:      NewBudgetService(store),
		Category:    categories,
		Analytics:   NewAnalyticsService(store, categories, reportCache, log),
	}
}
