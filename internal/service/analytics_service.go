package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/cache"
	"github.com/carson-networks/expense-tracker/internal/errs"
	"github.com/carson-networks/expense-tracker/internal/logging"
	"github.com/carson-networks/expense-tracker/internal/storage"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
)

const topExpenseCount = 10

// AnalyticsService computes rollup reports over a user's transactions.
// Reports are memoized per user and date range; the operator invalidates the
// user's entries whenever one of their transactions changes.
type AnalyticsService struct {
	storage    *storage.Storage
	categories *CategoryService
	cache      *cache.LRUCache[*analytics.Report]
	log        *logrus.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(store *storage.Storage, categories *CategoryService, reportCache *cache.LRUCache[*analytics.Report], log *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{
		storage:    store,
		categories: categories,
		cache:      reportCache,
		log:        log,
	}
}

func reportCacheKey(userID uuid.UUID, start, end time.Time) string {
	return userID.String() + "|" + start.Format("2006-01-02") + "|" + end.Format("2006-01-02")
}

// Report returns the full rollup for the user's transactions in [start, end].
func (s *AnalyticsService) Report(ctx context.Context, userID uuid.UUID, start, end time.Time) (*analytics.Report, error) {
	key := reportCacheKey(userID, start, end)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	logData := logging.NewLogData(s.log)
	stopTiming := logData.AddTiming("compute")

	rows, err := s.listWindow(ctx, userID, nil, start, end)
	if err != nil {
		return nil, err
	}

	resolver, err := s.categories.NameResolver(ctx, userID)
	if err != nil {
		return nil, err
	}

	engine := analytics.NewEngine(resolver)
	report := &analytics.Report{
		Summary:                engine.Summary(rows),
		CategoryBreakdown:      engine.CategoryBreakdown(rows),
		MonthlyTrends:          engine.MonthlyTrend(rows),
		PaymentMethodBreakdown: engine.PaymentMethodBreakdown(rows),
		TopExpenses:            engine.TopExpenses(rows, topExpenseCount),
	}
	s.cache.Put(key, report)

	stopTiming()
	logData.AddData("transactions", len(rows))
	logData.Log().Info("AnalyticsService.Report.Computed")
	return report, nil
}

// CategoryAnalytics returns the single-category rollup for [start, end].
func (s *AnalyticsService) CategoryAnalytics(ctx context.Context, userID, categoryID uuid.UUID, start, end time.Time) (*analytics.CategoryAnalytics, error) {
	if _, err := s.storage.Categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewNotFoundError("category", categoryID.String())
		}
		return nil, err
	}

	rows, err := s.listWindow(ctx, userID, &categoryID, start, end)
	if err != nil {
		return nil, err
	}

	engine := analytics.NewEngine(nil)
	result := engine.CategoryAnalytics(rows)
	return &result, nil
}

// MonthlyComparison sums the user's transactions for the given calendar year
// into one entry per month.
func (s *AnalyticsService) MonthlyComparison(ctx context.Context, userID uuid.UUID, year int) (map[string]decimal.Decimal, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	rows, err := s.listWindow(ctx, userID, nil, start, end)
	if err != nil {
		return nil, err
	}

	engine := analytics.NewEngine(nil)
	return engine.MonthlyComparison(rows, year), nil
}

// InvalidateUser drops every cached report for the user.
func (s *AnalyticsService) InvalidateUser(userID uuid.UUID) {
	s.cache.InvalidatePrefix(userID.String() + "|")
}

func (s *AnalyticsService) listWindow(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, start, end time.Time) ([]*transaction.Transaction, error) {
	return s.storage.Transactions.List(ctx, &transaction.TransactionFilter{
		UserID:     &userID,
		CategoryID: categoryID,
		StartDate:  &start,
		EndDate:    &end,
	})
}
