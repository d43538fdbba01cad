package analytics

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Summary is the headline rollup over a transaction set.
type Summary struct {
	TotalExpenses    decimal.Decimal
	TotalIncome      decimal.Decimal
	Balance          decimal.Decimal
	TransactionCount int64
	AverageExpense   decimal.Decimal
	HighestExpense   decimal.Decimal
	LowestExpense    decimal.Decimal
}

// CategoryBreakdown is one category's share of the total.
type CategoryBreakdown struct {
	CategoryID   uuid.UUID
	CategoryName string
	Amount       decimal.Decimal
	Count        int64
	Percentage   decimal.Decimal
}

// MonthlyTrend is one month's amount sum and count, keyed YYYY-MM.
type MonthlyTrend struct {
	Month  string
	Amount decimal.Decimal
	Count  int64
}

// TopExpense is one entry of a top-N ranking.
type TopExpense struct {
	ID           uuid.UUID
	Description  string
	Amount       decimal.Decimal
	CategoryName string
	Date         string
}

// CategoryAnalytics is the single-category rollup.
type CategoryAnalytics struct {
	TotalExpenses    decimal.Decimal
	TransactionCount int64
	AverageExpense   decimal.Decimal
	HighestExpense   decimal.Decimal
	LowestExpense    decimal.Decimal
}

// Report bundles the rollups served by the analytics endpoint.
type Report struct {
	Summary                Summary
	CategoryBreakdown      []CategoryBreakdown
	MonthlyTrends          []MonthlyTrend
	PaymentMethodBreakdown map[string]decimal.Decimal
	TopExpenses            []TopExpense
}
