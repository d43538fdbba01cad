package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
)

// UnknownCategoryName is substituted whenever a category id cannot be
// resolved to a display name.
const UnknownCategoryName = "Unknown"

// CategoryNameResolver looks up a category display name. The second return
// is false when the category does not exist.
type CategoryNameResolver func(categoryID uuid.UUID) (string, bool)

// Engine computes rollup analytics over a transaction set. It holds no
// mutable state and is safe to share across concurrent requests. All
// monetary arithmetic is fixed-point decimal with half-up rounding; the
// caller is expected to have filtered the input to the relevant user and
// date range already.
type Engine struct {
	resolveCategory CategoryNameResolver
}

func NewEngine(resolver CategoryNameResolver) *Engine {
	return &Engine{resolveCategory: resolver}
}

func (e *Engine) categoryName(id uuid.UUID) string {
	if e.resolveCategory == nil {
		return UnknownCategoryName
	}
	name, ok := e.resolveCategory(id)
	if !ok {
		return UnknownCategoryName
	}
	return name
}

// Summary totals the transaction set. Empty input yields an all-zero summary.
// TotalIncome and Balance are fixed at zero: income transactions are not
// distinguished at this layer.
func (e *Engine) Summary(txns []*transaction.Transaction) Summary {
	summary := Summary{
		TotalExpenses:  decimal.Zero,
		TotalIncome:    decimal.Zero,
		Balance:        decimal.Zero,
		AverageExpense: decimal.Zero,
		HighestExpense: decimal.Zero,
		LowestExpense:  decimal.Zero,
	}
	if len(txns) == 0 {
		return summary
	}

	total := decimal.Zero
	highest := txns[0].Amount
	lowest := txns[0].Amount
	for _, tx := range txns {
		total = total.Add(tx.Amount)
		if tx.Amount.GreaterThan(highest) {
			highest = tx.Amount
		}
		if tx.Amount.LessThan(lowest) {
			lowest = tx.Amount
		}
	}

	summary.TotalExpenses = total
	summary.TransactionCount = int64(len(txns))
	summary.AverageExpense = total.DivRound(decimal.NewFromInt(int64(len(txns))), 2)
	summary.HighestExpense = highest
	summary.LowestExpense = lowest
	return summary
}

// CategoryBreakdown groups the set by category id and returns per-category
// totals ordered by amount descending. The order among equal amounts is
// unspecified. Percentages are zero when the overall total is zero.
func (e *Engine) CategoryBreakdown(txns []*transaction.Transaction) []CategoryBreakdown {
	type group struct {
		amount decimal.Decimal
		count  int64
	}
	groups := make(map[uuid.UUID]*group)
	total := decimal.Zero
	for _, tx := range txns {
		g, ok := groups[tx.CategoryID]
		if !ok {
			g = &group{amount: decimal.Zero}
			groups[tx.CategoryID] = g
		}
		g.amount = g.amount.Add(tx.Amount)
		g.count++
		total = total.Add(tx.Amount)
	}

	breakdown := make([]CategoryBreakdown, 0, len(groups))
	for categoryID, g := range groups {
		percentage := decimal.Zero
		if total.IsPositive() {
			percentage = g.amount.Mul(decimal.NewFromInt(100)).DivRound(total, 2)
		}
		breakdown = append(breakdown, CategoryBreakdown{
			CategoryID:   categoryID,
			CategoryName: e.categoryName(categoryID),
			Amount:       g.amount,
			Count:        g.count,
			Percentage:   percentage,
		})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})
	return breakdown
}

// MonthlyTrend groups the set by YYYY-MM month key, ascending. Lexicographic
// order of the key coincides with chronological order.
func (e *Engine) MonthlyTrend(txns []*transaction.Transaction) []MonthlyTrend {
	type group struct {
		amount decimal.Decimal
		count  int64
	}
	groups := make(map[string]*group)
	for _, tx := range txns {
		key := tx.TransactionDate.Format("2006-01")
		g, ok := groups[key]
		if !ok {
			g = &group{amount: decimal.Zero}
			groups[key] = g
		}
		g.amount = g.amount.Add(tx.Amount)
		g.count++
	}

	trends := make([]MonthlyTrend, 0, len(groups))
	for month, g := range groups {
		trends = append(trends, MonthlyTrend{Month: month, Amount: g.amount, Count: g.count})
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Month < trends[j].Month
	})
	return trends
}

// PaymentMethodBreakdown maps each payment method tag to its amount sum.
func (e *Engine) PaymentMethodBreakdown(txns []*transaction.Transaction) map[string]decimal.Decimal {
	breakdown := make(map[string]decimal.Decimal)
	for _, tx := range txns {
		key := string(tx.PaymentMethod)
		current, ok := breakdown[key]
		if !ok {
			current = decimal.Zero
		}
		breakdown[key] = current.Add(tx.Amount)
	}
	return breakdown
}

// TopExpenses returns the n largest transactions by amount, descending.
// Fewer are returned when the input is smaller than n.
func (e *Engine) TopExpenses(txns []*transaction.Transaction, n int) []TopExpense {
	sorted := make([]*transaction.Transaction, len(txns))
	copy(sorted, txns)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Amount.GreaterThan(sorted[j].Amount)
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	top := make([]TopExpense, 0, n)
	for _, tx := range sorted[:n] {
		top = append(top, TopExpense{
			ID:           tx.ID,
			Description:  tx.Description,
			Amount:       tx.Amount,
			CategoryName: e.categoryName(tx.CategoryID),
			Date:         tx.TransactionDate.Format("2006-01-02"),
		})
	}
	return top
}

// CategoryAnalytics totals a set already filtered to a single category.
// Empty input yields all zeroes.
func (e *Engine) CategoryAnalytics(txns []*transaction.Transaction) CategoryAnalytics {
	analytics := CategoryAnalytics{
		TotalExpenses:  decimal.Zero,
		AverageExpense: decimal.Zero,
		HighestExpense: decimal.Zero,
		LowestExpense:  decimal.Zero,
	}
	if len(txns) == 0 {
		return analytics
	}

	total := decimal.Zero
	highest := txns[0].Amount
	lowest := txns[0].Amount
	for _, tx := range txns {
		total = total.Add(tx.Amount)
		if tx.Amount.GreaterThan(highest) {
			highest = tx.Amount
		}
		if tx.Amount.LessThan(lowest) {
			lowest = tx.Amount
		}
	}

	analytics.TotalExpenses = total
	analytics.TransactionCount = int64(len(txns))
	analytics.AverageExpense = total.DivRound(decimal.NewFromInt(int64(len(txns))), 2)
	analytics.HighestExpense = highest
	analytics.LowestExpense = lowest
	return analytics
}

// MonthlyComparison sums the given year's transactions into one entry per
// calendar month, keyed by upper-case month name. Months with no
// transactions map to zero.
func (e *Engine) MonthlyComparison(txns []*transaction.Transaction, year int) map[string]decimal.Decimal {
	comparison := make(map[string]decimal.Decimal, 12)
	for month := time.January; month <= time.December; month++ {
		comparison[strings.ToUpper(month.String())] = decimal.Zero
	}
	for _, tx := range txns {
		if tx.TransactionDate.Year() != year {
			continue
		}
		key := strings.ToUpper(tx.TransactionDate.Month().String())
		comparison[key] = comparison[key].Add(tx.Amount)
	}
	return comparison
}
