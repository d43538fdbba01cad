package analytics

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/expense-tracker/internal/analytics"
)

const dateLayout = "2006-01-02"

// Summary is the API model for the headline rollup.
type Summary struct {
	TotalExpenses    string `json:"totalExpenses" doc:"Decimal sum of all transactions in range"`
	TotalIncome      string `json:"totalIncome" doc:"Decimal income total"`
	Balance          string `json:"balance" doc:"Decimal income minus expenses"`
	TransactionCount int64  `json:"transactionCount" doc:"Number of transactions in range"`
	AverageExpense   string `json:"averageExpense" doc:"Decimal mean, half-up to 2 places"`
	HighestExpense   string `json:"highestExpense" doc:"Largest single amount"`
	LowestExpense    string `json:"lowestExpense" doc:"Smallest single amount"`
}

// CategoryBreakdown is the API model for one category's share.
type CategoryBreakdown struct {
	CategoryID   string `json:"categoryID" doc:"Category UUID"`
	CategoryName string `json:"categoryName" doc:"Display name, Unknown when unresolvable"`
	Amount       string `json:"amount" doc:"Decimal category total"`
	Count        int64  `json:"count" doc:"Transactions in the category"`
	Percentage   string `json:"percentage" doc:"Share of the overall total, half-up to 2 places"`
}

// MonthlyTrend is the API model for one month's totals.
type MonthlyTrend struct {
	Month  string `json:"month" doc:"YYYY-MM"`
	Amount string `json:"amount" doc:"Decimal month total"`
	Count  int64  `json:"count" doc:"Transactions in the month"`
}

// TopExpense is the API model for one top-N entry.
type TopExpense struct {
	ID           string `json:"id" doc:"Transaction UUID"`
	Description  string `json:"description" doc:"Description"`
	Amount       string `json:"amount" doc:"Decimal amount"`
	CategoryName string `json:"categoryName" doc:"Display name"`
	Date         string `json:"date" doc:"YYYY-MM-DD"`
}

func summaryFromEngine(s analytics.Summary) Summary {
	return Summary{
		TotalExpenses:    s.TotalExpenses.String(),
		TotalIncome:      s.TotalIncome.String(),
		Balance:          s.Balance.String(),
		TransactionCount: s.TransactionCount,
		AverageExpense:   s.AverageExpense.String(),
		HighestExpense:   s.HighestExpense.String(),
		LowestExpense:    s.LowestExpense.String(),
	}
}

// parseDateRange resolves the optional startDate/endDate query parameters,
// defaulting to the current calendar month to date.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var err error
	if startDate != "" {
		start, err = time.Parse(dateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid startDate", err)
		}
	}
	if endDate != "" {
		end, err = time.Parse(dateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, huma.NewError(http.StatusBadRequest, "invalid endDate", err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, huma.NewError(http.StatusBadRequest, "endDate must not be before startDate")
	}
	return start, end, nil
}
