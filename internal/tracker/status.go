package tracker

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/expense-tracker/internal/storage/budget"
)

// Status is the derived position of a budget against its limit. It is never
// stored; callers derive it from the current spend on demand.
type Status string

const (
	StatusOnTrack  Status = "ON_TRACK"
	StatusWarning  Status = "WARNING"
	StatusExceeded Status = "EXCEEDED"
)

// PercentageUsed is the spend ratio rounded half-up to a whole percent, or 0
// when the amount is not positive. This is the value shown to users; the
// alert trigger in MaybeAlert uses the unrounded ratio instead.
func PercentageUsed(b *budget.Budget) int {
	if !b.Amount.IsPositive() {
		return 0
	}
	rounded := b.SpentAmount.Mul(decimal.NewFromInt(100)).DivRound(b.Amount, 0)
	return int(rounded.IntPart())
}

// ComputeStatus derives the budget status from the rounded percentage.
func ComputeStatus(b *budget.Budget) Status {
	percentageUsed := PercentageUsed(b)
	switch {
	case percentageUsed >= 100:
		return StatusExceeded
	case percentageUsed >= b.AlertThreshold:
		return StatusWarning
	default:
		return StatusOnTrack
	}
}
