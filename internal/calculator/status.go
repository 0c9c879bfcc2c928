package calculator

import (
	"math"
	"time"

	"github.com/segyhp/lendbook/internal/domain"
)

const day = 24 * time.Hour

// StatusResult is the date-derived state of a loan.
type StatusResult struct {
	Status        domain.TermStatus
	DaysElapsed   int
	TotalDays     int
	DaysRemaining *int
	IsOverdue     bool
}

// DeriveStatus works out where a loan is in its term as of now.
//
// A loan with no end date is Active. Otherwise the remaining days are rounded
// up, a negative count is Overdue and exactly zero is reported as Completed,
// even though a loan due today is not necessarily paid.
func DeriveStatus(startDate, endDate *time.Time, now time.Time) StatusResult {
	result := StatusResult{Status: domain.TermStatusActive}

	if startDate != nil {
		result.DaysElapsed = max(0, ceilDays(now.Sub(*startDate)))
	}

	if startDate != nil && endDate != nil {
		result.TotalDays = max(0, ceilDays(endDate.Sub(*startDate)))
	}

	if endDate == nil {
		return result
	}

	remaining := ceilDays(endDate.Sub(now))
	result.DaysRemaining = &remaining
	result.IsOverdue = remaining < 0

	switch {
	case remaining < 0:
		result.Status = domain.TermStatusOverdue
	case remaining == 0:
		result.Status = domain.TermStatusCompleted
	}

	return result
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}
