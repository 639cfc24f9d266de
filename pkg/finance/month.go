package finance

import (
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/shopspring/decimal"
)

// MonthStats is the cost picture of one project month
type MonthStats struct {
	Hours    decimal.Decimal `json:"hours"`
	Labor    decimal.Decimal `json:"labor"`
	Overhead decimal.Decimal `json:"overhead"`
	Expenses decimal.Decimal `json:"expenses"`
	AllIn    decimal.Decimal `json:"all_in"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// Add sums two month figures. AllIn is recomputed from the summed parts.
func (s MonthStats) Add(o MonthStats) MonthStats {
	sum := MonthStats{
		Hours:    s.Hours.Add(o.Hours),
		Labor:    s.Labor.Add(o.Labor),
		Overhead: s.Overhead.Add(o.Overhead),
		Expenses: s.Expenses.Add(o.Expenses),
		Revenue:  s.Revenue.Add(o.Revenue),
	}
	sum.AllIn = sum.Labor.Add(sum.Overhead).Add(sum.Expenses)
	return sum
}

// IsZero reports whether every figure is zero
func (s MonthStats) IsZero() bool {
	return s.Hours.IsZero() && s.Labor.IsZero() && s.Overhead.IsZero() &&
		s.Expenses.IsZero() && s.Revenue.IsZero()
}

// ComputeMonthStats derives hours and costs for one month. Allocations for
// people missing from the roster are skipped.
func ComputeMonthStats(people []models.RosterPerson, month models.MonthRow, overheadPerHour models.Num) MonthStats {
	return monthStats(indexPeople(people), &month, Dec(overheadPerHour))
}

func monthStats(people map[string]*models.RosterPerson, month *models.MonthRow, overheadPerHour decimal.Decimal) MonthStats {
	var st MonthStats
	for id, pct := range month.PersonAllocations {
		p, ok := people[id]
		if !ok {
			continue
		}
		hours := allocatedHours(p, pct)
		st.Hours = st.Hours.Add(hours)
		st.Labor = st.Labor.Add(EffectiveHourlyRate(p).Mul(hours))
	}
	st.Overhead = overheadPerHour.Mul(st.Hours)
	st.Expenses = Dec(month.Expenses)
	st.Revenue = Dec(month.Revenue)
	st.AllIn = st.Labor.Add(st.Overhead).Add(st.Expenses)
	return st
}
