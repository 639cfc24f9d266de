package finance

import (
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/shopspring/decimal"
)

// Totals is the lifetime financial summary of a project or portfolio
type Totals struct {
	TotalHours   decimal.Decimal `json:"total_hours"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	OverheadCost decimal.Decimal `json:"overhead_cost"`
	Expenses     decimal.Decimal `json:"expenses"`
	AllIn        decimal.Decimal `json:"all_in"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
	Margin       decimal.Decimal `json:"margin"`
}

// ProjectMonth is one month of a project's breakdown, placed on the calendar
type ProjectMonth struct {
	Index int    `json:"index"`
	YM    string `json:"ym"`
	Label string `json:"label"`
	MonthStats
}

// ComputeProjectTotals folds every month of the project. Only people in the
// project's member set are costed. Margin is 0 when there is no revenue.
func ComputeProjectTotals(project models.Project, roster []models.RosterPerson) Totals {
	members := projectMembers(&project, indexPeople(roster))
	overhead := Dec(project.OverheadPerHour)

	var sum MonthStats
	for i := range project.Months {
		sum = sum.Add(monthStats(members, &project.Months[i], overhead))
	}
	return totalsFrom(sum)
}

// ComputeMonthlyBreakdown returns the stats of every project month in order.
// Months get an empty ym when the project's start month is malformed.
func ComputeMonthlyBreakdown(project models.Project, roster []models.RosterPerson) []ProjectMonth {
	members := projectMembers(&project, indexPeople(roster))
	overhead := Dec(project.OverheadPerHour)

	out := make([]ProjectMonth, 0, len(project.Months))
	for i := range project.Months {
		pm := ProjectMonth{
			Index:      i,
			MonthStats: monthStats(members, &project.Months[i], overhead),
		}
		if ym, ok := AddMonths(project.StartMonth, i); ok {
			pm.YM = ym
			pm.Label = MonthLabel(ym)
		}
		out = append(out, pm)
	}
	return out
}

// SummarizeBuckets totals a calendar rollup into a single portfolio figure
func SummarizeBuckets(buckets []CalendarBucket) Totals {
	var sum MonthStats
	for _, b := range buckets {
		sum = sum.Add(b.stats())
	}
	return totalsFrom(sum)
}

// CombineTotals adds several totals together, recomputing profit and margin
// from the summed figures
func CombineTotals(ts ...Totals) Totals {
	var sum MonthStats
	for _, t := range ts {
		sum = sum.Add(MonthStats{
			Hours:    t.TotalHours,
			Labor:    t.LaborCost,
			Overhead: t.OverheadCost,
			Expenses: t.Expenses,
			Revenue:  t.Revenue,
		})
	}
	return totalsFrom(sum)
}

func totalsFrom(s MonthStats) Totals {
	t := Totals{
		TotalHours:   s.Hours,
		LaborCost:    s.Labor,
		OverheadCost: s.Overhead,
		Expenses:     s.Expenses,
		AllIn:        s.AllIn,
		Revenue:      s.Revenue,
		Profit:       s.Revenue.Sub(s.AllIn),
		Margin:       decimal.Zero,
	}
	if s.Revenue.IsPositive() {
		t.Margin = t.Profit.Div(s.Revenue)
	}
	return t
}
