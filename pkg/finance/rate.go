package finance

import (
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/shopspring/decimal"
)

// EffectiveHourlyRate normalizes a person's compensation to a cost per hour.
// Salaried people divide their monthly pay by their base monthly hours (at least 1);
// everyone else uses their hourly rate. The result is never negative.
func EffectiveHourlyRate(p *models.RosterPerson) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if !p.PersonType.IsSalaried() {
		return nonNegative(Dec(p.HourlyRate))
	}
	return nonNegative(monthlyPay(p)).Div(decimal.Max(Dec(p.BaseMonthlyHours), one))
}

func monthlyPay(p *models.RosterPerson) decimal.Decimal {
	if p.CompMode == models.CompAnnual {
		return Dec(p.AnnualSalary).Div(monthsPerYear)
	}
	return Dec(p.MonthlySalary)
}

// baseHours is the person's monthly capacity, floored at 0
func baseHours(p *models.RosterPerson) decimal.Decimal {
	return nonNegative(Dec(p.BaseMonthlyHours))
}

// allocatedHours converts an allocation percentage into hours. Negative
// percentages count as 0; values above 100 are kept so overallocation shows up.
func allocatedHours(p *models.RosterPerson, pct models.Num) decimal.Decimal {
	return baseHours(p).Mul(nonNegative(Dec(pct))).Div(hundred)
}
