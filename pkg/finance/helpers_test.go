package finance

import (
	"testing"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/shopspring/decimal"
)

func expectDec(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s: expected %d, got %s", name, want, got)
	}
}

func salaried(id string, monthly, base float64) models.RosterPerson {
	return models.RosterPerson{
		ID:               id,
		Name:             id,
		PersonType:       models.PersonFullTime,
		Department:       models.DeptEngineering,
		CompMode:         models.CompMonthly,
		MonthlySalary:    models.Num(monthly),
		BaseMonthlyHours: models.Num(base),
	}
}

func contractor(id string, rate, base float64) models.RosterPerson {
	return models.RosterPerson{
		ID:               id,
		Name:             id,
		PersonType:       models.PersonContractor,
		Department:       models.DeptSoftware,
		HourlyRate:       models.Num(rate),
		BaseMonthlyHours: models.Num(base),
	}
}

func month(alloc map[string]models.Num, expenses, revenue float64) models.MonthRow {
	return models.MonthRow{
		PersonAllocations: alloc,
		Expenses:          models.Num(expenses),
		Revenue:           models.Num(revenue),
	}
}

func project(id, start string, members []string, months ...models.MonthRow) models.Project {
	return models.Project{
		ID:         id,
		Name:       id,
		StartMonth: start,
		MemberIDs:  members,
		Months:     months,
	}
}
