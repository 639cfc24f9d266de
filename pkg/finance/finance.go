// Package finance derives hours, costs, margins and utilization from a roster
// snapshot and per-project monthly allocation plans. Every function is pure and
// recomputes from scratch; malformed numbers are coerced rather than rejected.
package finance

import (
	"math"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/shopspring/decimal"
)

func init() {
	// Figures are emitted as JSON numbers rather than quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
)

// Dec converts a numeric input to a decimal, treating NaN and infinities as 0
func Dec(n models.Num) decimal.Decimal {
	return DecOr(n, decimal.Zero)
}

// DecOr converts a numeric input to a decimal, returning fallback when the
// value is NaN or infinite
func DecOr(n models.Num, fallback decimal.Decimal) decimal.Decimal {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return decimal.NewFromFloat(f)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// indexPeople maps person id to person. The first occurrence of a duplicated id wins.
func indexPeople(people []models.RosterPerson) map[string]*models.RosterPerson {
	idx := make(map[string]*models.RosterPerson, len(people))
	for i := range people {
		if _, dup := idx[people[i].ID]; dup {
			continue
		}
		idx[people[i].ID] = &people[i]
	}
	return idx
}

// projectMembers restricts people to the project's member set
func projectMembers(project *models.Project, people map[string]*models.RosterPerson) map[string]*models.RosterPerson {
	members := make(map[string]*models.RosterPerson, len(project.MemberIDs))
	for _, id := range project.MemberIDs {
		if p, ok := people[id]; ok {
			members[id] = p
		}
	}
	return members
}
