package finance

import (
	"sort"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/shopspring/decimal"
)

// CalendarBucket holds the summed figures of every project for one calendar month
type CalendarBucket struct {
	YM       string          `json:"ym"`
	Label    string          `json:"label"`
	Labor    decimal.Decimal `json:"labor"`
	Overhead decimal.Decimal `json:"overhead"`
	Expenses decimal.Decimal `json:"expenses"`
	AllIn    decimal.Decimal `json:"all_in"`
	Revenue  decimal.Decimal `json:"revenue"`
	Hours    decimal.Decimal `json:"hours"`
}

func (b *CalendarBucket) stats() MonthStats {
	return MonthStats{
		Hours:    b.Hours,
		Labor:    b.Labor,
		Overhead: b.Overhead,
		Expenses: b.Expenses,
		AllIn:    b.AllIn,
		Revenue:  b.Revenue,
	}
}

func (b *CalendarBucket) add(st MonthStats) {
	b.Labor = b.Labor.Add(st.Labor)
	b.Overhead = b.Overhead.Add(st.Overhead)
	b.Expenses = b.Expenses.Add(st.Expenses)
	b.Revenue = b.Revenue.Add(st.Revenue)
	b.Hours = b.Hours.Add(st.Hours)
	b.AllIn = b.Labor.Add(b.Overhead).Add(b.Expenses)
}

func emptyBucket(ym string) CalendarBucket {
	return CalendarBucket{YM: ym, Label: MonthLabel(ym)}
}

// BuildCalendarRollup places every project month on the absolute calendar and
// sums across projects. Only months actually touched by a project inside r get
// a bucket; the result is sorted by month.
func BuildCalendarRollup(projects []models.Project, roster []models.RosterPerson, r Range) []CalendarBucket {
	people := indexPeople(roster)
	byYM := make(map[string]*CalendarBucket)

	for pi := range projects {
		project := &projects[pi]
		members := projectMembers(project, people)
		overhead := Dec(project.OverheadPerHour)
		keys := projectMonthKeys(project.StartMonth, len(project.Months), r)

		for i, ym := range keys {
			if ym == "" {
				continue
			}
			b, ok := byYM[ym]
			if !ok {
				nb := emptyBucket(ym)
				b = &nb
				byYM[ym] = b
			}
			b.add(monthStats(members, &project.Months[i], overhead))
		}
	}

	out := make([]CalendarBucket, 0, len(byYM))
	for _, b := range byYM {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YM < out[j].YM })
	return out
}

// PadCalendar fills gaps between the first and last bucket with empty months
// and appends trailing empty months after the last one.
func PadCalendar(buckets []CalendarBucket, trailing int) []CalendarBucket {
	if len(buckets) == 0 {
		return buckets
	}
	byYM := make(map[string]CalendarBucket, len(buckets))
	for _, b := range buckets {
		byYM[b.YM] = b
	}
	last, _ := AddMonths(buckets[len(buckets)-1].YM, trailing)

	var out []CalendarBucket
	for ym := buckets[0].YM; ym <= last; ym, _ = AddMonths(ym, 1) {
		if b, ok := byYM[ym]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, emptyBucket(ym))
	}
	return out
}

// TrimTrailingEmpty drops all-zero buckets from the end of the sequence
func TrimTrailingEmpty(buckets []CalendarBucket) []CalendarBucket {
	n := len(buckets)
	for n > 0 {
		b := buckets[n-1]
		if !b.stats().IsZero() {
			break
		}
		n--
	}
	return buckets[:n]
}
