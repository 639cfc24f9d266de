package finance

import (
	"sort"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/shopspring/decimal"
)

// Grouping selects the row subject of a utilization matrix
type Grouping string

const (
	GroupByPerson     Grouping = "person"
	GroupByDepartment Grouping = "department"
)

// UtilizationOptions narrows a utilization matrix
type UtilizationOptions struct {
	// People restricts rows to these person ids. Empty means everyone.
	People  []string
	Range   Range
	GroupBy Grouping
}

// MatrixMonth is one column of the matrix
type MatrixMonth struct {
	YM    string `json:"ym"`
	Label string `json:"label"`
}

// UtilizationCell is the allocation picture of one row subject in one month.
// Hours and Capacity only count people active that month; hours allocated to
// inactive people are reported separately in InactiveHours.
type UtilizationCell struct {
	YM                string          `json:"ym"`
	Hours             decimal.Decimal `json:"hours"`
	Capacity          decimal.Decimal `json:"capacity"`
	Util              decimal.Decimal `json:"util"`
	InactiveHours     decimal.Decimal `json:"inactive_hours"`
	Inactive          bool            `json:"inactive"`
	InactiveAllocated bool            `json:"inactive_allocated"`
}

// ProjectUtilization is a row subject's breakdown for a single project.
// TotalHours includes hours allocated while inactive.
type ProjectUtilization struct {
	ProjectID   string            `json:"project_id"`
	ProjectName string            `json:"project_name"`
	TotalHours  decimal.Decimal   `json:"total_hours"`
	Cells       []UtilizationCell `json:"cells"`
}

// UtilizationRow is a person or a department with its per-project expansion
type UtilizationRow struct {
	Key        string               `json:"key"`
	Label      string               `json:"label"`
	Department models.Department    `json:"department"`
	MemberIDs  []string             `json:"member_ids"`
	TotalHours decimal.Decimal      `json:"total_hours"`
	Cells      []UtilizationCell    `json:"cells"`
	Projects   []ProjectUtilization `json:"projects"`
}

// UtilizationMatrix is the person or department by calendar-month grid
type UtilizationMatrix struct {
	Months []MatrixMonth    `json:"months"`
	Rows   []UtilizationRow `json:"rows"`
}

// IsPersonInactiveInMonth reports whether the person is deactivated as of the
// first day of ym. A deactivated person without a valid inactive date is
// inactive in every month.
func IsPersonInactiveInMonth(p *models.RosterPerson, ym string) bool {
	if p == nil || p.Active() {
		return false
	}
	since, ok := NormalizeDate(p.InactiveDate)
	if !ok {
		return true
	}
	return ym+"-01" >= since
}

// OverByPct is how far past full capacity util is, in percent, floored at 0
func OverByPct(util decimal.Decimal) decimal.Decimal {
	return nonNegative(util.Sub(one).Mul(hundred))
}

type subject struct {
	key     string
	label   string
	dept    models.Department
	members []*models.RosterPerson
}

// accumulator holds per-column hours for one subject, split by project
type accumulator struct {
	active   [][]decimal.Decimal // [project][column]
	inactive [][]decimal.Decimal
}

func newAccumulator(projects, cols int) *accumulator {
	a := &accumulator{
		active:   make([][]decimal.Decimal, projects),
		inactive: make([][]decimal.Decimal, projects),
	}
	for i := 0; i < projects; i++ {
		a.active[i] = make([]decimal.Decimal, cols)
		a.inactive[i] = make([]decimal.Decimal, cols)
	}
	return a
}

// BuildUtilizationMatrix sums allocated hours per row subject and calendar
// month across every project, and divides by the subject's capacity.
// Utilization is not capped; values above 1 mean overallocation.
func BuildUtilizationMatrix(projects []models.Project, roster []models.RosterPerson, opts UtilizationOptions) UtilizationMatrix {
	people := indexPeople(roster)

	keys := make([][]string, len(projects))
	colSet := make(map[string]struct{})
	for pi := range projects {
		keys[pi] = projectMonthKeys(projects[pi].StartMonth, len(projects[pi].Months), opts.Range)
		for _, ym := range keys[pi] {
			if ym != "" {
				colSet[ym] = struct{}{}
			}
		}
	}
	cols := make([]string, 0, len(colSet))
	for ym := range colSet {
		cols = append(cols, ym)
	}
	sort.Strings(cols)
	colIndex := make(map[string]int, len(cols))
	months := make([]MatrixMonth, len(cols))
	for i, ym := range cols {
		colIndex[ym] = i
		months[i] = MatrixMonth{YM: ym, Label: MonthLabel(ym)}
	}

	subjects := rowSubjects(roster, opts)
	subjectOf := make(map[string]int)
	for si, s := range subjects {
		for _, p := range s.members {
			subjectOf[p.ID] = si
		}
	}

	accs := make([]*accumulator, len(subjects))
	for si := range subjects {
		accs[si] = newAccumulator(len(projects), len(cols))
	}

	for pi := range projects {
		members := projectMembers(&projects[pi], people)
		for mi, ym := range keys[pi] {
			if ym == "" {
				continue
			}
			c := colIndex[ym]
			for id, pct := range projects[pi].Months[mi].PersonAllocations {
				p, ok := members[id]
				if !ok {
					continue
				}
				si, ok := subjectOf[id]
				if !ok {
					continue
				}
				hours := allocatedHours(p, pct)
				acc := accs[si]
				if IsPersonInactiveInMonth(p, ym) {
					acc.inactive[pi][c] = acc.inactive[pi][c].Add(hours)
				} else {
					acc.active[pi][c] = acc.active[pi][c].Add(hours)
				}
			}
		}
	}

	rows := make([]UtilizationRow, 0, len(subjects))
	for si, s := range subjects {
		row := buildRow(s, accs[si], projects, cols)
		if opts.GroupBy != GroupByDepartment && len(cols) > 0 && dormant(row) {
			continue
		}
		rows = append(rows, row)
	}

	return UtilizationMatrix{Months: months, Rows: rows}
}

func rowSubjects(roster []models.RosterPerson, opts UtilizationOptions) []subject {
	var wanted map[string]bool
	if len(opts.People) > 0 {
		wanted = make(map[string]bool, len(opts.People))
		for _, id := range opts.People {
			wanted[id] = true
		}
	}

	seen := make(map[string]bool, len(roster))
	var picked []*models.RosterPerson
	for i := range roster {
		p := &roster[i]
		if seen[p.ID] || (wanted != nil && !wanted[p.ID]) {
			continue
		}
		seen[p.ID] = true
		picked = append(picked, p)
	}

	if opts.GroupBy != GroupByDepartment {
		subjects := make([]subject, 0, len(picked))
		for _, p := range picked {
			subjects = append(subjects, subject{
				key:     p.ID,
				label:   p.Name,
				dept:    departmentOf(p),
				members: []*models.RosterPerson{p},
			})
		}
		return subjects
	}

	byDept := make(map[models.Department][]*models.RosterPerson)
	for _, p := range picked {
		d := departmentOf(p)
		byDept[d] = append(byDept[d], p)
	}
	var subjects []subject
	for _, d := range models.Departments {
		if len(byDept[d]) == 0 {
			continue
		}
		subjects = append(subjects, subject{
			key:     string(d),
			label:   string(d),
			dept:    d,
			members: byDept[d],
		})
	}
	return subjects
}

func departmentOf(p *models.RosterPerson) models.Department {
	if p.Department.Valid() {
		return p.Department
	}
	return models.DeptOther
}

func buildRow(s subject, acc *accumulator, projects []models.Project, cols []string) UtilizationRow {
	row := UtilizationRow{
		Key:        s.key,
		Label:      s.label,
		Department: s.dept,
		Cells:      make([]UtilizationCell, len(cols)),
		Projects:   []ProjectUtilization{},
	}
	for _, p := range s.members {
		row.MemberIDs = append(row.MemberIDs, p.ID)
	}

	// capacity and inactivity depend only on the subject and the month
	capacity := make([]decimal.Decimal, len(cols))
	allInactive := make([]bool, len(cols))
	for c, ym := range cols {
		allInactive[c] = len(s.members) > 0
		for _, p := range s.members {
			if IsPersonInactiveInMonth(p, ym) {
				continue
			}
			allInactive[c] = false
			capacity[c] = capacity[c].Add(baseHours(p))
		}
	}

	cell := func(c int, active, inactive decimal.Decimal) UtilizationCell {
		uc := UtilizationCell{
			YM:                cols[c],
			Hours:             active,
			Capacity:          capacity[c],
			Util:              decimal.Zero,
			InactiveHours:     inactive,
			Inactive:          allInactive[c],
			InactiveAllocated: inactive.IsPositive(),
		}
		if capacity[c].IsPositive() {
			uc.Util = active.Div(capacity[c])
		}
		return uc
	}

	for c := range cols {
		var active, inactive decimal.Decimal
		for pi := range projects {
			active = active.Add(acc.active[pi][c])
			inactive = inactive.Add(acc.inactive[pi][c])
		}
		row.Cells[c] = cell(c, active, inactive)
		row.TotalHours = row.TotalHours.Add(active)
	}

	for pi := range projects {
		var total decimal.Decimal
		cells := make([]UtilizationCell, len(cols))
		for c := range cols {
			cells[c] = cell(c, acc.active[pi][c], acc.inactive[pi][c])
			total = total.Add(acc.active[pi][c]).Add(acc.inactive[pi][c])
		}
		if !total.IsPositive() {
			continue
		}
		row.Projects = append(row.Projects, ProjectUtilization{
			ProjectID:   projects[pi].ID,
			ProjectName: projects[pi].Name,
			TotalHours:  total,
			Cells:       cells,
		})
	}
	return row
}

// dormant reports a row that is inactive in every column with nothing allocated
func dormant(row UtilizationRow) bool {
	for _, c := range row.Cells {
		if !c.Inactive || c.InactiveAllocated {
			return false
		}
	}
	return true
}
