package snapshot

import (
	"fmt"
	"math"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
)

// Severity indicates how critical an issue is
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
	Value    any      `json:"value,omitempty"`
}

// Report collects the issues found in a snapshot. Errors mark data the
// engine would silently drop; warnings mark data it would coerce or ignore.
type Report struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	People   int     `json:"people"`
	Projects int     `json:"projects"`
}

func newReport() *Report {
	return &Report{Valid: true, Errors: []Issue{}, Warnings: []Issue{}}
}

func (r *Report) addError(path string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Severity: SeverityError, Path: path, Value: issueValue(value), Message: fmt.Sprintf(format, args...)})
	r.Valid = false
}

func (r *Report) addWarning(path string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Severity: SeverityWarning, Path: path, Value: issueValue(value), Message: fmt.Sprintf(format, args...)})
}

// issueValue keeps reports encodable: JSON has no NaN or infinity
func issueValue(v any) any {
	if n, ok := v.(models.Num); ok && !finite(n) {
		return fmt.Sprint(float64(n))
	}
	return v
}

func finite(n models.Num) bool {
	return !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0)
}

// Validate checks a snapshot for duplicate ids, malformed months, unknown
// enum values and allocations that point at nobody
func Validate(s *models.Snapshot) *Report {
	r := newReport()
	if s == nil {
		r.addError("", nil, "snapshot is empty")
		return r
	}
	r.People = len(s.People)
	r.Projects = len(s.Projects)

	roster := validatePeople(s.People, r)
	validateProjects(s.Projects, roster, r)
	return r
}

func validatePeople(people []models.RosterPerson, r *Report) map[string]bool {
	roster := make(map[string]bool, len(people))
	for i, p := range people {
		path := fmt.Sprintf("people[%d]", i)
		switch {
		case p.ID == "":
			r.addError(path+".id", "", "person has an empty id")
		case roster[p.ID]:
			r.addError(path+".id", p.ID, "duplicate person id %q", p.ID)
		}
		roster[p.ID] = true

		if !p.PersonType.Valid() {
			r.addWarning(path+".person_type", p.PersonType, "unknown person type %q is paid hourly", p.PersonType)
		}
		if !p.Department.Valid() {
			r.addWarning(path+".department", p.Department, "unknown department %q is grouped under %s", p.Department, models.DeptOther)
		}
		if p.CompMode != "" && !p.CompMode.Valid() {
			r.addWarning(path+".comp_mode", p.CompMode, "unknown comp mode %q uses the monthly salary", p.CompMode)
		}
		if p.BaseMonthlyHours <= 0 || !finite(p.BaseMonthlyHours) {
			r.addWarning(path+".base_monthly_hours", p.BaseMonthlyHours, "person has no monthly capacity")
		}
		if p.InactiveDate != "" {
			if _, ok := finance.NormalizeDate(p.InactiveDate); !ok {
				r.addWarning(path+".inactive_date", p.InactiveDate, "inactive date is not YYYY-MM-DD; an inactive person counts as inactive in every month")
			}
		}
		for field, n := range map[string]models.Num{
			"monthly_salary": p.MonthlySalary,
			"annual_salary":  p.AnnualSalary,
			"hourly_rate":    p.HourlyRate,
		} {
			if n < 0 || !finite(n) {
				r.addWarning(path+"."+field, n, "%s is treated as 0", field)
			}
		}
	}
	return roster
}

func validateProjects(projects []models.Project, roster map[string]bool, r *Report) {
	seen := make(map[string]bool, len(projects))
	for i, p := range projects {
		path := fmt.Sprintf("projects[%d]", i)
		switch {
		case p.ID == "":
			r.addError(path+".id", "", "project has an empty id")
		case seen[p.ID]:
			r.addError(path+".id", p.ID, "duplicate project id %q", p.ID)
		}
		seen[p.ID] = true

		if _, ok := finance.ParseYM(p.StartMonth); !ok {
			r.addError(path+".start_month", p.StartMonth, "start month is not YYYY-MM; the project contributes nothing")
		}
		if !p.ProjectStatus.Valid() {
			r.addWarning(path+".project_status", p.ProjectStatus, "unknown project status %q", p.ProjectStatus)
		}
		if p.TargetMarginPct < 0 || p.TargetMarginPct > 1 || !finite(p.TargetMarginPct) {
			r.addWarning(path+".target_margin_pct", p.TargetMarginPct, "target margin is a fraction between 0 and 1")
		}

		for mi, id := range p.MemberIDs {
			if !roster[id] {
				r.addWarning(fmt.Sprintf("%s.member_ids[%d]", path, mi), id, "member %q is not on the roster", id)
			}
		}

		for mi, m := range p.Months {
			mpath := fmt.Sprintf("%s.months[%d]", path, mi)
			for id, pct := range m.PersonAllocations {
				apath := mpath + ".person_allocations." + id
				switch {
				case !roster[id]:
					r.addWarning(apath, pct, "allocation for %q who is not on the roster is ignored", id)
				case !p.HasMember(id):
					r.addWarning(apath, pct, "allocation for %q who is not a project member is ignored", id)
				}
				if pct < 0 || pct > 100 || !finite(pct) {
					r.addWarning(apath, pct, "allocation %v%% is outside 0..100", float64(pct))
				}
			}
		}
	}
}
