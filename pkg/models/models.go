package models

// PersonType classifies how a roster member is paid
type PersonType string

const (
	PersonFullTime   PersonType = "Full-Time"
	PersonFTResource PersonType = "FT Resource"
	PersonPartTime   PersonType = "Part-Time"
	PersonPTResource PersonType = "PT Resource"
	PersonContractor PersonType = "Contractor"
)

// PersonTypes lists every accepted person type
var PersonTypes = []PersonType{PersonFullTime, PersonFTResource, PersonPartTime, PersonPTResource, PersonContractor}

// IsSalaried reports whether the person type is paid a salary rather than by the hour
func (t PersonType) IsSalaried() bool {
	return t == PersonFullTime || t == PersonFTResource
}

// Valid reports whether t is a known person type
func (t PersonType) Valid() bool {
	for _, v := range PersonTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Department is the grouping tag used by the utilization views
type Department string

const (
	DeptCSuite      Department = "C-Suite"
	DeptBD          Department = "BD"
	DeptMarketing   Department = "Marketing"
	DeptProduct     Department = "Product"
	DeptEngineering Department = "Engineering"
	DeptOps         Department = "Ops"
	DeptSoftware    Department = "Software"
	DeptAdmin       Department = "Admin"
	DeptOther       Department = "Other"
)

// Departments lists departments in display order
var Departments = []Department{
	DeptCSuite, DeptBD, DeptMarketing, DeptProduct, DeptEngineering,
	DeptOps, DeptSoftware, DeptAdmin, DeptOther,
}

// Valid reports whether d is a known department
func (d Department) Valid() bool {
	for _, v := range Departments {
		if v == d {
			return true
		}
	}
	return false
}

// CompMode selects which salary field is authoritative for salaried people
type CompMode string

const (
	CompMonthly CompMode = "monthly"
	CompAnnual  CompMode = "annual"
)

// Valid reports whether m is a known comp mode
func (m CompMode) Valid() bool {
	return m == CompMonthly || m == CompAnnual
}

// ProjectStatus is the lifecycle tag used to filter projects
type ProjectStatus string

const (
	StatusTest      ProjectStatus = "Test"
	StatusBD        ProjectStatus = "BD"
	StatusActive    ProjectStatus = "Active"
	StatusCompleted ProjectStatus = "Completed"
	StatusCancelled ProjectStatus = "Cancelled"
)

// ProjectStatuses lists every accepted project status
var ProjectStatuses = []ProjectStatus{StatusTest, StatusBD, StatusActive, StatusCompleted, StatusCancelled}

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// RosterPerson is a staffable employee or contractor
type RosterPerson struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	PersonType       PersonType `json:"person_type" yaml:"person_type"`
	Department       Department `json:"department" yaml:"department"`
	CompMode         CompMode   `json:"comp_mode,omitempty" yaml:"comp_mode,omitempty"`
	MonthlySalary    Num        `json:"monthly_salary" yaml:"monthly_salary"`
	AnnualSalary     Num        `json:"annual_salary" yaml:"annual_salary"`
	HourlyRate       Num        `json:"hourly_rate" yaml:"hourly_rate"`
	BaseMonthlyHours Num        `json:"base_monthly_hours" yaml:"base_monthly_hours"`
	IsActive         *bool      `json:"is_active,omitempty" yaml:"is_active,omitempty"`
	InactiveDate     string     `json:"inactive_date,omitempty" yaml:"inactive_date,omitempty"`
}

// Active reports the person's active flag; a missing flag means active.
func (p RosterPerson) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// MonthRow is one planning month of a project
type MonthRow struct {
	ID                string         `json:"id" yaml:"id"`
	Index             int            `json:"index" yaml:"index"`
	Label             string         `json:"label,omitempty" yaml:"label,omitempty"`
	PersonAllocations map[string]Num `json:"person_allocations" yaml:"person_allocations"`
	Expenses          Num            `json:"expenses" yaml:"expenses"`
	Revenue           Num            `json:"revenue" yaml:"revenue"`
}

// Project is a sequence of planning months anchored at StartMonth
type Project struct {
	ID              string        `json:"id" yaml:"id"`
	Name            string        `json:"name" yaml:"name"`
	Description     string        `json:"description" yaml:"description"`
	Status          string        `json:"status" yaml:"status"`
	ProjectStatus   ProjectStatus `json:"project_status" yaml:"project_status"`
	OverheadPerHour Num           `json:"overhead_per_hour" yaml:"overhead_per_hour"`
	TargetMarginPct Num           `json:"target_margin_pct" yaml:"target_margin_pct"`
	StartMonth      string        `json:"start_month" yaml:"start_month"`
	MemberIDs       []string      `json:"member_ids" yaml:"member_ids"`
	Months          []MonthRow    `json:"months" yaml:"months"`
}

// HasMember reports whether id is in the project's member set
func (p Project) HasMember(id string) bool {
	for _, m := range p.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// SchemaVersion is the current version of the snapshot layout
const SchemaVersion = 2

// Snapshot is the full roster and project set handed to the calculation engine
type Snapshot struct {
	SchemaVersion int            `json:"schema_version" yaml:"schema_version"`
	People        []RosterPerson `json:"people" yaml:"people"`
	Projects      []Project      `json:"projects" yaml:"projects"`
}

// TodoKind separates general to-dos from business-development follow-ups
type TodoKind string

const (
	TodoGeneral TodoKind = "todo"
	TodoBD      TodoKind = "bd"
)

// WeeklyTodo is a to-do or BD item tracked against the week it belongs to
type WeeklyTodo struct {
	ID      string   `json:"id"`
	WeekOf  string   `json:"week_of"`
	Title   string   `json:"title"`
	Kind    TodoKind `json:"kind"`
	OwnerID string   `json:"owner_id,omitempty"`
	Notes   string   `json:"notes,omitempty"`
	Done    bool     `json:"done"`
}
