package database

import (
	"math"
	"time"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PersonRecord represents the roster_people table
type PersonRecord struct {
	ID               string `gorm:"primaryKey;type:varchar(64)"`
	Name             string `gorm:"not null"`
	PersonType       string `gorm:"not null;default:'Full-Time'"`
	Department       string `gorm:"not null;default:'Other'"`
	CompMode         string `gorm:"default:'monthly'"`
	MonthlySalary    float64
	AnnualSalary     float64
	HourlyRate       float64
	BaseMonthlyHours float64 `gorm:"not null;default:0"`
	IsActive         *bool   `gorm:"not null;default:true"`
	InactiveDate     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the table name for PersonRecord
func (PersonRecord) TableName() string {
	return "roster_people"
}

func (r *PersonRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ProjectRecord represents the projects table
type ProjectRecord struct {
	ID              string `gorm:"primaryKey;type:varchar(64)"`
	Name            string `gorm:"not null"`
	Description     string
	Status          string
	ProjectStatus   string `gorm:"not null;default:'Active';index"`
	OverheadPerHour float64
	TargetMarginPct float64
	StartMonth      string `gorm:"not null;type:varchar(7)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Members []MemberRecord `gorm:"foreignKey:ProjectID"`
	Months  []MonthRecord  `gorm:"foreignKey:ProjectID"`
}

// TableName overrides the table name for ProjectRecord
func (ProjectRecord) TableName() string {
	return "projects"
}

func (r *ProjectRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// MemberRecord represents the project_members table
type MemberRecord struct {
	ProjectID string `gorm:"primaryKey;type:varchar(64)"`
	PersonID  string `gorm:"primaryKey;type:varchar(64);index"`
}

// TableName overrides the table name for MemberRecord
func (MemberRecord) TableName() string {
	return "project_members"
}

// MonthRecord represents the project_months table
type MonthRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	ProjectID string `gorm:"not null;type:varchar(64);index:idx_project_month"`
	Index     int    `gorm:"column:month_index;not null;index:idx_project_month"`
	Expenses  float64
	Revenue   float64

	Allocations []AllocationRecord `gorm:"foreignKey:MonthID"`
}

// TableName overrides the table name for MonthRecord
func (MonthRecord) TableName() string {
	return "project_months"
}

func (r *MonthRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// AllocationRecord represents the month_allocations table
type AllocationRecord struct {
	MonthID  string  `gorm:"primaryKey;type:varchar(64)"`
	PersonID string  `gorm:"primaryKey;type:varchar(64);index"`
	Percent  float64 `gorm:"not null;default:0"`
}

// TableName overrides the table name for AllocationRecord
func (AllocationRecord) TableName() string {
	return "month_allocations"
}

// TodoRecord represents the weekly_todos table
type TodoRecord struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	WeekOf    string `gorm:"not null;type:varchar(10);index"`
	Title     string `gorm:"not null"`
	Kind      string `gorm:"not null;default:'todo'"`
	OwnerID   string `gorm:"type:varchar(64);index"`
	Notes     string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the table name for TodoRecord
func (TodoRecord) TableName() string {
	return "weekly_todos"
}

func (r *TodoRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func personRecord(p models.RosterPerson) PersonRecord {
	active := p.Active()
	return PersonRecord{
		ID:               p.ID,
		Name:             p.Name,
		PersonType:       string(p.PersonType),
		Department:       string(p.Department),
		CompMode:         string(p.CompMode),
		MonthlySalary:    finite(p.MonthlySalary),
		AnnualSalary:     finite(p.AnnualSalary),
		HourlyRate:       finite(p.HourlyRate),
		BaseMonthlyHours: finite(p.BaseMonthlyHours),
		IsActive:         &active,
		InactiveDate:     p.InactiveDate,
	}
}

func (r PersonRecord) toModel() models.RosterPerson {
	return models.RosterPerson{
		ID:               r.ID,
		Name:             r.Name,
		PersonType:       models.PersonType(r.PersonType),
		Department:       models.Department(r.Department),
		CompMode:         models.CompMode(r.CompMode),
		MonthlySalary:    models.Num(r.MonthlySalary),
		AnnualSalary:     models.Num(r.AnnualSalary),
		HourlyRate:       models.Num(r.HourlyRate),
		BaseMonthlyHours: models.Num(r.BaseMonthlyHours),
		IsActive:         r.IsActive,
		InactiveDate:     r.InactiveDate,
	}
}

func (r ProjectRecord) toModel() models.Project {
	p := models.Project{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Status:          r.Status,
		ProjectStatus:   models.ProjectStatus(r.ProjectStatus),
		OverheadPerHour: models.Num(r.OverheadPerHour),
		TargetMarginPct: models.Num(r.TargetMarginPct),
		StartMonth:      r.StartMonth,
		MemberIDs:       make([]string, 0, len(r.Members)),
		Months:          make([]models.MonthRow, 0, len(r.Months)),
	}
	for _, m := range r.Members {
		p.MemberIDs = append(p.MemberIDs, m.PersonID)
	}
	for _, m := range r.Months {
		p.Months = append(p.Months, m.toModel(r.StartMonth))
	}
	return p
}

func (r MonthRecord) toModel(startMonth string) models.MonthRow {
	row := models.MonthRow{
		ID:                r.ID,
		Index:             r.Index,
		PersonAllocations: make(map[string]models.Num, len(r.Allocations)),
		Expenses:          models.Num(r.Expenses),
		Revenue:           models.Num(r.Revenue),
	}
	if ym, ok := finance.AddMonths(startMonth, r.Index); ok {
		row.Label = finance.MonthLabel(ym)
	}
	for _, a := range r.Allocations {
		row.PersonAllocations[a.PersonID] = models.Num(a.Percent)
	}
	return row
}

func monthRecord(projectID string, index int, m models.MonthRow) MonthRecord {
	rec := MonthRecord{
		ProjectID: projectID,
		Index:     index,
		Expenses:  finite(m.Expenses),
		Revenue:   finite(m.Revenue),
	}
	for id, pct := range m.PersonAllocations {
		if id == "" {
			continue
		}
		rec.Allocations = append(rec.Allocations, AllocationRecord{PersonID: id, Percent: ClampPercent(pct)})
	}
	return rec
}

func todoRecord(t models.WeeklyTodo) TodoRecord {
	return TodoRecord{
		ID:      t.ID,
		WeekOf:  t.WeekOf,
		Title:   t.Title,
		Kind:    string(t.Kind),
		OwnerID: t.OwnerID,
		Notes:   t.Notes,
		Done:    t.Done,
	}
}

func (r TodoRecord) toModel() models.WeeklyTodo {
	return models.WeeklyTodo{
		ID:      r.ID,
		WeekOf:  r.WeekOf,
		Title:   r.Title,
		Kind:    models.TodoKind(r.Kind),
		OwnerID: r.OwnerID,
		Notes:   r.Notes,
		Done:    r.Done,
	}
}

// ClampPercent bounds an edited allocation to [0, 100]
func ClampPercent(n models.Num) float64 {
	return math.Max(0, math.Min(100, finite(n)))
}

func finite(n models.Num) float64 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
