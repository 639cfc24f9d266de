package database

import (
	"context"
	"fmt"

	"github.com/arnavshah/staffing-planner-go/pkg/finance"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"gorm.io/gorm"
)

func (s *Store) projectQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("person_id") }).
		Preload("Months", func(db *gorm.DB) *gorm.DB { return db.Order("month_index") }).
		Preload("Months.Allocations")
}

// ListProjects returns every project with its members, months and allocations
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	var recs []ProjectRecord
	if err := s.projectQuery(ctx).Order("created_at, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	projects := make([]models.Project, 0, len(recs))
	for _, r := range recs {
		projects = append(projects, r.toModel())
	}
	return projects, nil
}

// GetProject loads one project with its members, months and allocations
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	var rec ProjectRecord
	if err := s.projectQuery(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return models.Project{}, notFound(err, "project "+id)
	}
	return rec.toModel(), nil
}

// CreateProject inserts a project with its members and months. Months are
// re-indexed by position so the sequence has no gaps.
func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	start, ok := finance.NormalizeYM(p.StartMonth)
	if !ok {
		return models.Project{}, fmt.Errorf("start month %q: %w", p.StartMonth, ErrInvalid)
	}
	rec := ProjectRecord{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Status:          p.Status,
		ProjectStatus:   string(p.ProjectStatus),
		OverheadPerHour: finite(p.OverheadPerHour),
		TargetMarginPct: finite(p.TargetMarginPct),
		StartMonth:      start,
	}
	for _, id := range dedupe(p.MemberIDs) {
		rec.Members = append(rec.Members, MemberRecord{PersonID: id})
	}
	for i, m := range p.Months {
		rec.Months = append(rec.Months, monthRecord("", i, m))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkPeople(tx, p.MemberIDs); err != nil {
			return err
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, rec.ID)
}

// UpdateProject overwrites a project's descriptive and financial settings.
// Members and months are edited through their own operations.
func (s *Store) UpdateProject(ctx context.Context, id string, p models.Project) (models.Project, error) {
	start, ok := finance.NormalizeYM(p.StartMonth)
	if !ok {
		return models.Project{}, fmt.Errorf("start month %q: %w", p.StartMonth, ErrInvalid)
	}
	var existing ProjectRecord
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		return models.Project{}, notFound(err, "project "+id)
	}
	err := s.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"name":              p.Name,
		"description":       p.Description,
		"status":            p.Status,
		"project_status":    string(p.ProjectStatus),
		"overhead_per_hour": finite(p.OverheadPerHour),
		"target_margin_pct": finite(p.TargetMarginPct),
		"start_month":       start,
	}).Error
	if err != nil {
		return models.Project{}, fmt.Errorf("updating project: %w", err)
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project and everything planned under it
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&ProjectRecord{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("deleting project: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		months := tx.Model(&MonthRecord{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("month_id IN (?)", months).Delete(&AllocationRecord{}).Error; err != nil {
			return fmt.Errorf("deleting allocations: %w", err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&MonthRecord{}).Error; err != nil {
			return fmt.Errorf("deleting months: %w", err)
		}
		if err := tx.Where("project_id = ?", id).Delete(&MemberRecord{}).Error; err != nil {
			return fmt.Errorf("deleting members: %w", err)
		}
		return nil
	})
}

// SetMembers replaces a project's member set. Every id must be on the roster.
func (s *Store) SetMembers(ctx context.Context, projectID string, personIDs []string) (models.Project, error) {
	ids := dedupe(personIDs)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ProjectRecord{}, "id = ?", projectID).Error; err != nil {
			return notFound(err, "project "+projectID)
		}
		if err := checkPeople(tx, ids); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&MemberRecord{}).Error; err != nil {
			return fmt.Errorf("clearing members: %w", err)
		}
		for _, id := range ids {
			if err := tx.Create(&MemberRecord{ProjectID: projectID, PersonID: id}).Error; err != nil {
				return fmt.Errorf("adding member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, projectID)
}

// AppendMonth adds a month to the end of a project's sequence
func (s *Store) AppendMonth(ctx context.Context, projectID string, m models.MonthRow) (models.Project, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ProjectRecord{}, "id = ?", projectID).Error; err != nil {
			return notFound(err, "project "+projectID)
		}
		var count int64
		if err := tx.Model(&MonthRecord{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return fmt.Errorf("counting months: %w", err)
		}
		rec := monthRecord(projectID, int(count), m)
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("creating month: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, projectID)
}

// UpdateMonth replaces the expenses, revenue and allocations of one month
func (s *Store) UpdateMonth(ctx context.Context, projectID string, index int, m models.MonthRow) (models.Project, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec MonthRecord
		if err := tx.First(&rec, "project_id = ? AND month_index = ?", projectID, index).Error; err != nil {
			return notFound(err, fmt.Sprintf("month %d of project %s", index, projectID))
		}
		next := monthRecord(projectID, index, m)
		err := tx.Model(&rec).Updates(map[string]any{
			"expenses": next.Expenses,
			"revenue":  next.Revenue,
		}).Error
		if err != nil {
			return fmt.Errorf("updating month: %w", err)
		}
		if err := tx.Where("month_id = ?", rec.ID).Delete(&AllocationRecord{}).Error; err != nil {
			return fmt.Errorf("clearing allocations: %w", err)
		}
		for _, a := range next.Allocations {
			a.MonthID = rec.ID
			if err := tx.Create(&a).Error; err != nil {
				return fmt.Errorf("saving allocation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, projectID)
}

// DeleteMonth removes one month and shifts later months down so the
// sequence stays gapless
func (s *Store) DeleteMonth(ctx context.Context, projectID string, index int) (models.Project, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec MonthRecord
		if err := tx.First(&rec, "project_id = ? AND month_index = ?", projectID, index).Error; err != nil {
			return notFound(err, fmt.Sprintf("month %d of project %s", index, projectID))
		}
		if err := tx.Where("month_id = ?", rec.ID).Delete(&AllocationRecord{}).Error; err != nil {
			return fmt.Errorf("deleting allocations: %w", err)
		}
		if err := tx.Delete(&rec).Error; err != nil {
			return fmt.Errorf("deleting month: %w", err)
		}
		err := tx.Model(&MonthRecord{}).
			Where("project_id = ? AND month_index > ?", projectID, index).
			Update("month_index", gorm.Expr("month_index - 1")).Error
		if err != nil {
			return fmt.Errorf("re-indexing months: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, projectID)
}

// checkPeople fails with ErrInvalid unless every id is on the roster
func checkPeople(tx *gorm.DB, ids []string) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	var known int64
	if err := tx.Model(&PersonRecord{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
		return fmt.Errorf("checking roster: %w", err)
	}
	if int(known) != len(ids) {
		return fmt.Errorf("member ids include unknown people: %w", ErrInvalid)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
