package database

import (
	"context"
	"fmt"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"gorm.io/gorm"
)

// ListPeople returns the whole roster ordered by name
func (s *Store) ListPeople(ctx context.Context) ([]models.RosterPerson, error) {
	var recs []PersonRecord
	if err := s.db.WithContext(ctx).Order("name, id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing roster: %w", err)
	}
	people := make([]models.RosterPerson, 0, len(recs))
	for _, r := range recs {
		people = append(people, r.toModel())
	}
	return people, nil
}

// GetPerson loads one roster entry
func (s *Store) GetPerson(ctx context.Context, id string) (models.RosterPerson, error) {
	var rec PersonRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return models.RosterPerson{}, notFound(err, "person "+id)
	}
	return rec.toModel(), nil
}

// CreatePerson inserts a roster entry, assigning an id when none is given
func (s *Store) CreatePerson(ctx context.Context, p models.RosterPerson) (models.RosterPerson, error) {
	rec := personRecord(p)
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.RosterPerson{}, fmt.Errorf("creating person: %w", err)
	}
	return rec.toModel(), nil
}

// UpdatePerson overwrites every editable field of a roster entry
func (s *Store) UpdatePerson(ctx context.Context, id string, p models.RosterPerson) (models.RosterPerson, error) {
	var existing PersonRecord
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		return models.RosterPerson{}, notFound(err, "person "+id)
	}
	rec := personRecord(p)
	rec.ID = id
	err := s.db.WithContext(ctx).Model(&existing).Select("*").Omit("id", "created_at").Updates(&rec).Error
	if err != nil {
		return models.RosterPerson{}, fmt.Errorf("updating person: %w", err)
	}
	return s.GetPerson(ctx, id)
}

// DeletePerson removes a roster entry together with its allocations and
// project memberships. Todos owned by the person are kept but unassigned.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&PersonRecord{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("deleting person: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("person %s: %w", id, ErrNotFound)
		}
		if err := tx.Where("person_id = ?", id).Delete(&AllocationRecord{}).Error; err != nil {
			return fmt.Errorf("deleting allocations: %w", err)
		}
		if err := tx.Where("person_id = ?", id).Delete(&MemberRecord{}).Error; err != nil {
			return fmt.Errorf("deleting memberships: %w", err)
		}
		if err := tx.Model(&TodoRecord{}).Where("owner_id = ?", id).Update("owner_id", "").Error; err != nil {
			return fmt.Errorf("unassigning todos: %w", err)
		}
		return nil
	})
}
