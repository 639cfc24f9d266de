package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned when input fails validation at the store boundary
	ErrInvalid = errors.New("invalid input")
)

// Store persists the roster, projects and weekly todos
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Snapshot loads the full roster and project set for the calculation engine
func (s *Store) Snapshot(ctx context.Context) (models.Snapshot, error) {
	people, err := s.ListPeople(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{
		SchemaVersion: models.SchemaVersion,
		People:        people,
		Projects:      projects,
	}, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("loading %s: %w", what, err)
}
