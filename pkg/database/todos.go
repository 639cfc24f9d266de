package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/staffing-planner-go/pkg/models"
)

const dayLayout = "2006-01-02"

// WeekStart returns the Monday of the week containing day, formatted as
// YYYY-MM-DD
func WeekStart(day string) (string, error) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(day))
	if err != nil {
		return "", fmt.Errorf("week %q: %w", day, ErrInvalid)
	}
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(dayLayout), nil
}

// ListTodos returns the todos of the week containing weekOf, open items first
func (s *Store) ListTodos(ctx context.Context, weekOf string) ([]models.WeeklyTodo, error) {
	week, err := WeekStart(weekOf)
	if err != nil {
		return nil, err
	}
	var recs []TodoRecord
	err = s.db.WithContext(ctx).
		Where("week_of = ?", week).
		Order("done, kind, created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	todos := make([]models.WeeklyTodo, 0, len(recs))
	for _, r := range recs {
		todos = append(todos, r.toModel())
	}
	return todos, nil
}

// CreateTodo files a todo under the Monday of its week
func (s *Store) CreateTodo(ctx context.Context, t models.WeeklyTodo) (models.WeeklyTodo, error) {
	rec, err := s.cleanTodo(t)
	if err != nil {
		return models.WeeklyTodo{}, err
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.WeeklyTodo{}, fmt.Errorf("creating todo: %w", err)
	}
	return rec.toModel(), nil
}

// UpdateTodo overwrites a todo's fields
func (s *Store) UpdateTodo(ctx context.Context, id string, t models.WeeklyTodo) (models.WeeklyTodo, error) {
	var existing TodoRecord
	if err := s.db.WithContext(ctx).First(&existing, "id = ?", id).Error; err != nil {
		return models.WeeklyTodo{}, notFound(err, "todo "+id)
	}
	rec, err := s.cleanTodo(t)
	if err != nil {
		return models.WeeklyTodo{}, err
	}
	err = s.db.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"week_of":  rec.WeekOf,
		"title":    rec.Title,
		"kind":     rec.Kind,
		"owner_id": rec.OwnerID,
		"notes":    rec.Notes,
		"done":     rec.Done,
	}).Error
	if err != nil {
		return models.WeeklyTodo{}, fmt.Errorf("updating todo: %w", err)
	}
	var updated TodoRecord
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", id).Error; err != nil {
		return models.WeeklyTodo{}, notFound(err, "todo "+id)
	}
	return updated.toModel(), nil
}

// DeleteTodo removes a todo
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&TodoRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) cleanTodo(t models.WeeklyTodo) (TodoRecord, error) {
	week, err := WeekStart(t.WeekOf)
	if err != nil {
		return TodoRecord{}, err
	}
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return TodoRecord{}, fmt.Errorf("todo title is empty: %w", ErrInvalid)
	}
	if t.Kind == "" {
		t.Kind = models.TodoGeneral
	}
	if t.Kind != models.TodoGeneral && t.Kind != models.TodoBD {
		return TodoRecord{}, fmt.Errorf("todo kind %q: %w", t.Kind, ErrInvalid)
	}
	t.WeekOf = week
	return todoRecord(t), nil
}
