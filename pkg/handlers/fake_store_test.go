package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arnavshah/staffing-planner-go/pkg/database"
	"github.com/arnavshah/staffing-planner-go/pkg/models"
)

// fakeStore keeps the plan in memory for handler tests
type fakeStore struct {
	people   []models.RosterPerson
	projects []models.Project
	todos    []models.WeeklyTodo
	nextID   int
}

func (s *fakeStore) id(prefix string) string {
	s.nextID++
	return prefix + strconv.Itoa(s.nextID)
}

func (s *fakeStore) personIndex(id string) int {
	for i := range s.people {
		if s.people[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *fakeStore) projectIndex(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func missing(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, database.ErrNotFound)
}

func (s *fakeStore) ListPeople(ctx context.Context) ([]models.RosterPerson, error) {
	return append([]models.RosterPerson(nil), s.people...), nil
}

func (s *fakeStore) GetPerson(ctx context.Context, id string) (models.RosterPerson, error) {
	if i := s.personIndex(id); i >= 0 {
		return s.people[i], nil
	}
	return models.RosterPerson{}, missing("person", id)
}

func (s *fakeStore) CreatePerson(ctx context.Context, p models.RosterPerson) (models.RosterPerson, error) {
	if p.ID == "" {
		p.ID = s.id("person-")
	}
	s.people = append(s.people, p)
	return p, nil
}

func (s *fakeStore) UpdatePerson(ctx context.Context, id string, p models.RosterPerson) (models.RosterPerson, error) {
	i := s.personIndex(id)
	if i < 0 {
		return models.RosterPerson{}, missing("person", id)
	}
	p.ID = id
	s.people[i] = p
	return p, nil
}

func (s *fakeStore) DeletePerson(ctx context.Context, id string) error {
	i := s.personIndex(id)
	if i < 0 {
		return missing("person", id)
	}
	s.people = append(s.people[:i], s.people[i+1:]...)
	return nil
}

func (s *fakeStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	return append([]models.Project(nil), s.projects...), nil
}

func (s *fakeStore) GetProject(ctx context.Context, id string) (models.Project, error) {
	if i := s.projectIndex(id); i >= 0 {
		return s.projects[i], nil
	}
	return models.Project{}, missing("project", id)
}

func (s *fakeStore) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	for _, id := range p.MemberIDs {
		if s.personIndex(id) < 0 {
			return models.Project{}, fmt.Errorf("member %s: %w", id, database.ErrInvalid)
		}
	}
	if p.ID == "" {
		p.ID = s.id("project-")
	}
	for i := range p.Months {
		p.Months[i].Index = i
	}
	s.projects = append(s.projects, p)
	return p, nil
}

func (s *fakeStore) UpdateProject(ctx context.Context, id string, p models.Project) (models.Project, error) {
	i := s.projectIndex(id)
	if i < 0 {
		return models.Project{}, missing("project", id)
	}
	existing := s.projects[i]
	p.ID = id
	p.MemberIDs = existing.MemberIDs
	p.Months = existing.Months
	s.projects[i] = p
	return p, nil
}

func (s *fakeStore) DeleteProject(ctx context.Context, id string) error {
	i := s.projectIndex(id)
	if i < 0 {
		return missing("project", id)
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	return nil
}

func (s *fakeStore) SetMembers(ctx context.Context, projectID string, personIDs []string) (models.Project, error) {
	i := s.projectIndex(projectID)
	if i < 0 {
		return models.Project{}, missing("project", projectID)
	}
	for _, id := range personIDs {
		if s.personIndex(id) < 0 {
			return models.Project{}, fmt.Errorf("member %s: %w", id, database.ErrInvalid)
		}
	}
	s.projects[i].MemberIDs = personIDs
	return s.projects[i], nil
}

func (s *fakeStore) AppendMonth(ctx context.Context, projectID string, m models.MonthRow) (models.Project, error) {
	i := s.projectIndex(projectID)
	if i < 0 {
		return models.Project{}, missing("project", projectID)
	}
	m.Index = len(s.projects[i].Months)
	s.projects[i].Months = append(s.projects[i].Months, m)
	return s.projects[i], nil
}

func (s *fakeStore) UpdateMonth(ctx context.Context, projectID string, index int, m models.MonthRow) (models.Project, error) {
	i := s.projectIndex(projectID)
	if i < 0 || index >= len(s.projects[i].Months) {
		return models.Project{}, missing("month", strconv.Itoa(index))
	}
	m.Index = index
	s.projects[i].Months[index] = m
	return s.projects[i], nil
}

func (s *fakeStore) DeleteMonth(ctx context.Context, projectID string, index int) (models.Project, error) {
	i := s.projectIndex(projectID)
	if i < 0 || index >= len(s.projects[i].Months) {
		return models.Project{}, missing("month", strconv.Itoa(index))
	}
	months := append(s.projects[i].Months[:index:index], s.projects[i].Months[index+1:]...)
	for mi := range months {
		months[mi].Index = mi
	}
	s.projects[i].Months = months
	return s.projects[i], nil
}

func (s *fakeStore) ListTodos(ctx context.Context, weekOf string) ([]models.WeeklyTodo, error) {
	week, err := database.WeekStart(weekOf)
	if err != nil {
		return nil, err
	}
	var out []models.WeeklyTodo
	for _, t := range s.todos {
		if t.WeekOf == week {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateTodo(ctx context.Context, t models.WeeklyTodo) (models.WeeklyTodo, error) {
	week, err := database.WeekStart(t.WeekOf)
	if err != nil {
		return models.WeeklyTodo{}, err
	}
	t.WeekOf = week
	if t.ID == "" {
		t.ID = s.id("todo-")
	}
	s.todos = append(s.todos, t)
	return t, nil
}

func (s *fakeStore) UpdateTodo(ctx context.Context, id string, t models.WeeklyTodo) (models.WeeklyTodo, error) {
	for i := range s.todos {
		if s.todos[i].ID == id {
			t.ID = id
			s.todos[i] = t
			return t, nil
		}
	}
	return models.WeeklyTodo{}, missing("todo", id)
}

func (s *fakeStore) DeleteTodo(ctx context.Context, id string) error {
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return nil
		}
	}
	return missing("todo", id)
}

func (s *fakeStore) Snapshot(ctx context.Context) (models.Snapshot, error) {
	return models.Snapshot{
		SchemaVersion: models.SchemaVersion,
		People:        append([]models.RosterPerson(nil), s.people...),
		Projects:      append([]models.Project(nil), s.projects...),
	}, nil
}
