// Package console is the single-user, in-memory todo manager behind the
// interactive terminal tool. Nothing here persists across runs.
package console

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle = errors.New("title cannot be empty or whitespace only")
	ErrNotFound   = errors.New("todo not found")
)

type Todo struct {
	ID          int
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Manager holds todos in creation order and hands out monotonically
// increasing ids starting at 1. Deleted ids are never reused.
type Manager struct {
	todos  []Todo
	nextID int
	now    func() time.Time
}

func NewManager() *Manager {
	return NewManagerWithClock(func() time.Time { return time.Now().UTC() })
}

func NewManagerWithClock(now func() time.Time) *Manager {
	return &Manager{
		nextID: 1,
		now:    now,
	}
}

func (m *Manager) Add(title, description string) (Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Todo{}, ErrEmptyTitle
	}

	now := m.now()
	todo := Todo{
		ID:          m.nextID,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.nextID++
	m.todos = append(m.todos, todo)

	return todo, nil
}

// List returns the todos in creation order. The slice is a copy, callers
// cannot mutate manager state through it.
func (m *Manager) List() []Todo {
	out := make([]Todo, len(m.todos))
	copy(out, m.todos)

	return out
}

func (m *Manager) Get(id int) (Todo, error) {
	idx := m.index(id)
	if idx < 0 {
		return Todo{}, ErrNotFound
	}

	return m.todos[idx], nil
}

// Update applies the provided fields. A nil field stays untouched, so an
// all-nil call touches only the update timestamp. A provided empty
// description clears it, while an empty title is rejected.
func (m *Manager) Update(id int, title, description *string) (Todo, error) {
	idx := m.index(id)
	if idx < 0 {
		return Todo{}, ErrNotFound
	}

	todo := m.todos[idx]

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return Todo{}, ErrEmptyTitle
		}

		todo.Title = trimmed
	}

	if description != nil {
		todo.Description = strings.TrimSpace(*description)
	}

	todo.UpdatedAt = m.now()
	m.todos[idx] = todo

	return todo, nil
}

func (m *Manager) Delete(id int) error {
	idx := m.index(id)
	if idx < 0 {
		return ErrNotFound
	}

	m.todos = append(m.todos[:idx], m.todos[idx+1:]...)

	return nil
}

func (m *Manager) Toggle(id int) (Todo, error) {
	idx := m.index(id)
	if idx < 0 {
		return Todo{}, ErrNotFound
	}

	m.todos[idx].Completed = !m.todos[idx].Completed
	m.todos[idx].UpdatedAt = m.now()

	return m.todos[idx], nil
}

func (m *Manager) Complete(id int) (Todo, error) {
	return m.setCompleted(id, true)
}

func (m *Manager) Incomplete(id int) (Todo, error) {
	return m.setCompleted(id, false)
}

func (m *Manager) setCompleted(id int, completed bool) (Todo, error) {
	idx := m.index(id)
	if idx < 0 {
		return Todo{}, ErrNotFound
	}

	m.todos[idx].Completed = completed
	m.todos[idx].UpdatedAt = m.now()

	return m.todos[idx], nil
}

func (m *Manager) index(id int) int {
	for i, todo := range m.todos {
		if todo.ID == id {
			return i
		}
	}

	return -1
}
