package main

import (
	"fmt"
	"sync"
	"time"
)

// Status is the state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Tag labels a todo.
type Tag string

const (
	TagWork     Tag = "work"
	TagPersonal Tag = "personal"
	TagUrgent   Tag = "urgent"
	TagLater    Tag = "later"
)

// Todo is one row of the todo table.
//
//hxtable:row
type Todo struct {
	ID          string     `table:"id"`
	Title       string     `table:"title"`
	Description string     `table:"description"`
	Status      Status     `table:"status"`
	Tags        []Tag      `table:"-"`
	CreatedAt   time.Time  `table:"created"`
	DueAt       *time.Time `table:"due"`
}

// Done reports whether the todo is completed.
func (t Todo) Done() bool {
	return t.Status == StatusCompleted
}

// TagRows returns the tags as rows for the nested tag table.
func (t Todo) TagRows() []map[string]any {
	rows := make([]map[string]any, len(t.Tags))
	for i, tag := range t.Tags {
		rows[i] = map[string]any{"tag": string(tag)}
	}
	return rows
}

// Store is an in-memory todo store.
type Store struct {
	mu     sync.RWMutex
	todos  map[string]*Todo
	nextID int
	now    func() time.Time
}

// NewStore creates a store with sample data.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		todos:  make(map[string]*Todo),
		nextID: 1,
		now:    now,
	}

	tomorrow := now().Add(24 * time.Hour)
	s.Add("Buy groceries", "Milk, eggs, bread", nil, TagPersonal)
	s.Add("Review PR #123", "Check the authentication changes", &tomorrow, TagWork, TagUrgent)
	s.Add("Write documentation", "Update API docs for v2", nil, TagWork)
	s.Add("Call dentist", "Schedule annual checkup", nil, TagPersonal, TagLater)
	s.Add("Fix login bug", "Users can't reset passwords", &tomorrow, TagWork, TagUrgent)

	return s
}

// Add creates a new todo and returns its ID.
func (s *Store) Add(title, description string, due *time.Time, tags ...Tag) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("todo-%d", s.nextID)
	// Later todos sort as newer.
	created := s.now().Add(time.Duration(s.nextID) * time.Minute)
	s.nextID++

	s.todos[id] = &Todo{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		Tags:        tags,
		CreatedAt:   created,
		DueAt:       due,
	}
	return id
}

// Get returns a copy of a todo by ID.
func (s *Store) Get(id string) (Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return Todo{}, false
	}
	return *t, true
}

// Toggle flips the completed status of a todo.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return false
	}
	if todo.Status == StatusCompleted {
		todo.Status = StatusPending
	} else {
		todo.Status = StatusCompleted
	}
	return true
}

// Delete removes a todo by ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	return true
}

// List returns copies of the todos with the given status (all when empty),
// newest first.
func (s *Store) List(status Status) []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Todo
	for _, todo := range s.todos {
		if status != "" && todo.Status != status {
			continue
		}
		result = append(result, *todo)
	}
	sortTodos(result, "created", true)
	return result
}
