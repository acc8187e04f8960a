// Package taskstore holds the task collection the assistant mutates on the
// user's behalf.
package taskstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"orumaiv/internal/common/errors"
	"orumaiv/internal/models"
)

// Update carries the fields of a task mutation. Nil fields are left untouched.
type Update struct {
	Text        *string
	Description *string
	Time        *string
	DueDate     *string
	Priority    *models.Priority
	Checked     *bool
}

// Store is the task collection interface the mutation executor works against.
type Store interface {
	Create(ctx context.Context, task models.Task) (models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	Update(ctx context.Context, id string, update Update) (models.Task, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Task, error)
}

// MemoryStore is an in-memory Store keeping insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]models.Task)}
}

func (s *MemoryStore) Create(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, exists := s.tasks[task.ID]; !exists {
		s.order = append(s.order, task.ID)
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, errors.NewTaskNotFoundError(id)
	}
	return task, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, update Update) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, errors.NewTaskNotFoundError(id)
	}

	if update.Text != nil {
		task.Text = *update.Text
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Time != nil {
		task.Time = *update.Time
	}
	if update.DueDate != nil {
		task.DueDate = *update.DueDate
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Checked != nil {
		task.Checked = *update.Checked
	}

	s.tasks[id] = task
	return task, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return errors.NewTaskNotFoundError(id)
	}
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out, nil
}
