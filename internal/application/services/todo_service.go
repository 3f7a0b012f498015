package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/classdash/core/internal/application/localstore"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
)

const maxTodoText = 500

// TodoService handles the to-do list. Items are addressed by id, never by position.
type TodoService struct {
	mu     sync.Mutex
	local  *localstore.Store
	logger *logger.Logger
	now    func() time.Time
}

// NewTodoService creates a to-do service
func NewTodoService(local *localstore.Store, log *logger.Logger) *TodoService {
	return &TodoService{
		local:  local,
		logger: log.WithComponent("todo"),
		now:    time.Now,
	}
}

// List returns the items in insertion order
func (s *TodoService) List(ctx context.Context) ([]entities.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Progress summarizes the list
func (s *TodoService) Progress(ctx context.Context) (entities.TodoProgress, error) {
	items, err := s.List(ctx)
	if err != nil {
		return entities.TodoProgress{}, err
	}
	return entities.ComputeTodoProgress(items), nil
}

// Add appends an open item
func (s *TodoService) Add(ctx context.Context, text string) (*entities.TodoItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entities.ErrEmptyTodo
	}
	if len([]rune(text)) > maxTodoText {
		return nil, fmt.Errorf("todo text exceeds %d characters", maxTodoText)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	item := entities.NewTodoItem(text, s.now())
	items = append(items, item)
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}

	s.logger.Debugw("Todo added", "id", item.ID)
	return &item, nil
}

// Toggle flips the done flag of an item
func (s *TodoService) Toggle(ctx context.Context, id string) (*entities.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == id {
			items[i].Done = !items[i].Done
			if err := s.save(ctx, items); err != nil {
				return nil, err
			}
			item := items[i]
			return &item, nil
		}
	}
	return nil, entities.ErrTodoNotFound
}

// Delete removes an item
func (s *TodoService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return s.save(ctx, items)
		}
	}
	return entities.ErrTodoNotFound
}

// ClearDone removes every finished item and reports how many were removed
func (s *TodoService) ClearDone(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := items[:0]
	for _, item := range items {
		if !item.Done {
			kept = append(kept, item)
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(ctx, kept)
}

// load reads the list. Items written before ids existed get one, and the list is rewritten.
func (s *TodoService) load(ctx context.Context) ([]entities.TodoItem, error) {
	items := localstore.Get(ctx, s.local, entities.KeyTodos, []entities.TodoItem{})
	if items == nil {
		items = []entities.TodoItem{}
	}

	migrated := false
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
			migrated = true
		}
	}
	if migrated {
		if err := s.save(ctx, items); err != nil {
			return nil, err
		}
		s.logger.Infow("Assigned ids to legacy todo items", "count", len(items))
	}
	return items, nil
}

func (s *TodoService) save(ctx context.Context, items []entities.TodoItem) error {
	return s.local.Set(ctx, entities.KeyTodos, items)
}
