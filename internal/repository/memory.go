package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskmanager-be/internal/entities"
)

// MemoryStore is an in-process implementation of both repositories. It is
// used when no database is configured and in tests. Email uniqueness and the
// task ownership predicate are enforced under a single lock.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*entities.User // keyed by email
	tasks   map[string]*memoryTask    // keyed by task ID
	seq     int64
	nowFunc func() time.Time
}

type memoryTask struct {
	task entities.Task
	seq  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*entities.User),
		tasks:   make(map[string]*memoryTask),
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Users returns the store's UserRepository view
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Tasks returns the store's TaskRepository view
func (s *MemoryStore) Tasks() TaskRepository { return memoryTasks{s} }

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) Create(_ context.Context, name, email, passwordHash string) (*entities.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, exists := m.s.users[email]; exists {
		return nil, ErrDuplicateEmail
	}
	user := &entities.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    m.s.nowFunc(),
	}
	m.s.users[email] = user

	copied := *user
	return &copied, nil
}

func (m memoryUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	user, ok := m.s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

type memoryTasks struct{ s *MemoryStore }

func (m memoryTasks) Create(_ context.Context, userID, title string) (*entities.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	m.s.seq++
	t := &memoryTask{
		task: entities.Task{
			ID:        uuid.NewString(),
			Title:     title,
			UserID:    userID,
			CreatedAt: m.s.nowFunc(),
		},
		seq: m.s.seq,
	}
	m.s.tasks[t.task.ID] = t

	copied := t.task
	return &copied, nil
}

func (m memoryTasks) GetByUserID(_ context.Context, userID string) ([]*entities.Task, error) {
	m.s.mu.RLock()
	owned := make([]*memoryTask, 0)
	for _, t := range m.s.tasks {
		if t.task.UserID == userID {
			owned = append(owned, t)
		}
	}
	m.s.mu.RUnlock()

	// Newest first; insertion order breaks timestamp ties.
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].task.CreatedAt.Equal(owned[j].task.CreatedAt) {
			return owned[i].task.CreatedAt.After(owned[j].task.CreatedAt)
		}
		return owned[i].seq > owned[j].seq
	})

	tasks := make([]*entities.Task, len(owned))
	for i, t := range owned {
		copied := t.task
		tasks[i] = &copied
	}
	return tasks, nil
}

func (m memoryTasks) Update(_ context.Context, id, userID string, title *string, completed *bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	t, ok := m.s.tasks[id]
	if !ok || t.task.UserID != userID {
		return ErrNotFound
	}
	if title != nil {
		t.task.Title = *title
	}
	if completed != nil {
		t.task.Completed = *completed
	}
	return nil
}

func (m memoryTasks) Delete(_ context.Context, id, userID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	t, ok := m.s.tasks[id]
	if !ok || t.task.UserID != userID {
		return ErrNotFound
	}
	delete(m.s.tasks, id)
	return nil
}
