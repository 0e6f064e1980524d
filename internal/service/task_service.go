package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taskmanager-be/internal/cache"
	"taskmanager-be/internal/models"
	"taskmanager-be/internal/repository"
)

// TaskService defines the interface for task business logic. Every method
// is scoped to the authenticated user's ID.
type TaskService interface {
	CreateTask(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.TaskResponse, error)
	GetUserTasks(ctx context.Context, userID string) ([]*models.TaskResponse, error)
	UpdateTask(ctx context.Context, taskID, userID string, req *models.UpdateTaskRequest) error
	DeleteTask(ctx context.Context, taskID, userID string) error
}

type taskService struct {
	repo     repository.TaskRepository
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewTaskService creates a new task service. cacheClient may be nil, in
// which case every list goes to the repository.
func NewTaskService(repo repository.TaskRepository, cacheClient cache.Cache, cacheTTL time.Duration, logger *slog.Logger) TaskService {
	return &taskService{
		repo:     repo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// CreateTask creates a task owned by userID
func (s *taskService) CreateTask(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.TaskResponse, error) {
	task, err := s.repo.Create(ctx, userID, req.Title)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)

	return models.NewTaskResponse(task), nil
}

// GetUserTasks returns the user's tasks, newest first. The cache generation
// is read before the repository so a list loaded concurrently with a mutation
// is stored under a generation that mutation has already retired.
func (s *taskService) GetUserTasks(ctx context.Context, userID string) ([]*models.TaskResponse, error) {
	key, cached := s.cachedList(ctx, userID)
	if cached != nil {
		return cached, nil
	}

	tasks, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = models.NewTaskResponse(task)
	}

	if key != "" {
		if err := s.cache.SetJSON(ctx, key, responses, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "task cache write failed", "user_id", userID, "error", err)
		}
	}

	return responses, nil
}

// cachedList returns the list key for the user's current generation and the
// list stored there, if any. An empty key means the cache is not usable.
func (s *taskService) cachedList(ctx context.Context, userID string) (string, []*models.TaskResponse) {
	if s.cache == nil {
		return "", nil
	}

	generation, err := s.cache.Counter(ctx, cache.TaskGenerationKey(userID))
	if err != nil {
		s.logger.WarnContext(ctx, "task cache generation read failed", "user_id", userID, "error", err)
		return "", nil
	}
	key := cache.TaskListKey(userID, generation)

	var cached []*models.TaskResponse
	err = s.cache.GetJSON(ctx, key, &cached)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.WarnContext(ctx, "task cache read failed", "user_id", userID, "error", err)
	}
	if err != nil || cached == nil {
		return key, nil
	}
	return key, cached
}

// UpdateTask applies the non-nil fields of req to a task the user owns
func (s *taskService) UpdateTask(ctx context.Context, taskID, userID string, req *models.UpdateTaskRequest) error {
	if req.IsEmpty() {
		return ErrNoUpdateData
	}

	err := s.repo.Update(ctx, taskID, userID, req.Title, req.Completed)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	s.invalidate(ctx, userID)

	return nil
}

// DeleteTask removes a task the user owns
func (s *taskService) DeleteTask(ctx context.Context, taskID, userID string) error {
	err := s.repo.Delete(ctx, taskID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.invalidate(ctx, userID)

	return nil
}

// invalidate retires the user's current list generation and drops the list
// stored under it
func (s *taskService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	generation, err := s.cache.Incr(ctx, cache.TaskGenerationKey(userID))
	if err != nil {
		s.logger.WarnContext(ctx, "task cache invalidation failed", "user_id", userID, "error", err)
		return
	}
	if err := s.cache.Delete(ctx, cache.TaskListKey(userID, generation-1)); err != nil {
		s.logger.WarnContext(ctx, "stale task list delete failed", "user_id", userID, "error", err)
	}
}
