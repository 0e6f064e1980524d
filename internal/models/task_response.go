package models

import (
	"time"

	"taskmanager-be/internal/entities"
)

// TaskResponse represents a task as returned to its owner
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTaskResponse converts a task entity to its response DTO
func NewTaskResponse(task *entities.Task) *TaskResponse {
	return &TaskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		UserID:    task.UserID,
		CreatedAt: task.CreatedAt,
	}
}

// MessageResponse is the body of mutations that return no resource
type MessageResponse struct {
	Message string `json:"message"`
}
