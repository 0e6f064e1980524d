package entities

import "time"

// Task represents a to-do item owned by exactly one user
type Task struct {
	ID        string    `json:"id"` // UUID
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"userId"` // Owner, UUID
	CreatedAt time.Time `json:"createdAt"`
}
