package models

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

// UpdateTaskRequest carries the optional fields of a task update. A nil
// field is left untouched.
type UpdateTaskRequest struct {
	Title     *string `json:"title,omitempty" binding:"omitnil,min=1"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Title == nil && r.Completed == nil
}
