package models

// UserResponse is the public view of a registered user. It never carries the
// password hash.
type UserResponse struct {
	ID    string `json:"id"` // UUID
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse represents the response after successful authentication
type LoginResponse struct {
	Token string `json:"token"` // JWT token
}
