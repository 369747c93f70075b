package models

// User identifies who performed a mutation. Code is what history entries
// reference.
type User struct {
	Code  string `json:"code"`
	Email string `json:"email,omitempty"`
}
