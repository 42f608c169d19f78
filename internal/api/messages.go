package api

import "time"

// Response status values.
const (
	StatusOK    = 1
	StatusError = -1
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Status    int      `json:"status"`
	Message   string   `json:"message,omitempty"`
	AddedUser *Account `json:"added_user,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse acknowledges a login. The encrypted session token travels in
// the auth-token response header, not in the body.
type LoginResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

type ProfileRequest struct{}

type ProfileResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message,omitempty"`
	User    *Account `json:"user,omitempty"`
}

// Account is the public view of a registered account.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
