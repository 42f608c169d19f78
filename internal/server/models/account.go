package models

import "time"

// Account is a registered user as stored by the credential store.
//
// PasswordHash and SecretVerifierHash are one-way hashes; neither the
// password nor the per-login signing secret is ever stored.
type Account struct {
	ID                 string
	Username           string
	Handle             string
	Email              string
	PasswordHash       string
	SecretVerifierHash string
	CreatedAt          time.Time
}

// Identity is the string bound into session tokens and encrypted into the
// per-login signing secret: the account id followed by the username.
func (a *Account) Identity() string {
	return a.ID + a.Username
}

// Public returns the representation that may leave the server.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:        a.ID,
		Username:  a.Username,
		Handle:    a.Handle,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}

// PublicAccount is an Account without any credential material.
type PublicAccount struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
