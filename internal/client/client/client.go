package client

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
)

// Client is the transport-agnostic contract used by the CLI.
type Client interface {
	Register(ctx context.Context, username, email, password string) (*api.Account, error)
	Login(ctx context.Context, username, password string) error
	Profile(ctx context.Context) (*api.Account, error)
	Logout()
	LoggedIn() bool
	Close() error
}
