// Package client talks to the gophauth server.
//
// GRPCClient manages the connection, keeps the encrypted session token
// received from Login and attaches it to private calls through an
// interceptor, and maps failures to sentinel errors (ErrUnavailable,
// ErrUnauthorized) or a *ServerError carrying the server's message.
package client
