// Package common contains shared constants, sentinel errors and small helpers
// used by both the server and the client.
package common

// AuthTokenHeaderName is the gRPC metadata key that carries the
// transport-encrypted session token, both on the login response and on
// requests to private methods.
const AuthTokenHeaderName = "auth-token"

// HandlePrefix is prepended to a username to build the display handle.
const HandlePrefix = "@"
