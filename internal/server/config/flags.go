package config

import (
	"flag"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags overlays values from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-n int      bcrypt cost (SALT_NUMBER)
//	-u string   user secret key
//	-k string   admin secret key
//	-m string   admin email
//	-t string   server (transport) encryption key
func parseFlags(config *Config) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.SaltNumber, "n", config.SaltNumber, "bcrypt cost")
	fs.StringVar(&config.UserSecretKey, "u", config.UserSecretKey, "user secret key")
	fs.StringVar(&config.AdminSecretKey, "k", config.AdminSecretKey, "admin secret key")
	fs.StringVar(&config.AdminEmail, "m", config.AdminEmail, "admin email")
	fs.StringVar(&config.ServerEncryptionKey, "t", config.ServerEncryptionKey, "server encryption key")

	return flagx.ParseOwn(fs)
}
