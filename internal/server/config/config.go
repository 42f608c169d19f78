// Package config builds the server configuration: built-in defaults, then an
// optional JSON file, then environment variables, then command-line flags.
// The result is validated once and passed by pointer into every component;
// nothing reads the environment after startup.
package config

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SaltNumber: bcrypt cost used for passwords and secret verifiers.
//   - UserSecretKey: passphrase of the key that wraps every per-login secret.
//   - AdminSecretKey: passphrase of the extra wrapping key for the admin account.
//   - AdminEmail: email that identifies the privileged (admin) account.
//   - ServerEncryptionKey: passphrase of the transport key for outbound tokens.
type Config struct {
	EndpointAddrGRPC    string `json:"endpoint_addr_grpc"    env:"ENDPOINT_ADDR_GRPC"`
	DatabaseDSN         string `json:"database_dsn"          env:"DATABASE_DSN"`
	SaltNumber          int    `json:"salt_number"           env:"SALT_NUMBER"`
	UserSecretKey       string `json:"user_secret_key"       env:"USER_SECRET_KEY"`
	AdminSecretKey      string `json:"admin_secret_key"      env:"ADMIN_SECRET_KEY"`
	AdminEmail          string `json:"admin_email"           env:"ADMIN_EMAIL"`
	ServerEncryptionKey string `json:"server_encryption_key" env:"SERVER_ENCRYPTION_KEY"`
}

// LoadDefaults fills in the non-secret settings. Keys have no defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SaltNumber = bcrypt.DefaultCost
}

// Validate reports every missing or out-of-range setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.SaltNumber < bcrypt.MinCost || c.SaltNumber > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("SALT_NUMBER must be within [%d, %d], got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.SaltNumber))
	}

	required := []struct {
		name  string
		value string
	}{
		{"USER_SECRET_KEY", c.UserSecretKey},
		{"ADMIN_SECRET_KEY", c.AdminSecretKey},
		{"ADMIN_EMAIL", c.AdminEmail},
		{"SERVER_ENCRYPTION_KEY", c.ServerEncryptionKey},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.EndpointAddrGRPC == "" {
		errs = append(errs, errors.New("ENDPOINT_ADDR_GRPC must not be empty"))
	}

	return errors.Join(errs...)
}

// LoadConfig applies defaults, the JSON file, the environment and flags in
// that order, then validates. Any failure is returned; callers are expected
// to stop the process.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
