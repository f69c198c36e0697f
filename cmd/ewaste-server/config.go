package main

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"

	goerrors "github.com/goliatone/go-errors"

	"github.com/ecoloop/ewaste"
)

// appConfig is the environment-backed configuration for the server. It
// satisfies ewaste.Config so the same values drive token minting and the
// route guard.
type appConfig struct {
	SigningKey      string
	UsersFile       string
	UsersBackend    string
	Addr            string
	ExpirationHours int
	GeneratedKey    bool
}

var _ ewaste.Config = (*appConfig)(nil)

// loadConfig reads the environment. When JWT_SECRET_KEY is unset a random
// 32-byte key is generated; tokens signed with it die with the process.
func loadConfig() (*appConfig, error) {
	cfg := &appConfig{
		SigningKey:      os.Getenv("JWT_SECRET_KEY"),
		UsersFile:       envOrDefault("USERS_FILE", "users.json"),
		UsersBackend:    envOrDefault("USERS_BACKEND", "file"),
		Addr:            envOrDefault("ADDR", ":5000"),
		ExpirationHours: 72,
	}

	if raw := os.Getenv("TOKEN_EXPIRATION_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return nil, goerrors.New(
				"TOKEN_EXPIRATION_HOURS must be a positive integer, got "+raw,
				goerrors.CategoryValidation,
			)
		}
		cfg.ExpirationHours = hours
	}

	if cfg.SigningKey == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		cfg.SigningKey = hex.EncodeToString(key)
		cfg.GeneratedKey = true
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if val := os.Getenv(name); val != "" {
		return val
	}
	return def
}

func (c *appConfig) GetSigningKey() string    { return c.SigningKey }
func (c *appConfig) GetSigningMethod() string { return "HS256" }
func (c *appConfig) GetContextKey() string    { return "user" }
func (c *appConfig) GetTokenExpiration() int  { return c.ExpirationHours }
func (c *appConfig) GetTokenLookup() string   { return "header:Authorization" }
func (c *appConfig) GetAuthScheme() string    { return "Bearer" }
func (c *appConfig) GetIssuer() string        { return "ewaste" }
func (c *appConfig) GetAudience() []string    { return nil }

// redacted returns a copy safe for boot-time logging.
func (c *appConfig) redacted() map[string]any {
	return map[string]any{
		"users_file":        c.UsersFile,
		"users_backend":     c.UsersBackend,
		"addr":              c.Addr,
		"expiration_hours":  c.ExpirationHours,
		"signing_key_set":   !c.GeneratedKey,
		"signing_key_bytes": len(c.SigningKey),
	}
}
