// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds configuration for admin session token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 12).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	expirationHours := 12
	if v := os.Getenv("JWT_EXPIRATION_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		expirationHours = n
	}

	cfg := &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}

	if cfg.ExpirationHours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", cfg.ExpirationHours)
	}

	return cfg, nil
}
