package config

import (
	"fmt"
	"strings"
)

// minJWTSecretLen guards against running with a trivially guessable secret.
const minJWTSecretLen = 16

// ValidateConfig checks that the configuration is complete enough to start.
// A missing JWT secret is always fatal: the server must never fall back to
// signing tokens with an empty or default key.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	} else if len(cfg.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be at least %d characters", minJWTSecretLen))
	}

	if cfg.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if cfg.DBPassword == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		errs = append(errs, "AWS_REGION is required when S3_BUCKET_NAME is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return nil
}
