package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/contacts")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Success(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "30")
	t.Setenv("JWT_REFRESH_EXPIRATION_MINUTES", "10080")
	t.Setenv("MAIL_SERVER", "smtp.example.com")
	t.Setenv("MAIL_FROM", "noreply@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("AccessTokenTTL want 30m, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("RefreshTokenTTL want 168h, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.JWTAlgorithm != "HS256" {
		t.Fatalf("default algorithm want HS256, got %s", cfg.JWTAlgorithm)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/contacts")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	// JWT_SECRET left unset

	if _, err := Load(); err == nil {
		t.Fatal("expected error due to missing JWT_SECRET, got nil")
	}
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_EXPIRATION_MINUTES", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero access TTL")
	}
}
