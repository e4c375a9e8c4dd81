package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/ErlanBelekov/focusboard/config"
)

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("ENV", "local")

	cfg, err := config.LoadClient()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenStore != config.TokenStoreFile {
		t.Errorf("TokenStore = %q, want file", cfg.TokenStore)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %v, want 0", cfg.HTTPTimeout)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("level = %v", cfg.SlogLevel())
	}
}

func TestLoadClient_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("TOKEN_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := config.LoadClient(); err == nil {
		t.Fatal("expected validation error without DATABASE_URL")
	}
}

func TestLoadClient_Timeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "15s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadClient()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.SlogLevel())
	}
}

func TestLoadServer_ShortSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	if _, err := config.LoadServer(); err == nil {
		t.Fatal("expected error for short JWT_SECRET")
	}
}

func TestLoadServer_ProductionNeedsResend(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "a-production-secret-of-32-chars!!")
	t.Setenv("RESEND_API_KEY", "")

	if _, err := config.LoadServer(); err == nil {
		t.Fatal("expected error without RESEND_API_KEY in production")
	}
}

func TestLoadServer_Local(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("JWT_SECRET", "a-local-dev-secret-of-32-chars!!!")

	cfg, err := config.LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
}
