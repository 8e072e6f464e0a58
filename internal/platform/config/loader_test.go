package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"blog-server-go/internal/platform/errors"
)

func TestLoad_RequiresTokenSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	_, err := NewLoader("").WithDotEnv(false).Load()
	if err == nil {
		t.Fatal("expected load to fail without TOKEN_SECRET")
	}
	if !errors.IsKind(err, errors.KindConfig) {
		t.Errorf("expected config kind error, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("DATABASE_DSN", "")

	cfg, err := NewLoader("").WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, expected 8080", cfg.Server.Port)
	}
	if cfg.Auth.AccessTTL != 15*time.Minute {
		t.Errorf("access ttl = %v, expected 15m", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.RefreshTTL != 7*24*time.Hour {
		t.Errorf("refresh ttl = %v, expected 168h", cfg.Auth.RefreshTTL)
	}
	if cfg.RateLimit.Auth.Limit != 10 {
		t.Errorf("auth rate limit = %d, expected 10", cfg.RateLimit.Auth.Limit)
	}
	if cfg.Auth.CookieName != "jwt" {
		t.Errorf("cookie name = %q, expected jwt", cfg.Auth.CookieName)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")
	t.Setenv("PORT", "9000")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("server:\n  port: 8888\nauth:\n  bcrypt_cost: 12\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(path).WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	// Environment wins over the file.
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, expected env override 9000", cfg.Server.Port)
	}
	if cfg.Auth.BcryptCost != 12 {
		t.Errorf("bcrypt cost = %d, expected file value 12", cfg.Auth.BcryptCost)
	}
}

func TestLoad_RedisDriverNeedsAddr(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("rate_limit:\n  driver: redis\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(path).WithDotEnv(false).Load()
	if err == nil {
		t.Fatal("expected load to fail for redis driver without addr")
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "test-secret")

	cfg, err := NewLoader("does-not-exist.yaml").WithDotEnv(false).Load()
	if err != nil {
		t.Fatalf("missing config file should not fail load: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config")
	}
}
