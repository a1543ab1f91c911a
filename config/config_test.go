package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("AUTHKIT_TOKEN_SECRET", testSecret)

	cfg, err := Load(WithConfigFile(""), WithEnvFile(""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "authkit" {
		t.Errorf("service name = %q", cfg.ServiceName)
	}
	if cfg.Token.Secret != testSecret {
		t.Error("token secret should come from the environment")
	}
	if cfg.Token.AccessTokenTTL != time.Hour {
		t.Errorf("access ttl = %s, want default 1h", cfg.Token.AccessTokenTTL)
	}
	if len(cfg.RateLimit) == 0 {
		t.Error("default rate limit policies should be present")
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("AUTHKIT_TOKEN_SECRET", "too short")

	if _, err := Load(WithConfigFile(""), WithEnvFile("")); err == nil {
		t.Fatal("short secret must fail validation")
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := `
service_name: idp
database_dsn: postgres://localhost/idp
logger:
  level: debug
token:
  secret: ` + testSecret + `
  issuer: idp
  access_token_ttl: 30m
engine:
  reset_token_ttl: 2h
rate_limit:
  - name: login
    window: 10m
    max: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(WithConfigFile(path), WithEnvFile(""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceName != "idp" {
		t.Errorf("service name = %q", cfg.ServiceName)
	}
	if cfg.Token.AccessTokenTTL != 30*time.Minute {
		t.Errorf("access ttl = %s", cfg.Token.AccessTokenTTL)
	}
	if cfg.Engine.ResetTokenTTL != 2*time.Hour {
		t.Errorf("reset ttl = %s", cfg.Engine.ResetTokenTTL)
	}
	if len(cfg.RateLimit) != 1 || cfg.RateLimit[0].Max != 3 {
		t.Errorf("rate limit = %+v", cfg.RateLimit)
	}

	// Environment still wins over the file.
	t.Setenv("AUTHKIT_SERVICE_NAME", "overridden")
	cfg, err = Load(WithConfigFile(path), WithEnvFile(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServiceName != "overridden" {
		t.Errorf("service name = %q, env should win", cfg.ServiceName)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("AUTHKIT_TOKEN_SECRET="+testSecret+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("AUTHKIT_TOKEN_SECRET") })

	cfg, err := Load(WithConfigFile(""), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token.Secret != testSecret {
		t.Error("secret should come from the .env file")
	}
}
