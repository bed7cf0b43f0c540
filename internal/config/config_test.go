package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, expected %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Driver = %q, expected %q", cfg.Database.Driver, "sqlite")
	}
	if cfg.Server.CommandTimeoutSec != 10 {
		t.Errorf("CommandTimeoutSec = %d, expected 10", cfg.Server.CommandTimeoutSec)
	}
	if cfg.Log.RetentionDays != 30 {
		t.Errorf("RetentionDays = %d, expected 30", cfg.Log.RetentionDays)
	}
}

func TestLoad_MissingFileWritesStarterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if _, err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected a starter config at %s: %v", path, err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of starter file error = %v", err)
	}
	if reloaded.Server.Port != "8080" {
		t.Errorf("Port = %q, expected default 8080", reloaded.Server.Port)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  host: 127.0.0.1
  port: "9000"
  mode: release
  command_timeout_sec: 3
database:
  driver: postgres
  dsn: host=localhost user=dev dbname=devsprint
jwt:
  secret: file-secret
  expire_hour: 12
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Server.CommandTimeoutSec != 3 {
		t.Errorf("CommandTimeoutSec = %d, expected 3", cfg.Server.CommandTimeoutSec)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Errorf("Secret = %q", cfg.JWT.Secret)
	}
	if cfg.JWT.ExpireHour != 12 {
		t.Errorf("ExpireHour = %d", cfg.JWT.ExpireHour)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("COMMAND_TIMEOUT_SEC", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, expected env override 7070", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("Driver = %q, expected env override mysql", cfg.Database.Driver)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("Secret = %q, expected env override", cfg.JWT.Secret)
	}
	if cfg.Server.CommandTimeoutSec != 5 {
		t.Errorf("CommandTimeoutSec = %d, expected 5", cfg.Server.CommandTimeoutSec)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.Port = "8888"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != "8888" {
		t.Errorf("Port = %q, expected 8888", loaded.Server.Port)
	}
}
