package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
recognition:
  collection_id: faces
database:
  host: localhost
  user: app
  password: secret
  name: facepipe
nats:
  url: nats://localhost:4222
minio:
  endpoint: localhost:9000
  access_key: minio
  secret_key: minio123
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("default db port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Database.Table != "uploads" {
		t.Errorf("default table = %q, want uploads", cfg.Database.Table)
	}
	if cfg.Notify.Timeout != 3*time.Second {
		t.Errorf("default notify timeout = %v, want 3s", cfg.Notify.Timeout)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("default logging = %q/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FP_COLLECTION_ID", "env-collection")
	t.Setenv("FP_TABLE_NAME", "env_uploads")
	t.Setenv("FP_NOTIFY_URL", "http://notify.local/hook")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Recognition.CollectionID != "env-collection" {
		t.Errorf("collection = %q", cfg.Recognition.CollectionID)
	}
	if cfg.Database.Table != "env_uploads" {
		t.Errorf("table = %q", cfg.Database.Table)
	}
	if cfg.Notify.URL != "http://notify.local/hook" {
		t.Errorf("notify url = %q", cfg.Notify.URL)
	}
}

func TestValidate_MissingCollection(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
database:
  secret_arn: arn:aws:secretsmanager:eu-west-1:123:secret:db
nats:
  url: nats://localhost:4222
minio:
  endpoint: localhost:9000
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	err = cfg.Validate()
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Setting != "recognition.collection_id" {
		t.Errorf("setting = %q", cfgErr.Setting)
	}
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
recognition:
  collection_id: faces
database:
  host: localhost
  user: app
nats:
  url: nats://localhost:4222
minio:
  endpoint: localhost:9000
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var cfgErr *ConfigurationError
	if !errors.As(cfg.Validate(), &cfgErr) {
		t.Fatal("expected ConfigurationError for incomplete credentials")
	}
}

func TestValidate_SecretSchemeSuffices(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
recognition:
  collection_id: faces
database:
  secret_arn: arn:aws:secretsmanager:eu-west-1:123:secret:db
nats:
  url: nats://localhost:4222
minio:
  endpoint: localhost:9000
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
