package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	t.Setenv("VIDSNAP_TELEGRAM_TOKEN", "test-token")

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Media.MaxDuration != 5*time.Minute {
		t.Fatalf("expected default max_duration 5m, got %v", cfg.Media.MaxDuration)
	}
	if cfg.Tokens.TTL != 30*time.Minute {
		t.Fatalf("expected default token ttl 30m, got %v", cfg.Tokens.TTL)
	}
	if cfg.Admin.TLS.Mode != "off" {
		t.Fatalf("expected default tls mode 'off', got %q", cfg.Admin.TLS.Mode)
	}
	if cfg.Admin.Enabled {
		t.Fatal("expected admin API to be disabled by default")
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
telegram:
  token: yaml-token
media:
  max_duration: 10m
  max_parallel: 4
tokens:
  ttl: 1h
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Telegram.Token != "yaml-token" {
		t.Fatalf("expected token 'yaml-token', got %q", cfg.Telegram.Token)
	}
	if cfg.Media.MaxDuration != 10*time.Minute {
		t.Fatalf("expected max_duration 10m, got %v", cfg.Media.MaxDuration)
	}
	if cfg.Media.MaxParallel != 4 {
		t.Fatalf("expected max_parallel 4, got %d", cfg.Media.MaxParallel)
	}
	if cfg.Tokens.TTL != time.Hour {
		t.Fatalf("expected token ttl 1h, got %v", cfg.Tokens.TTL)
	}
	// metadata_timeout should keep its default since YAML didn't set it
	if cfg.Media.MetadataTimeout != 30*time.Second {
		t.Fatalf("expected default metadata_timeout 30s, got %v", cfg.Media.MetadataTimeout)
	}
}

func TestLoad_EnvSimpleKey(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	t.Setenv("VIDSNAP_TELEGRAM_TOKEN", "env-token")

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("expected token 'env-token', got %q", cfg.Telegram.Token)
	}
}

func TestLoad_EnvUnderscoreInLeafKey(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	t.Setenv("VIDSNAP_TELEGRAM_TOKEN", "test-token")
	t.Setenv("VIDSNAP_MEDIA_MAX_PARALLEL", "3")

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Media.MaxParallel != 3 {
		t.Fatalf("expected max_parallel 3, got %d", cfg.Media.MaxParallel)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
telegram:
  token: yaml-token
database:
  path: /from/yaml.db
`
	if err := os.WriteFile(cfgPath, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("VIDSNAP_DATABASE_PATH", "/from/env.db")

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Path != "/from/env.db" {
		t.Fatalf("expected env override path '/from/env.db', got %q", cfg.Database.Path)
	}
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	flags := SetupFlags()
	if err := flags.Parse([]string{
		"--media.fetch_timeout=2m",
		"--storage.workdir=/tmp/flag-workdir",
	}); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	t.Setenv("VIDSNAP_TELEGRAM_TOKEN", "test-token")
	t.Setenv("VIDSNAP_STORAGE_WORKDIR", "/tmp/env-workdir")

	cfg, err := Load(cfgPath, flags)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Media.FetchTimeout != 2*time.Minute {
		t.Fatalf("expected fetch_timeout 2m, got %v", cfg.Media.FetchTimeout)
	}
	if cfg.Storage.Workdir != "/tmp/flag-workdir" {
		t.Fatalf("expected flag override workdir '/tmp/flag-workdir', got %q", cfg.Storage.Workdir)
	}
}

func TestLoad_TLSFromYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
telegram:
  token: test-token
admin:
  enabled: true
  tls:
    mode: auto
    auto:
      domain: bot.example.com
      email: admin@example.com
      cache_dir: /var/lib/vidsnap/certs
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Admin.TLS.Mode != "auto" {
		t.Fatalf("expected mode 'auto', got %q", cfg.Admin.TLS.Mode)
	}
	if cfg.Admin.TLS.Auto.Domain != "bot.example.com" {
		t.Fatalf("expected domain 'bot.example.com', got %q", cfg.Admin.TLS.Auto.Domain)
	}
	if cfg.Admin.TLS.Auto.CacheDir != "/var/lib/vidsnap/certs" {
		t.Fatalf("expected cache_dir '/var/lib/vidsnap/certs', got %q", cfg.Admin.TLS.Auto.CacheDir)
	}
}

func TestLoad_MissingTokenFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nonexistent.yaml")

	if _, err := Load(cfgPath, nil); err == nil {
		t.Fatal("expected Load to fail without a telegram token")
	}
}
