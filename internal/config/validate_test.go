package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := Defaults()
	cfg.Telegram.Token = "test-token"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("defaults with a token should be valid: %v", err)
	}
}

func TestValidate_MissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for missing telegram token")
	}
	if !strings.Contains(err.Error(), "telegram.token") {
		t.Fatalf("expected error about telegram.token, got: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "log.level") {
		t.Fatalf("expected error about log.level, got: %v", err)
	}
}

func TestValidate_MediaBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Media.MaxDuration = 500 * time.Millisecond
	cfg.Media.MaxParallel = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "media.max_duration") {
		t.Fatalf("expected max_duration error, got: %v", err)
	}
	if !strings.Contains(msg, "media.max_parallel") {
		t.Fatalf("expected max_parallel error, got: %v", err)
	}
}

func TestValidate_TokenBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Tokens.TTL = 30 * time.Second
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for sub-minute token ttl")
	}
	if !strings.Contains(err.Error(), "tokens.ttl") {
		t.Fatalf("expected error about tokens.ttl, got: %v", err)
	}
}

func TestValidate_AdminDisabledSkipsChecks(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Enabled = false
	cfg.Admin.Port = 0              // invalid, but should not matter when disabled
	cfg.Admin.TLS.Mode = "bogus"    // invalid, but should not matter when disabled
	if err := Validate(cfg); err != nil {
		t.Fatalf("disabled admin API should skip validation: %v", err)
	}
}

func TestValidate_AllowedOrigins_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Enabled = true
	cfg.Admin.AllowedOrigins = []string{"http://localhost:3000", "https://app.example.com"}
	if err := Validate(cfg); err != nil {
		t.Fatalf("valid origins should pass: %v", err)
	}
}

func TestValidate_AllowedOrigins_NoScheme(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Enabled = true
	cfg.Admin.AllowedOrigins = []string{"localhost:3000"}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for origin without scheme")
	}
	if !strings.Contains(err.Error(), "allowed_origins") {
		t.Fatalf("expected error about allowed_origins, got: %v", err)
	}
}

func TestValidate_TLSAutoValid(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Enabled = true
	cfg.Admin.TLS.Mode = "auto"
	cfg.Admin.TLS.Auto.Domain = "example.com"
	cfg.Admin.TLS.Auto.CacheDir = "./data/certs"
	if err := Validate(cfg); err != nil {
		t.Fatalf("TLS auto with domain+cache should pass: %v", err)
	}
}

func TestValidate_TLSAutoMissingDomain(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Enabled = true
	cfg.Admin.TLS.Mode = "auto"
	cfg.Admin.TLS.Auto.CacheDir = "./data/certs"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for auto mode without domain")
	}
	if !strings.Contains(err.Error(), "auto.domain") {
		t.Fatalf("expected error about auto.domain, got: %v", err)
	}
}

func TestValidate_TLSManualMissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Enabled = true
	cfg.Admin.TLS.Mode = "manual"
	cfg.Admin.TLS.CertFile = "/path/to/cert.pem"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for manual mode without key_file")
	}
	if !strings.Contains(err.Error(), "key_file") {
		t.Fatalf("expected error about key_file, got: %v", err)
	}
}

func TestValidate_TLSInvalidMode(t *testing.T) {
	cfg := validConfig()
	cfg.Admin.Enabled = true
	cfg.Admin.TLS.Mode = "invalid"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for invalid TLS mode")
	}
	if !strings.Contains(err.Error(), "tls.mode") {
		t.Fatalf("expected error about tls.mode, got: %v", err)
	}
}
