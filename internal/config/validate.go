package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

func Validate(cfg *Config) error {
	var errs []error

	// Log validation
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be debug, info, warn, or error"))
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json"))
	}

	// Telegram validation
	if cfg.Telegram.Token == "" {
		errs = append(errs, fmt.Errorf("telegram.token is required"))
	}
	if cfg.Telegram.PollTimeout < 1 {
		errs = append(errs, fmt.Errorf("telegram.poll_timeout must be at least 1 second"))
	}

	// Media validation
	if cfg.Media.MaxDuration < time.Second {
		errs = append(errs, fmt.Errorf("media.max_duration must be at least 1s"))
	}
	if cfg.Media.MetadataTimeout < time.Second {
		errs = append(errs, fmt.Errorf("media.metadata_timeout must be at least 1s"))
	}
	if cfg.Media.FetchTimeout < time.Second {
		errs = append(errs, fmt.Errorf("media.fetch_timeout must be at least 1s"))
	}
	if cfg.Media.MaxParallel < 1 {
		errs = append(errs, fmt.Errorf("media.max_parallel must be at least 1"))
	}

	// Storage validation
	if cfg.Storage.Workdir == "" {
		errs = append(errs, fmt.Errorf("storage.workdir is required"))
	}

	// Database validation
	if cfg.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}

	// Token validation
	if cfg.Tokens.TTL < time.Minute {
		errs = append(errs, fmt.Errorf("tokens.ttl must be at least 1m"))
	}
	if cfg.Tokens.SweepInterval < time.Minute {
		errs = append(errs, fmt.Errorf("tokens.sweep_interval must be at least 1m"))
	}

	// Admin API validation (only when enabled)
	if cfg.Admin.Enabled {
		if cfg.Admin.Port < 1 || cfg.Admin.Port > 65535 {
			errs = append(errs, fmt.Errorf("admin.port must be between 1 and 65535"))
		}
		for i, origin := range cfg.Admin.AllowedOrigins {
			u, err := url.Parse(origin)
			if err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, fmt.Errorf("admin.allowed_origins[%d] %q is not a valid URL with scheme", i, origin))
			}
		}
		switch cfg.Admin.TLS.Mode {
		case "", "off":
			// no additional validation needed
		case "auto":
			if cfg.Admin.TLS.Auto.Domain == "" {
				errs = append(errs, fmt.Errorf("admin.tls.auto.domain is required when tls mode is auto"))
			}
			if cfg.Admin.TLS.Auto.CacheDir == "" {
				errs = append(errs, fmt.Errorf("admin.tls.auto.cache_dir is required when tls mode is auto"))
			}
		case "manual":
			if cfg.Admin.TLS.CertFile == "" {
				errs = append(errs, fmt.Errorf("admin.tls.cert_file is required when tls mode is manual"))
			}
			if cfg.Admin.TLS.KeyFile == "" {
				errs = append(errs, fmt.Errorf("admin.tls.key_file is required when tls mode is manual"))
			}
		default:
			errs = append(errs, fmt.Errorf("admin.tls.mode must be off, auto, or manual"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
