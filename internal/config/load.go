package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(defaultsProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load from config file if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
		}
	} else {
		// Try default config paths
		for _, path := range []string{"config.yaml", "config.yml"} {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
					return nil, fmt.Errorf("loading config file: %w", err)
				}
				break
			}
		}
	}

	// 3. Load from environment variables (VIDSNAP_ prefix)
	if err := k.Load(env.Provider("VIDSNAP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "VIDSNAP_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// 4. Load from CLI flags
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	// 5. Unmarshal into struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
	}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// 6. Validate
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

type defaultsProviderStruct struct {
	defaults *Config
}

func defaultsProvider(defaults *Config) *defaultsProviderStruct {
	return &defaultsProviderStruct{defaults: defaults}
}

func (d *defaultsProviderStruct) ReadBytes() ([]byte, error) {
	return nil, nil
}

func (d *defaultsProviderStruct) Read() (map[string]interface{}, error) {
	return map[string]interface{}{
		"log": map[string]interface{}{
			"level":  d.defaults.Log.Level,
			"format": d.defaults.Log.Format,
		},
		"telegram": map[string]interface{}{
			"token":        d.defaults.Telegram.Token,
			"poll_timeout": d.defaults.Telegram.PollTimeout,
		},
		"media": map[string]interface{}{
			"max_duration":     d.defaults.Media.MaxDuration.String(),
			"metadata_timeout": d.defaults.Media.MetadataTimeout.String(),
			"fetch_timeout":    d.defaults.Media.FetchTimeout.String(),
			"max_parallel":     d.defaults.Media.MaxParallel,
			"ffmpeg_path":      d.defaults.Media.FFmpegPath,
		},
		"storage": map[string]interface{}{
			"workdir": d.defaults.Storage.Workdir,
		},
		"database": map[string]interface{}{
			"path": d.defaults.Database.Path,
		},
		"tokens": map[string]interface{}{
			"ttl":            d.defaults.Tokens.TTL.String(),
			"sweep_interval": d.defaults.Tokens.SweepInterval.String(),
		},
		"admin": map[string]interface{}{
			"enabled":         d.defaults.Admin.Enabled,
			"host":            d.defaults.Admin.Host,
			"port":            d.defaults.Admin.Port,
			"allowed_origins": d.defaults.Admin.AllowedOrigins,
			"tls": map[string]interface{}{
				"mode":      d.defaults.Admin.TLS.Mode,
				"cert_file": d.defaults.Admin.TLS.CertFile,
				"key_file":  d.defaults.Admin.TLS.KeyFile,
				"auto": map[string]interface{}{
					"domain":    d.defaults.Admin.TLS.Auto.Domain,
					"email":     d.defaults.Admin.TLS.Auto.Email,
					"cache_dir": d.defaults.Admin.TLS.Auto.CacheDir,
				},
			},
		},
	}, nil
}

func SetupFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("vidsnap", pflag.ContinueOnError)
	flags.String("config", "", "Path to config file")
	flags.String("log.level", "", "Log level: debug, info, warn, or error")
	flags.String("log.format", "", "Log format: text or json")
	flags.String("telegram.token", "", "Telegram bot API token")
	flags.Int("telegram.poll_timeout", 0, "Long-poll timeout in seconds")
	flags.Duration("media.max_duration", 0, "Longest accepted YouTube video")
	flags.Duration("media.metadata_timeout", 0, "Metadata fetch timeout")
	flags.Duration("media.fetch_timeout", 0, "Media download timeout")
	flags.Int("media.max_parallel", 0, "Concurrent download limit")
	flags.String("media.ffmpeg_path", "", "Path to the ffmpeg binary")
	flags.String("storage.workdir", "", "Download working directory")
	flags.String("database.path", "", "Database path")
	flags.Duration("tokens.ttl", 0, "Selection token lifetime")
	flags.Duration("tokens.sweep_interval", 0, "Expired token sweep interval")
	flags.Bool("admin.enabled", false, "Enable the admin HTTP API")
	flags.String("admin.host", "", "Admin API host")
	flags.Int("admin.port", 0, "Admin API port")
	flags.StringSlice("admin.allowed_origins", nil, "Allowed CORS origins")
	flags.String("admin.tls.mode", "", "TLS mode: off, auto, or manual")
	flags.String("admin.tls.cert_file", "", "TLS certificate file (manual mode)")
	flags.String("admin.tls.key_file", "", "TLS key file (manual mode)")
	flags.String("admin.tls.auto.domain", "", "Domain for automatic TLS (auto mode)")
	flags.String("admin.tls.auto.email", "", "Contact email for Let's Encrypt (auto mode)")
	flags.String("admin.tls.auto.cache_dir", "", "Certificate cache directory (auto mode)")
	return flags
}
