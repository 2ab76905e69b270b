package config

import "time"

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Telegram TelegramConfig `koanf:"telegram"`
	Media    MediaConfig    `koanf:"media"`
	Storage  StorageConfig  `koanf:"storage"`
	Database DatabaseConfig `koanf:"database"`
	Tokens   TokensConfig   `koanf:"tokens"`
	Admin    AdminConfig    `koanf:"admin"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TelegramConfig struct {
	Token       string `koanf:"token"`
	PollTimeout int    `koanf:"poll_timeout"`
}

type MediaConfig struct {
	// MaxDuration is the inclusive ceiling on accepted YouTube videos.
	MaxDuration     time.Duration `koanf:"max_duration"`
	MetadataTimeout time.Duration `koanf:"metadata_timeout"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`
	MaxParallel     int           `koanf:"max_parallel"`
	FFmpegPath      string        `koanf:"ffmpeg_path"`
}

type StorageConfig struct {
	Workdir string `koanf:"workdir"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type TokensConfig struct {
	TTL           time.Duration `koanf:"ttl"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// AdminConfig controls the optional HTTP API serving job history and the
// live progress stream.
type AdminConfig struct {
	Enabled        bool      `koanf:"enabled"`
	Host           string    `koanf:"host"`
	Port           int       `koanf:"port"`
	AllowedOrigins []string  `koanf:"allowed_origins"`
	TLS            TLSConfig `koanf:"tls"`
}

type TLSConfig struct {
	Mode     string        `koanf:"mode"` // off, manual, or auto
	CertFile string        `koanf:"cert_file"`
	KeyFile  string        `koanf:"key_file"`
	Auto     AutoTLSConfig `koanf:"auto"`
}

type AutoTLSConfig struct {
	Domain   string `koanf:"domain"`
	Email    string `koanf:"email"`
	CacheDir string `koanf:"cache_dir"`
}

func Defaults() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telegram: TelegramConfig{
			PollTimeout: 60,
		},
		Media: MediaConfig{
			MaxDuration:     5 * time.Minute,
			MetadataTimeout: 30 * time.Second,
			FetchTimeout:    10 * time.Minute,
			MaxParallel:     2,
		},
		Storage: StorageConfig{
			Workdir: "./data/downloads",
		},
		Database: DatabaseConfig{
			Path: "./data/vidsnap.db",
		},
		Tokens: TokensConfig{
			TTL:           30 * time.Minute,
			SweepInterval: 10 * time.Minute,
		},
		Admin: AdminConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8080,
			TLS: TLSConfig{
				Mode: "off",
			},
		},
	}
}
