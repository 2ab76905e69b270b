// Package app wires configuration, storage, media clients, the Telegram
// bot, and the optional admin API into one runnable unit.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vidsnap/bot/internal/artifact"
	"github.com/vidsnap/bot/internal/bot"
	"github.com/vidsnap/bot/internal/config"
	"github.com/vidsnap/bot/internal/database"
	"github.com/vidsnap/bot/internal/ffmpeg"
	"github.com/vidsnap/bot/internal/history"
	"github.com/vidsnap/bot/internal/instagram"
	"github.com/vidsnap/bot/internal/media"
	"github.com/vidsnap/bot/internal/orchestrator"
	"github.com/vidsnap/bot/internal/progress"
	"github.com/vidsnap/bot/internal/server"
	"github.com/vidsnap/bot/internal/token"
	"github.com/vidsnap/bot/internal/youtube"
)

type App struct {
	Config   *config.Config
	DB       *database.DB
	Bot      *bot.Bot
	Server   *server.Server // nil when the admin API is disabled
	Registry *token.Registry
	Hub      *progress.Hub
}

func New(cfg *config.Config) (*App, error) {
	// Open database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Initialize download working directory
	workdir, err := artifact.NewWorkdir(cfg.Storage.Workdir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating working directory: %w", err)
	}

	// Initialize the audio extractor. Instagram audio requests fail at
	// download time if ffmpeg is missing, everything else still works.
	extractor := ffmpeg.NewExtractor(cfg.Media.FFmpegPath)
	if !extractor.Available() {
		slog.Warn("ffmpeg not found, Instagram audio extraction will fail", "path", extractor.Path)
	}

	registry := token.NewRegistry(cfg.Tokens.TTL)
	hub := progress.NewHub()
	jobs := history.NewRepository(db.DB)

	// Connect to Telegram
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to Telegram: %w", err)
	}

	orch := orchestrator.New(
		orchestrator.Config{
			DurationCeiling: cfg.Media.MaxDuration,
			MetadataTimeout: cfg.Media.MetadataTimeout,
			FetchTimeout:    cfg.Media.FetchTimeout,
			MaxParallel:     cfg.Media.MaxParallel,
		},
		orchestrator.Dependencies{
			Registry: registry,
			Notifier: bot.NewNotifier(api),
			Workdir:  workdir,
			History:  jobs,
			Hub:      hub,
			Metadata: map[media.Platform]media.MetadataClient{
				media.PlatformYouTube:   youtube.NewMetadataClient(),
				media.PlatformInstagram: instagram.NewMetadataClient(http.DefaultClient),
			},
			Fetchers: map[media.Platform]media.FetchClient{
				media.PlatformYouTube:   youtube.NewFetchClient(),
				media.PlatformInstagram: instagram.NewFetchClient(extractor),
			},
			Logger: slog.Default(),
		},
	)

	a := &App{
		Config:   cfg,
		DB:       db,
		Bot:      bot.New(api, orch, cfg.Telegram.PollTimeout, slog.Default()),
		Registry: registry,
		Hub:      hub,
	}

	if cfg.Admin.Enabled {
		router := server.NewRouter(jobs, progress.NewHandler(hub), cfg.Admin.AllowedOrigins)
		tlsOpts := server.TLSOptions{
			Mode:     cfg.Admin.TLS.Mode,
			CertFile: cfg.Admin.TLS.CertFile,
			KeyFile:  cfg.Admin.TLS.KeyFile,
			Domain:   cfg.Admin.TLS.Auto.Domain,
			Email:    cfg.Admin.TLS.Auto.Email,
			CacheDir: cfg.Admin.TLS.Auto.CacheDir,
		}
		if tlsOpts.Mode == "auto" {
			if err := os.MkdirAll(tlsOpts.CacheDir, 0700); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("creating TLS cache directory: %w", err)
			}
		}
		a.Server = server.New(cfg.Admin.Host, cfg.Admin.Port, router, tlsOpts, slog.Default())
	}

	return a, nil
}

// Start runs the bot until ctx is canceled. The token sweeper and the
// admin server run alongside the poll loop.
func (a *App) Start(ctx context.Context) error {
	go a.sweepTokens(ctx)

	if a.Server != nil {
		go func() {
			if err := a.Server.Start(); err != nil && err != http.ErrServerClosed {
				slog.Error("admin server", "error", err)
			}
		}()
	}

	slog.Info("starting vidsnap bot",
		"database", a.Config.Database.Path,
		"workdir", a.Config.Storage.Workdir,
		"max_parallel", a.Config.Media.MaxParallel,
		"admin", a.Config.Admin.Enabled,
	)

	return a.Bot.Run(ctx)
}

func (a *App) sweepTokens(ctx context.Context) {
	ticker := time.NewTicker(a.Config.Tokens.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Registry.Sweep(time.Now())
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			return err
		}
	}
	return a.DB.Close()
}
