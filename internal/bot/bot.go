// Package bot adapts Telegram updates to orchestrator calls: inbound
// messages and button presses in, replies and documents out.
package bot

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vidsnap/bot/internal/orchestrator"
	"github.com/vidsnap/bot/internal/token"
)

const startMessage = "Send me a YouTube or Instagram link and I will fetch the video or audio for you."

type Bot struct {
	api         *tgbotapi.BotAPI
	orch        *orchestrator.Orchestrator
	log         *slog.Logger
	pollTimeout int
}

func New(api *tgbotapi.BotAPI, orch *orchestrator.Orchestrator, pollTimeout int, log *slog.Logger) *Bot {
	return &Bot{
		api:         api,
		orch:        orch,
		log:         log,
		pollTimeout: pollTimeout,
	}
}

// Run long-polls Telegram until ctx is canceled. Each update runs in its
// own goroutine so a slow download never stalls the poll loop.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("bot polling started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	scope := token.Scope(strconv.FormatInt(msg.Chat.ID, 10))

	if msg.IsCommand() {
		if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, startMessage)); err != nil {
			b.log.Error("replying to command", "scope", scope, "error", err)
		}
		return
	}

	b.orch.HandleText(ctx, scope, msg.Text)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Ack first so the button stops spinning even if handling fails.
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.log.Debug("acking callback", "error", err)
	}

	if cq.Message == nil {
		b.log.Warn("callback without a message", "callback", cq.ID)
		return
	}
	scope := token.Scope(strconv.FormatInt(cq.Message.Chat.ID, 10))

	act, err := DecodeAction(cq.Data)
	if err != nil {
		b.log.Warn("undecodable callback", "scope", scope, "error", err)
		return
	}

	b.orch.HandleAction(ctx, scope, orchestrator.MessageRef(cq.Message.MessageID), act)
}
