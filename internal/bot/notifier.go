package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vidsnap/bot/internal/orchestrator"
	"github.com/vidsnap/bot/internal/token"
)

// Notifier delivers orchestrator output through the Telegram Bot API.
// Scopes are decimal chat IDs and message refs are Telegram message IDs.
type Notifier struct {
	api *tgbotapi.BotAPI
}

func NewNotifier(api *tgbotapi.BotAPI) *Notifier {
	return &Notifier{api: api}
}

func (n *Notifier) Reply(_ context.Context, scope token.Scope, text string) error {
	chat, err := chatID(scope)
	if err != nil {
		return err
	}
	_, err = n.api.Send(tgbotapi.NewMessage(chat, text))
	return err
}

func (n *Notifier) OfferChoices(_ context.Context, scope token.Scope, text string, choices []orchestrator.Choice) error {
	chat, err := chatID(scope)
	if err != nil {
		return err
	}
	markup, err := keyboard(choices)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chat, text)
	msg.ReplyMarkup = markup
	_, err = n.api.Send(msg)
	return err
}

func (n *Notifier) EditChoices(_ context.Context, scope token.Scope, ref orchestrator.MessageRef, text string, choices []orchestrator.Choice) error {
	chat, err := chatID(scope)
	if err != nil {
		return err
	}
	markup, err := keyboard(choices)
	if err != nil {
		return err
	}
	_, err = n.api.Send(tgbotapi.NewEditMessageTextAndMarkup(chat, int(ref), text, markup))
	return err
}

func (n *Notifier) SendStatus(_ context.Context, scope token.Scope, text string) (orchestrator.MessageRef, error) {
	chat, err := chatID(scope)
	if err != nil {
		return 0, err
	}
	sent, err := n.api.Send(tgbotapi.NewMessage(chat, text))
	if err != nil {
		return 0, err
	}
	return orchestrator.MessageRef(sent.MessageID), nil
}

func (n *Notifier) RemoveMessage(_ context.Context, scope token.Scope, ref orchestrator.MessageRef) error {
	chat, err := chatID(scope)
	if err != nil {
		return err
	}
	_, err = n.api.Request(tgbotapi.NewDeleteMessage(chat, int(ref)))
	return err
}

func (n *Notifier) SendDocument(_ context.Context, scope token.Scope, path string) error {
	chat, err := chatID(scope)
	if err != nil {
		return err
	}
	_, err = n.api.Send(tgbotapi.NewDocument(chat, tgbotapi.FilePath(path)))
	return err
}

func keyboard(choices []orchestrator.Choice) (tgbotapi.InlineKeyboardMarkup, error) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		data, err := EncodeAction(c.Action)
		if err != nil {
			return tgbotapi.InlineKeyboardMarkup{}, fmt.Errorf("encoding %q button: %w", c.Label, err)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(c.Label, data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), nil
}

func chatID(scope token.Scope) (int64, error) {
	id, err := strconv.ParseInt(string(scope), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("scope %q is not a chat ID: %w", scope, err)
	}
	return id, nil
}
