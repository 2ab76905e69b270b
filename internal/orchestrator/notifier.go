package orchestrator

import (
	"context"

	"github.com/vidsnap/bot/internal/token"
)

// MessageRef identifies a previously sent transport message so it can be
// edited or deleted later.
type MessageRef int

// Choice is one button offered to the user.
type Choice struct {
	Label  string
	Action Action
}

// Notifier is the outbound half of the chat transport. Implementations
// must be safe for concurrent use across conversations.
type Notifier interface {
	// Reply sends a plain text message to the conversation.
	Reply(ctx context.Context, scope token.Scope, text string) error

	// OfferChoices sends a new message with inline choice buttons.
	OfferChoices(ctx context.Context, scope token.Scope, text string, choices []Choice) error

	// EditChoices replaces the text and buttons of an earlier message.
	EditChoices(ctx context.Context, scope token.Scope, ref MessageRef, text string, choices []Choice) error

	// SendStatus sends a placeholder message and returns its reference.
	SendStatus(ctx context.Context, scope token.Scope, text string) (MessageRef, error)

	// RemoveMessage deletes a previously sent message.
	RemoveMessage(ctx context.Context, scope token.Scope, ref MessageRef) error

	// SendDocument delivers the artifact at path as a document attachment.
	SendDocument(ctx context.Context, scope token.Scope, path string) error
}
