// Package notification turns portal events into outbound email. It only
// ever consumes the event bus; nothing calls it directly.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wicaksana/internal-portal/internal/core/events"
	"github.com/wicaksana/internal-portal/pkg/mailer"
)

// UserLookup resolves user ids carried in event payloads to an address.
type UserLookup interface {
	EmailForUser(ctx context.Context, userID int64) (email, name string, err error)
}

type Notifier struct {
	sender mailer.Sender
	users  UserLookup
	logger *slog.Logger
}

func NewNotifier(sender mailer.Sender, users UserLookup, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		users:  users,
		logger: logger,
	}
}

// Register subscribes the notifier to every event it knows how to handle.
func (n *Notifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeUserCreated, n.handleUserCreated)
	bus.Subscribe(events.EventTypeConfidentialAccessGranted, n.handleConfidentialAccessGranted)
}

func (n *Notifier) handleUserCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	email, _ := payload["email"].(string)
	name, _ := payload["name"].(string)
	if email == "" {
		return fmt.Errorf("user created event %s has no email", event.EventID())
	}

	return n.sender.Send(ctx, mailer.SendParams{
		To:      email,
		Subject: "Your portal account is ready",
		BodyHTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your account has been created. Sign in with your username to get started.</p>",
			name),
		Tag: "welcome",
	})
}

func (n *Notifier) handleConfidentialAccessGranted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.EventType())
	}

	userID, ok := asInt64(payload["user_id"])
	if !ok {
		return fmt.Errorf("confidential access event %s has no user_id", event.EventID())
	}

	email, name, err := n.users.EmailForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve user %d: %w", userID, err)
	}

	return n.sender.Send(ctx, mailer.SendParams{
		To:      email,
		Subject: "You have been granted access to a confidential document",
		BodyHTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>You now have access to a confidential document in the portal. It will appear in your document list.</p>",
			name),
		Tag: "confidential-access",
	})
}

// asInt64 tolerates the numeric types a payload value may arrive as after
// construction or JSON round-tripping.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
