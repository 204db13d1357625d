package notify

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatcher turns a Message into a delivered email: gate check, template
// selection, single SMTP call. A disabled opt-out is a logged no-op — not
// retried, not queued for later.
type Dispatcher struct {
	settings SettingsLookup
	sender   Sender
}

// NewDispatcher returns a configured Dispatcher.
func NewDispatcher(settings SettingsLookup, sender Sender) *Dispatcher {
	return &Dispatcher{settings: settings, sender: sender}
}

// Dispatch processes one message end to end. An unmapped event type and any
// settings or transport failure propagate as errors.
func (d *Dispatcher) Dispatch(ctx context.Context, m Message) error {
	if category, gated := GateCategory(m.Type); gated {
		enabled, err := d.settings.Enabled(ctx, m.UserID, category)
		if err != nil {
			return fmt.Errorf("dispatch %s: %w", m.Type, err)
		}
		if !enabled {
			slog.Info("notification skipped, category disabled",
				"type", m.Type, "userId", m.UserID, "category", category)
			return nil
		}
	}

	subject, html, err := Render(m)
	if err != nil {
		return err
	}

	if err := d.sender.Send(m.Email, subject, html); err != nil {
		return fmt.Errorf("dispatch %s: %w", m.Type, err)
	}

	slog.Info("notification sent", "type", m.Type, "userId", m.UserID, "id", m.ID)
	return nil
}
