package notifications

import (
	"context"
	"log/slog"
)

// Event is what the real-time relay pushes to a connected client.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Relay delivers lifecycle events to interested parties. Delivery is
// fire-and-forget: implementations must not block the originating request,
// and failures are never retried.
type Relay interface {
	Publish(ctx context.Context, userID string, event Event)
}

// LogRelay is the default relay: it records the event and drops it. A socket
// gateway can be swapped in without touching the lifecycle controllers.
type LogRelay struct{}

func (LogRelay) Publish(_ context.Context, userID string, event Event) {
	slog.Debug("relay event", "user", userID, "type", event.Type)
}
