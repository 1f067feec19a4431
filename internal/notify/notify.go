// Package notify delivers reminder notifications through pluggable channels.
package notify

import (
	"context"

	"cli-utils/internal/config"
)

// Urgency is a delivery hint understood by desktop notification daemons.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Action is the outcome of one delivery attempt.
type Action string

const (
	ActionDelivered Action = "delivered"
	ActionDismissed Action = "dismissed"
	ActionExpired   Action = "expired"
	ActionError     Action = "error"
)

// Notification is a request to notify the user about a reminder.
type Notification struct {
	Title      string
	Message    string
	TaskID     uint
	ReminderID uint
	Urgency    Urgency
}

// Result describes what happened to a notification. Failures are reported
// here, never as a returned error.
type Result struct {
	Action         Action
	NotificationID string
	Err            error
}

// Success reports whether the user was notified.
func (r Result) Success() bool {
	return r.Action == ActionDelivered || r.Action == ActionDismissed
}

func failed(err error) Result {
	return Result{Action: ActionError, Err: err}
}

// Dispatcher is a notification channel.
type Dispatcher interface {
	Name() string
	Description() string
	IsAvailable() bool
	Send(ctx context.Context, n Notification) Result
}

// Available keeps the dispatchers that can currently deliver, in order.
func Available(dispatchers ...Dispatcher) []Dispatcher {
	out := make([]Dispatcher, 0, len(dispatchers))
	for _, d := range dispatchers {
		if d != nil && d.IsAvailable() {
			out = append(out, d)
		}
	}
	return out
}

// FromConfig returns the default dispatchers in priority order: desktop
// first, then Telegram when it is configured.
func FromConfig(cfg config.Config) []Dispatcher {
	dispatchers := []Dispatcher{NewDesktop(cfg.AppName, cfg.NotifyTimeout)}
	if cfg.Telegram.Enabled() {
		dispatchers = append(dispatchers, NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.NotifyTimeout))
	}
	return dispatchers
}
