package model

import "time"

// Ledger statuses and the plugin name recorded when no dispatcher delivered.
const (
	NotificationSent  = "sent"
	NotificationError = "error"
	PluginNone        = "none"
)

// SentNotification is an append-only ledger row. A reminder with any row is
// never dispatched again.
type SentNotification struct {
	ID         uint      `gorm:"primaryKey"`
	ReminderID uint      `gorm:"not null;index"`
	SentAt     time.Time `gorm:"not null"`
	PluginName string    `gorm:"not null"`
	Status     string    `gorm:"not null"`
}
