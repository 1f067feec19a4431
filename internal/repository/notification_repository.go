package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cli-utils/internal/model"
)

// NotificationRepository appends to the sent-notification ledger. Rows are
// never updated or deleted here.
type NotificationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db, now: time.Now}
}

// Record appends one attempt for a reminder.
func (r *NotificationRepository) Record(ctx context.Context, reminderID uint, pluginName, status string) error {
	if err := validateName("plugin name", pluginName); err != nil {
		return err
	}
	if err := validateName("notification status", status); err != nil {
		return err
	}

	row := model.SentNotification{
		ReminderID: reminderID,
		SentAt:     r.now(),
		PluginName: pluginName,
		Status:     status,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return storeErr("record notification", "sent_notifications", err)
	}
	return nil
}

// ListByReminder returns the ledger rows of a reminder, oldest first.
func (r *NotificationRepository) ListByReminder(ctx context.Context, reminderID uint) ([]model.SentNotification, error) {
	var rows []model.SentNotification
	if err := r.db.WithContext(ctx).Where("reminder_id = ?", reminderID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return rows, nil
}
