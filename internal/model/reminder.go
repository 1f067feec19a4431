package model

// ReminderLayout is the storage format of Reminder.RemindAt. Reminders have
// minute precision and are compared as strings.
const ReminderLayout = "2006-01-02 15:04"

// Reminder schedules a notification for a task.
type Reminder struct {
	ID            uint               `gorm:"primaryKey"`
	TaskID        uint               `gorm:"not null;index"`
	RemindAt      string             `gorm:"column:reminder_datetime;not null;index"`
	Notifications []SentNotification `gorm:"foreignKey:ReminderID;constraint:OnDelete:CASCADE"`
}
