package model

import "time"

// DateLayout is the storage format of Task.DueDate.
const DateLayout = "2006-01-02"

// Status is the lifecycle state of a task. It follows Progress.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// StatusForProgress derives the status a task must have at the given progress.
func StatusForProgress(progress int) Status {
	switch {
	case progress >= 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusNew
	}
}

// Task represents a single item in the todo list.
type Task struct {
	ID         uint       `gorm:"primaryKey"`
	Name       string     `gorm:"not null"`
	CategoryID uint       `gorm:"not null;index"`
	Status     Status     `gorm:"type:text;not null;index;check:status IN ('new', 'in_progress', 'completed')"`
	Progress   int        `gorm:"not null;check:progress >= 0 AND progress <= 100"`
	DueDate    *string    `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"not null;index"`
	UpdatedAt  time.Time  `gorm:"not null"`
	Reminders  []Reminder `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

// IsCompleted reports whether the task is done.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}
