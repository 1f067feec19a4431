package repository

import (
	"strings"
	"time"

	"cli-utils/internal/model"
)

func validateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Value: name, Reason: "must not be empty"}
	}
	return nil
}

func validateProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return &ValidationError{Field: "progress", Value: progress, Reason: "must be between 0 and 100"}
	}
	return nil
}

func validateStatus(status model.Status) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Value: status, Reason: "must be new, in_progress or completed"}
	}
	return nil
}

// validateDueDate accepts an empty string, which clears the due date.
func validateDueDate(date string) error {
	if date == "" {
		return nil
	}
	return validateLayout("due date", date, model.DateLayout)
}

func validateRemindAt(value string) error {
	return validateLayout("reminder datetime", value, model.ReminderLayout)
}

// validateLayout requires the canonical rendering of layout so stored values
// keep sorting correctly as strings.
func validateLayout(field, value, layout string) error {
	parsed, err := time.Parse(layout, value)
	if err != nil || parsed.Format(layout) != value {
		return &ValidationError{Field: field, Value: value, Reason: "expected format " + layout}
	}
	return nil
}
