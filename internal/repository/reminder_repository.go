package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"cli-utils/internal/model"
)

// DueReminder pairs a reminder with the task it belongs to.
type DueReminder struct {
	Reminder model.Reminder
	Task     model.Task
}

// ReminderRepository handles CRUD for reminders and the due-reminder scan.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// ListByTask returns the reminders of a task, earliest first.
func (r *ReminderRepository) ListByTask(ctx context.Context, taskID uint) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).
		Order("reminder_datetime ASC, id ASC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

func (r *ReminderRepository) CountByTask(ctx context.Context, taskID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Reminder{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count reminders: %w", err)
	}
	return count, nil
}

// FindByID returns nil when the reminder does not exist.
func (r *ReminderRepository) FindByID(ctx context.Context, id uint) (*model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("find reminder: %w", err)
	}
	if len(reminders) == 0 {
		return nil, nil
	}
	return &reminders[0], nil
}

// Create stores remindAt exactly as given, in model.ReminderLayout.
func (r *ReminderRepository) Create(ctx context.Context, taskID uint, remindAt string) (uint, error) {
	if err := validateRemindAt(remindAt); err != nil {
		return 0, err
	}

	reminder := model.Reminder{TaskID: taskID, RemindAt: remindAt}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Task{}).Where("id = ?", taskID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &ValidationError{Field: "task", Value: taskID, Reason: "does not exist"}
		}
		return tx.Create(&reminder).Error
	})
	if err != nil {
		return 0, storeErr("create reminder", "reminders", err)
	}
	return reminder.ID, nil
}

func (r *ReminderRepository) Update(ctx context.Context, id uint, remindAt string) error {
	if err := validateRemindAt(remindAt); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Model(&model.Reminder{}).Where("id = ?", id).
		Update("reminder_datetime", remindAt).Error
	return storeErr("update reminder", "reminders", err)
}

func (r *ReminderRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Delete(&model.Reminder{}, id).Error
	return storeErr("delete reminder", "reminders", err)
}

// DeleteByTask removes every reminder of a task and reports how many went.
func (r *ReminderRepository) DeleteByTask(ctx context.Context, taskID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.Reminder{})
	if result.Error != nil {
		return 0, storeErr("delete task reminders", "reminders", result.Error)
	}
	return result.RowsAffected, nil
}

// FindDueUnsent returns reminders at or before now (model.ReminderLayout)
// whose task is open and which have no ledger row, earliest first.
func (r *ReminderRepository) FindDueUnsent(ctx context.Context, now string) ([]DueReminder, error) {
	var due []DueReminder
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		openTasks := tx.Model(&model.Task{}).Select("id").Where("status <> ?", model.StatusCompleted)
		unsent := "NOT EXISTS (SELECT 1 FROM sent_notifications sn WHERE sn.reminder_id = reminders.id)"

		var reminders []model.Reminder
		if err := tx.Where("reminder_datetime <= ?", now).
			Where("task_id IN (?)", openTasks).
			Where(unsent).
			Order("reminder_datetime ASC, id ASC").
			Find(&reminders).Error; err != nil {
			return err
		}
		if len(reminders) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(reminders))
		for _, reminder := range reminders {
			ids = append(ids, reminder.TaskID)
		}
		var tasks []model.Task
		if err := tx.Where("id IN ?", ids).Find(&tasks).Error; err != nil {
			return err
		}
		byID := make(map[uint]model.Task, len(tasks))
		for _, task := range tasks {
			byID[task.ID] = task
		}

		due = make([]DueReminder, 0, len(reminders))
		for _, reminder := range reminders {
			task, ok := byID[reminder.TaskID]
			if !ok {
				continue
			}
			due = append(due, DueReminder{Reminder: reminder, Task: task})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find due reminders: %w", err)
	}
	return due, nil
}
