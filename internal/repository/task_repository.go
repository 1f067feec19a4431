package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"cli-utils/internal/model"
)

// DueFilter narrows a task count by due date relative to today.
type DueFilter string

const (
	DueAny      DueFilter = ""
	DueUpcoming DueFilter = "upcoming"
	DuePast     DueFilter = "past"
)

// TaskFilter selects tasks for List. Nil fields match everything.
type TaskFilter struct {
	CategoryID *uint
	Status     *model.Status
}

// NewTask carries the fields of a task to create. Status is replaced by the
// status derived from Progress.
type NewTask struct {
	Name       string
	CategoryID uint
	DueDate    *string
	Status     model.Status
	Progress   int
}

// TaskUpdate changes only the non-nil fields. An empty DueDate clears it.
type TaskUpdate struct {
	Name       *string
	CategoryID *uint
	Status     *model.Status
	Progress   *int
	DueDate    *string
}

// IsEmpty reports whether the update would change nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Name == nil && u.CategoryID == nil && u.Status == nil && u.Progress == nil && u.DueDate == nil
}

// Validate rejects malformed fields.
func (u TaskUpdate) Validate() error {
	if u.Name != nil {
		if err := validateName("task name", *u.Name); err != nil {
			return err
		}
	}
	if u.Status != nil {
		if err := validateStatus(*u.Status); err != nil {
			return err
		}
	}
	if u.Progress != nil {
		if err := validateProgress(*u.Progress); err != nil {
			return err
		}
	}
	if u.DueDate != nil {
		if err := validateDueDate(*u.DueDate); err != nil {
			return err
		}
	}
	return nil
}

// EffectiveStatus returns the status the task would have after the update,
// given its current status.
func (u TaskUpdate) EffectiveStatus(current model.Status) model.Status {
	switch {
	case u.Progress != nil:
		return model.StatusForProgress(*u.Progress)
	case u.Status != nil:
		return *u.Status
	default:
		return current
	}
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

// List returns tasks newest first.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx)
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var tasks []model.Task
	if err := query.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// FindByID returns nil when the task does not exist.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

func (r *TaskRepository) Create(ctx context.Context, input NewTask) (uint, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateName("task name", input.Name); err != nil {
		return 0, err
	}
	if err := validateProgress(input.Progress); err != nil {
		return 0, err
	}
	if input.Status != "" {
		if err := validateStatus(input.Status); err != nil {
			return 0, err
		}
	}
	if input.DueDate != nil {
		if err := validateDueDate(*input.DueDate); err != nil {
			return 0, err
		}
		if *input.DueDate == "" {
			input.DueDate = nil
		}
	}

	now := r.now()
	task := model.Task{
		Name:       input.Name,
		CategoryID: input.CategoryID,
		Status:     model.StatusForProgress(input.Progress),
		Progress:   input.Progress,
		DueDate:    input.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCategory(tx, input.CategoryID); err != nil {
			return err
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return 0, storeErr("create task", "tasks", err)
	}
	return task.ID, nil
}

// Update applies the supplied fields. When progress is supplied the status is
// derived from it and an explicit status is ignored. Updating a missing task
// changes nothing.
func (r *TaskRepository) Update(ctx context.Context, id uint, upd TaskUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	if upd.IsEmpty() {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.applyUpdate(tx, id, upd)
	})
	return storeErr("update task", "tasks", err)
}

// UpdateClearingReminders deletes the task's reminders and applies upd in one
// transaction. Nothing is written if either step fails.
func (r *TaskRepository) UpdateClearingReminders(ctx context.Context, id uint, upd TaskUpdate) (int64, error) {
	if err := upd.Validate(); err != nil {
		return 0, err
	}

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("task_id = ?", id).Delete(&model.Reminder{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		if upd.IsEmpty() {
			return nil
		}
		return r.applyUpdate(tx, id, upd)
	})
	if err != nil {
		return 0, storeErr("update task and clear reminders", "tasks", err)
	}
	return removed, nil
}

// CheckUpdate validates upd against the stored categories without writing.
func (r *TaskRepository) CheckUpdate(ctx context.Context, upd TaskUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	if upd.CategoryID == nil {
		return nil
	}
	return storeErr("check task update", "categories", requireCategory(r.db.WithContext(ctx), *upd.CategoryID))
}

func (r *TaskRepository) applyUpdate(tx *gorm.DB, id uint, upd TaskUpdate) error {
	var current []model.Task
	if err := tx.Where("id = ?", id).Limit(1).Find(&current).Error; err != nil {
		return err
	}
	if len(current) == 0 {
		return nil
	}

	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.CategoryID != nil {
		if err := requireCategory(tx, *upd.CategoryID); err != nil {
			return err
		}
		updates["category_id"] = *upd.CategoryID
	}
	if upd.Progress != nil {
		updates["progress"] = *upd.Progress
	}
	if upd.Progress != nil || upd.Status != nil {
		updates["status"] = upd.EffectiveStatus(current[0].Status)
	}
	if upd.DueDate != nil {
		if *upd.DueDate == "" {
			updates["due_date"] = nil
		} else {
			updates["due_date"] = *upd.DueDate
		}
	}
	updates["updated_at"] = r.now()

	return tx.Model(&model.Task{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes a task together with its reminders.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Reminder{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, id).Error
	})
	return storeErr("delete task", "tasks", err)
}

// Count counts tasks by status and due date. A nil status counts every task
// that is not completed.
func (r *TaskRepository) Count(ctx context.Context, status *model.Status, due DueFilter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if status != nil {
		query = query.Where("status = ?", *status)
	} else {
		query = query.Where("status <> ?", model.StatusCompleted)
	}

	today := r.now().Format(model.DateLayout)
	switch due {
	case DueAny:
	case DueUpcoming:
		query = query.Where("due_date >= ?", today)
	case DuePast:
		query = query.Where("due_date < ?", today)
	default:
		return 0, &ValidationError{Field: "due filter", Value: due, Reason: "must be upcoming or past"}
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

// Today is the date due filters compare against.
func (r *TaskRepository) Today() string {
	return r.now().Format(model.DateLayout)
}

func requireCategory(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&model.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &ValidationError{Field: "category", Value: id, Reason: "does not exist"}
	}
	return nil
}
