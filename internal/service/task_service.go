package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cli-utils/internal/model"
	"cli-utils/internal/repository"
)

// CompletionState is where an edit stands in the completion confirmation flow.
type CompletionState int

const (
	CompletionEditing CompletionState = iota
	CompletionConfirmPending
	CompletionRemovedReminders
	CompletionKeptReminders
	CompletionCancelled
	CompletionApplied
)

func (s CompletionState) String() string {
	switch s {
	case CompletionEditing:
		return "editing"
	case CompletionConfirmPending:
		return "confirm_pending"
	case CompletionRemovedReminders:
		return "removed_reminders"
	case CompletionKeptReminders:
		return "kept_reminders"
	case CompletionCancelled:
		return "cancelled"
	case CompletionApplied:
		return "applied"
	default:
		return "CompletionState(" + strconv.Itoa(int(s)) + ")"
	}
}

// ReminderChoice answers the question asked when a task with reminders is completed.
type ReminderChoice int

const (
	ChoiceRemove ReminderChoice = iota
	ChoiceKeep
	ChoiceCancel
)

// ParseReminderChoice accepts remove, keep or cancel.
func ParseReminderChoice(raw string) (ReminderChoice, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "remove", "r":
		return ChoiceRemove, nil
	case "keep", "k":
		return ChoiceKeep, nil
	case "cancel", "c":
		return ChoiceCancel, nil
	default:
		return 0, fmt.Errorf("unknown reminder choice %q, expected remove, keep or cancel", raw)
	}
}

var (
	// ErrNotPending is returned when resolving a completion that awaits no answer.
	ErrNotPending   = errors.New("completion is not awaiting confirmation")
	ErrTaskNotFound = errors.New("task not found")
)

// PendingCompletion carries an edit through the confirmation flow. Nothing is
// written while it is in CompletionConfirmPending.
type PendingCompletion struct {
	TaskID        uint
	TaskName      string
	Update        repository.TaskUpdate
	ReminderCount int64
	State         CompletionState
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	reminderRepo *repository.ReminderRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, reminderRepo *repository.ReminderRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, reminderRepo: reminderRepo}
}

// Submit applies an edit, unless it completes a task that still has
// reminders. In that case the returned payload is CompletionConfirmPending and
// must be passed to Resolve.
func (s *TaskService) Submit(ctx context.Context, taskID uint, upd repository.TaskUpdate) (*PendingCompletion, error) {
	if err := s.taskRepo.CheckUpdate(ctx, upd); err != nil {
		return nil, err
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}

	pending := &PendingCompletion{TaskID: task.ID, TaskName: task.Name, Update: upd, State: CompletionEditing}

	completing := !task.IsCompleted() && upd.EffectiveStatus(task.Status) == model.StatusCompleted
	if completing {
		count, err := s.reminderRepo.CountByTask(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			pending.ReminderCount = count
			pending.State = CompletionConfirmPending
			return pending, nil
		}
	}

	if err := s.taskRepo.Update(ctx, task.ID, upd); err != nil {
		return nil, err
	}
	pending.State = CompletionApplied
	return pending, nil
}

// Toggle flips a task between new and completed through the same flow as Submit.
func (s *TaskService) Toggle(ctx context.Context, taskID uint) (*PendingCompletion, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, taskID)
	}

	progress := 100
	if task.IsCompleted() {
		progress = 0
	}
	return s.Submit(ctx, taskID, repository.TaskUpdate{Progress: &progress})
}

// Resolve finishes a pending completion. Remove deletes the task's reminders
// and applies the edit atomically, Keep applies it as is, Cancel discards it.
func (s *TaskService) Resolve(ctx context.Context, pending *PendingCompletion, choice ReminderChoice) error {
	if pending == nil || pending.State != CompletionConfirmPending {
		return ErrNotPending
	}

	switch choice {
	case ChoiceCancel:
		pending.State = CompletionCancelled
		return nil
	case ChoiceRemove:
		if _, err := s.taskRepo.UpdateClearingReminders(ctx, pending.TaskID, pending.Update); err != nil {
			return err
		}
		pending.State = CompletionRemovedReminders
		return nil
	case ChoiceKeep:
		if err := s.taskRepo.Update(ctx, pending.TaskID, pending.Update); err != nil {
			return err
		}
		pending.State = CompletionKeptReminders
		return nil
	default:
		return fmt.Errorf("unknown reminder choice %d", int(choice))
	}
}

// ViewKind names a smart list or a category view.
type ViewKind string

const (
	ViewAll       ViewKind = "all"
	ViewUpcoming  ViewKind = "upcoming"
	ViewPast      ViewKind = "past"
	ViewCompleted ViewKind = "completed"
	ViewCategory  ViewKind = "category"
)

// View selects the tasks shown by ListView.
type View struct {
	Kind       ViewKind
	CategoryID uint
}

func (v View) String() string {
	if v.Kind == ViewCategory {
		return fmt.Sprintf("category:%d", v.CategoryID)
	}
	return string(v.Kind)
}

// ParseView accepts all, upcoming, past, completed or category:<id>.
func ParseView(raw string) (View, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch ViewKind(raw) {
	case "", ViewAll:
		return View{Kind: ViewAll}, nil
	case ViewUpcoming, ViewPast, ViewCompleted:
		return View{Kind: ViewKind(raw)}, nil
	}

	if rest, ok := strings.CutPrefix(raw, "category:"); ok {
		id, err := strconv.ParseUint(rest, 10, 64)
		if err == nil && id > 0 {
			return View{Kind: ViewCategory, CategoryID: uint(id)}, nil
		}
	}
	return View{}, fmt.Errorf("unknown view %q", raw)
}

// ListView returns the tasks of a view, newest first. Due-date views include
// completed tasks; only the counts leave them out.
func (s *TaskService) ListView(ctx context.Context, view View) ([]model.Task, error) {
	switch view.Kind {
	case ViewAll:
		return s.taskRepo.List(ctx, repository.TaskFilter{})
	case ViewCompleted:
		status := model.StatusCompleted
		return s.taskRepo.List(ctx, repository.TaskFilter{Status: &status})
	case ViewCategory:
		id := view.CategoryID
		return s.taskRepo.List(ctx, repository.TaskFilter{CategoryID: &id})
	case ViewUpcoming, ViewPast:
		tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{})
		if err != nil {
			return nil, err
		}
		today := s.taskRepo.Today()
		out := tasks[:0]
		for _, task := range tasks {
			if task.DueDate == nil {
				continue
			}
			upcoming := *task.DueDate >= today
			if upcoming == (view.Kind == ViewUpcoming) {
				out = append(out, task)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown view %q", view.Kind)
	}
}

// SmartCounts are the badge numbers of the smart lists.
type SmartCounts struct {
	All       int64
	Upcoming  int64
	Past      int64
	Completed int64
}

// SmartCounts counts active tasks for all, upcoming and past, and completed
// tasks for completed.
func (s *TaskService) SmartCounts(ctx context.Context) (SmartCounts, error) {
	var counts SmartCounts
	var err error
	if counts.All, err = s.taskRepo.Count(ctx, nil, repository.DueAny); err != nil {
		return counts, err
	}
	if counts.Upcoming, err = s.taskRepo.Count(ctx, nil, repository.DueUpcoming); err != nil {
		return counts, err
	}
	if counts.Past, err = s.taskRepo.Count(ctx, nil, repository.DuePast); err != nil {
		return counts, err
	}
	completed := model.StatusCompleted
	if counts.Completed, err = s.taskRepo.Count(ctx, &completed, repository.DueAny); err != nil {
		return counts, err
	}
	return counts, nil
}
