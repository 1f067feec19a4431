package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cli-utils/internal/model"
	"cli-utils/internal/repository"
)

// SummaryService builds the plain-text daily overview of open tasks.
type SummaryService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewSummaryService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *SummaryService {
	return &SummaryService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

func (s *SummaryService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{})
	if err != nil {
		return "", err
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return "", err
	}
	catNames := make(map[uint]string)
	for _, cat := range categories {
		catNames[cat.ID] = cat.Name
	}

	var pending []model.Task
	completed := 0
	for _, task := range tasks {
		if task.IsCompleted() {
			completed++
			continue
		}
		pending = append(pending, task)
	}

	sort.SliceStable(pending, func(i, j int) bool {
		switch {
		case pending[i].DueDate == nil && pending[j].DueDate == nil:
			return false
		case pending[i].DueDate == nil:
			return false
		case pending[j].DueDate == nil:
			return true
		default:
			return *pending[i].DueDate < *pending[j].DueDate
		}
	})

	var builder strings.Builder
	builder.WriteString("📋 Daily summary\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.Format(model.DateLayout)))

	builder.WriteString("🔥 Open tasks\n")
	if len(pending) == 0 {
		builder.WriteString("— no open tasks\n")
	} else {
		for _, task := range pending {
			builder.WriteString(formatTask(task, catNames, now))
		}
	}
	builder.WriteString(fmt.Sprintf("\n✅ Completed: %d\n", completed))

	return strings.TrimSpace(builder.String()), nil
}

func formatTask(task model.Task, catNames map[uint]string, now time.Time) string {
	var sb strings.Builder

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var due *time.Time
	if task.DueDate != nil {
		if d, err := time.ParseInLocation(model.DateLayout, *task.DueDate, now.Location()); err == nil {
			due = &d
		}
	}

	icon := "🟢"
	if due != nil {
		switch {
		case due.Before(today):
			icon = "⚠️"
		case due.Sub(today) <= 48*time.Hour:
			icon = "⏳"
		}
	}

	sb.WriteString(fmt.Sprintf("%s %s", icon, strings.TrimSpace(task.Name)))

	if name := strings.TrimSpace(catNames[task.CategoryID]); name != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", name))
	}

	if due != nil {
		if due.Before(today) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, overdue", due.Format(model.DateLayout)))
		} else {
			daysLeft := int(due.Sub(today).Hours() / 24)
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s, %d day(s) left", due.Format(model.DateLayout), daysLeft))
		}
	}

	if task.Progress > 0 {
		sb.WriteString(fmt.Sprintf("\n   📈 %d%%", task.Progress))
	}

	sb.WriteByte('\n')
	return sb.String()
}
