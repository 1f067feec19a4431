package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cli-utils/internal/model"
	"cli-utils/internal/service"
)

func newTodoCommand(a *app) *cobra.Command {
	todoCmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage categories, tasks and reminders",
	}
	todoCmd.AddCommand(
		newCategoryCommand(a),
		newTaskCommand(a),
		newReminderCommand(a),
		newSummaryCommand(a),
	)
	return todoCmd
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show open tasks ordered by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			summary, err := service.NewSummaryService(store.Tasks, store.Categories).DailySummary(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func parseID(raw, what string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return uint(id), nil
}

func statusMark(status model.Status) string {
	switch status {
	case model.StatusCompleted:
		return successStyle.Render("✓")
	case model.StatusInProgress:
		return warnStyle.Render("◐")
	default:
		return "○"
	}
}

// checkRemindersMode rejects a --reminders value before anything is written.
func checkRemindersMode(mode string) error {
	if mode == "" || mode == "ask" {
		return nil
	}
	_, err := service.ParseReminderChoice(mode)
	return err
}

// confirmCompletion settles a pending completion from the --reminders flag
// or, when it is "ask", from a prompt on in.
func confirmCompletion(ctx context.Context, svc *service.TaskService, pending *service.PendingCompletion, mode string, in io.Reader, out io.Writer) error {
	if pending.State != service.CompletionConfirmPending {
		return nil
	}

	var choice service.ReminderChoice
	if mode == "" || mode == "ask" {
		fmt.Fprintf(out, "Task %q has %d reminder(s). [r]emove, [k]eep or [c]ancel? ", pending.TaskName, pending.ReminderCount)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			fmt.Fprintln(out)
			choice = service.ChoiceCancel
		} else if choice, err = service.ParseReminderChoice(line); err != nil {
			return err
		}
	} else {
		var err error
		if choice, err = service.ParseReminderChoice(mode); err != nil {
			return err
		}
	}

	return svc.Resolve(ctx, pending, choice)
}

func reportCompletion(out io.Writer, pending *service.PendingCompletion) {
	switch pending.State {
	case service.CompletionApplied:
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Updated task %d", pending.TaskID)))
	case service.CompletionRemovedReminders:
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Completed task %d and removed %d reminder(s)", pending.TaskID, pending.ReminderCount)))
	case service.CompletionKeptReminders:
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Completed task %d, kept %d reminder(s)", pending.TaskID, pending.ReminderCount)))
	case service.CompletionCancelled:
		fmt.Fprintln(out, mutedStyle.Render("Cancelled, task unchanged"))
	}
}
