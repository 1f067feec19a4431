package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newReminderCommand(a *app) *cobra.Command {
	reminderCmd := &cobra.Command{
		Use:     "reminder",
		Aliases: []string{"reminders"},
		Short:   "Manage task reminders",
	}

	listCmd := &cobra.Command{
		Use:   "list <task-id>",
		Short: "List the reminders of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			reminders, err := store.Reminders.ListByTask(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(reminders) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("no reminders"))
				return nil
			}
			for _, r := range reminders {
				rows, err := store.Notifications.ListByReminder(cmd.Context(), r.ID)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%3d  ⏰ %s", r.ID, r.RemindAt)
				if len(rows) > 0 {
					last := rows[len(rows)-1]
					line += mutedStyle.Render(fmt.Sprintf("  %s via %s", last.Status, last.PluginName))
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	addCmd := &cobra.Command{
		Use:     "add <task-id> <YYYY-MM-DD HH:MM>",
		Short:   "Schedule a reminder for a task",
		Example: "  cli-utils todo reminder add 3 2025-06-01 09:30",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			id, err := store.Reminders.Create(cmd.Context(), taskID, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Created reminder %d", id)))
			return nil
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <reminder-id> <YYYY-MM-DD HH:MM>",
		Short: "Reschedule a reminder",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "reminder")
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			reminder, err := store.Reminders.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if reminder == nil {
				return fmt.Errorf("reminder %d not found", id)
			}
			if err := store.Reminders.Update(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Updated reminder %d", id)))
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <reminder-id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "reminder")
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Reminders.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Deleted reminder %d", id)))
			return nil
		},
	}

	reminderCmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd)
	return reminderCmd
}
