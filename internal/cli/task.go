package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cli-utils/internal/model"
	"cli-utils/internal/repository"
	"cli-utils/internal/service"
)

func newTaskCommand(a *app) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks",
	}

	var viewName string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := service.ParseView(viewName)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			svc := service.NewTaskService(store.Tasks, store.Reminders)

			counts, err := svc.SmartCounts(cmd.Context())
			if err != nil {
				return err
			}
			tasks, err := svc.ListView(cmd.Context(), view)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Tasks: %s", view)))
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("all %d · upcoming %d · past %d · completed %d",
				counts.All, counts.Upcoming, counts.Past, counts.Completed)))
			if len(tasks) == 0 {
				fmt.Fprintln(out, mutedStyle.Render("no tasks"))
				return nil
			}
			for _, task := range tasks {
				reminders, err := store.Reminders.CountByTask(cmd.Context(), task.ID)
				if err != nil {
					return err
				}
				printTask(out, task, reminders)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&viewName, "view", "all", "all, upcoming, past, completed or category:<id>")

	var addCategory uint
	var addDue string
	var addProgress int
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			input := repository.NewTask{Name: args[0], CategoryID: addCategory, Progress: addProgress}
			if addDue != "" {
				input.DueDate = &addDue
			}
			id, err := store.Tasks.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Created task %d", id)))
			return nil
		},
	}
	addCmd.Flags().UintVar(&addCategory, "category", 1, "category id")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date, YYYY-MM-DD")
	addCmd.Flags().IntVar(&addProgress, "progress", 0, "progress percentage, 0-100")

	var (
		editName     string
		editCategory uint
		editDue      string
		editProgress int
		editStatus   string
		editMode     string
	)
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task; completing it asks what to do with its reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			if err := checkRemindersMode(editMode); err != nil {
				return err
			}

			var upd repository.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("name") {
				upd.Name = &editName
			}
			if flags.Changed("category") {
				upd.CategoryID = &editCategory
			}
			if flags.Changed("due") {
				upd.DueDate = &editDue
			}
			if flags.Changed("progress") {
				upd.Progress = &editProgress
			}
			if flags.Changed("status") {
				status := model.Status(editStatus)
				upd.Status = &status
			}
			if upd.IsEmpty() {
				return fmt.Errorf("nothing to change, pass at least one of --name, --category, --due, --progress, --status")
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			svc := service.NewTaskService(store.Tasks, store.Reminders)
			pending, err := svc.Submit(cmd.Context(), id, upd)
			if err != nil {
				return err
			}
			if err := confirmCompletion(cmd.Context(), svc, pending, editMode, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
			reportCompletion(cmd.OutOrStdout(), pending)
			return nil
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", "new name")
	editCmd.Flags().UintVar(&editCategory, "category", 0, "new category id")
	editCmd.Flags().StringVar(&editDue, "due", "", "new due date, YYYY-MM-DD; empty clears it")
	editCmd.Flags().IntVar(&editProgress, "progress", 0, "new progress, 0-100; sets the status")
	editCmd.Flags().StringVar(&editStatus, "status", "", "new status when progress is not given: new, in_progress, completed")
	addRemindersFlag(editCmd, &editMode)

	var toggleMode string
	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between new and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			if err := checkRemindersMode(toggleMode); err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			svc := service.NewTaskService(store.Tasks, store.Reminders)
			pending, err := svc.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := confirmCompletion(cmd.Context(), svc, pending, toggleMode, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
			reportCompletion(cmd.OutOrStdout(), pending)
			return nil
		},
	}
	addRemindersFlag(toggleCmd, &toggleMode)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task and its reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			task, err := store.Tasks.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("%w: %d", service.ErrTaskNotFound, id)
			}
			if err := store.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Deleted task %q", task.Name)))
			return nil
		},
	}

	taskCmd.AddCommand(listCmd, addCmd, editCmd, toggleCmd, deleteCmd)
	return taskCmd
}

func addRemindersFlag(cmd *cobra.Command, mode *string) {
	cmd.Flags().StringVar(mode, "reminders", "ask", "when completing a task with reminders: ask, remove, keep or cancel")
}

func printTask(out io.Writer, task model.Task, reminders int64) {
	line := fmt.Sprintf("%3d  %s %s", task.ID, statusMark(task.Status), task.Name)
	if task.Progress > 0 && !task.IsCompleted() {
		line += fmt.Sprintf(" %d%%", task.Progress)
	}
	if task.DueDate != nil {
		line += mutedStyle.Render("  due " + *task.DueDate)
	}
	if reminders > 0 {
		line += mutedStyle.Render(fmt.Sprintf("  ⏰%d", reminders))
	}
	fmt.Fprintln(out, line)
}
