package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cli-utils/internal/service"
)

func newCategoryCommand(a *app) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage task categories",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List categories with their open task counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			summaries, err := service.NewCategoryService(store.Categories).ListWithCounts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render("Categories"))
			for _, c := range summaries {
				line := fmt.Sprintf("%3d  %s %s (%d open)", c.ID, c.Icon, c.Name, c.ActiveTasks)
				if c.IsSystem {
					line += mutedStyle.Render(" [system]")
				}
				if c.Description != "" {
					line += mutedStyle.Render("  " + c.Description)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	var icon, description string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			id, err := store.Categories.Create(cmd.Context(), args[0], icon, description)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Created category %d", id)))
			return nil
		},
	}
	addCmd.Flags().StringVar(&icon, "icon", "", "display icon (default 📋)")
	addCmd.Flags().StringVar(&description, "description", "", "short description")

	var editName, editIcon, editDescription string
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Rename or restyle a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			category, err := store.Categories.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("category %d not found", id)
			}
			if category.IsSystem {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(fmt.Sprintf("%s is a system category and cannot be edited", category.Name)))
				return nil
			}

			flags := cmd.Flags()
			name, ic, desc := category.Name, category.Icon, category.Description
			if flags.Changed("name") {
				name = editName
			}
			if flags.Changed("icon") {
				ic = editIcon
			}
			if flags.Changed("description") {
				desc = editDescription
			}
			if err := store.Categories.Update(cmd.Context(), id, name, ic, desc); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Updated category %d", id)))
			return nil
		},
	}
	editCmd.Flags().StringVar(&editName, "name", "", "new name")
	editCmd.Flags().StringVar(&editIcon, "icon", "", "new icon")
	editCmd.Flags().StringVar(&editDescription, "description", "", "new description")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category and move its tasks to Personal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			category, err := store.Categories.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if category == nil {
				return fmt.Errorf("category %d not found", id)
			}
			if category.IsSystem {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(fmt.Sprintf("%s is a system category and cannot be deleted", category.Name)))
				return nil
			}
			if err := store.Categories.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Deleted category %s, its tasks moved to Personal", category.Name)))
			return nil
		},
	}

	categoryCmd.AddCommand(listCmd, addCmd, editCmd, deleteCmd)
	return categoryCmd
}
