package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cli-utils/internal/textutil"
)

var caseExamples = map[textutil.Case]string{
	textutil.CaseUpper: "HELLO WORLD",
	textutil.CaseLower: "hello world",
	textutil.CaseTitle: "Hello World",
}

func newTextCommand(a *app) *cobra.Command {
	textCmd := &cobra.Command{
		Use:   "text",
		Short: "Text case conversion",
	}
	for _, c := range textutil.Cases() {
		textCmd.AddCommand(newCaseCommand(a, c))
	}
	return textCmd
}

func newCaseCommand(a *app, c textutil.Case) *cobra.Command {
	var copyResult bool
	cmd := &cobra.Command{
		Use:     string(c) + " <text>",
		Short:   fmt.Sprintf("Convert text to %s", c),
		Example: fmt.Sprintf("  cli-utils text %s \"hello world\"\n  %s", c, caseExamples[c]),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := textutil.Convert(c, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(result))

			if copyResult {
				if err := a.copy(result); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("✓ Copied to clipboard"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&copyResult, "copy", "c", false, "copy the result to the clipboard")
	return cmd
}
