package cli

import "github.com/spf13/cobra"

// commandEntry registers one top-level command group.
type commandEntry struct {
	name  string
	build func(a *app) *cobra.Command
}

// registry lists every top-level command. New groups are added here.
var registry = []commandEntry{
	{name: "text", build: newTextCommand},
	{name: "todo", build: newTodoCommand},
	{name: "reminder-daemon", build: newDaemonCommand},
	{name: "version", build: newVersionCommand},
}
