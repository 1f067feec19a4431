// Package cli wires the commands of cli-utils into a cobra tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"

	"cli-utils/internal/config"
	"cli-utils/internal/logging"
	"cli-utils/internal/repository"
	"cli-utils/internal/textutil"
)

// app is the state shared by one command invocation.
type app struct {
	cfg      config.Config
	dbPath   string
	logLevel string
	logger   *log.Logger
	store    *repository.Store
	copy     textutil.CopyFunc
}

func newApp() *app {
	return &app{copy: textutil.SystemClipboard}
}

// NewRootCommand builds the command tree from the registry.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cli-utils",
		Short:         "Small command-line utilities and a terminal todo list",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			if a.dbPath != "" {
				cfg.DatabasePath = a.dbPath
			}
			a.cfg = cfg

			logger, _, err := logging.New(logging.Options{Level: cfg.LogLevel, Output: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to the todo database (default: <config dir>/todo.db)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	for _, entry := range registry {
		rootCmd.AddCommand(entry.build(a))
	}
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	err := newRootCommand(a).ExecuteContext(ctx)
	_ = a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

// openStore opens the todo database once per invocation.
func (a *app) openStore() (*repository.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	// gorm reports slow queries and SQL errors through Printf.
	var writer logger.Writer
	if a.logger != nil {
		writer = a.logger
	}
	store, err := repository.Open(a.cfg.DatabasePath, writer)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
