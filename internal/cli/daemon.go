package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cli-utils/internal/logging"
	"cli-utils/internal/notify"
	"cli-utils/internal/service"
)

func newDaemonCommand(a *app) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "reminder-daemon",
		Short: "Deliver due task reminders in the background",
	}

	var interval int
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run the reminder daemon in the foreground until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("interval") {
				if interval <= 0 {
					return fmt.Errorf("--interval must be positive")
				}
				cfg.CheckInterval = time.Duration(interval) * time.Second
			}

			logger, closer, err := logging.New(logging.Options{
				Level:  cfg.LogLevel,
				Prefix: "reminder-daemon",
				File:   cfg.LogFile,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer closer.Close()
			a.logger = logger

			if err := service.WritePIDFile(cfg.PIDFile()); err != nil {
				return err
			}
			defer func() {
				if err := service.RemovePIDFile(cfg.PIDFile()); err != nil {
					logger.Warn("remove pid file", "err", err)
				}
			}()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			logger.Info("using database", "path", cfg.DatabasePath)

			daemon := service.NewReminderDaemon(store.Reminders, store.Notifications, notify.FromConfig(cfg), service.DaemonOptions{
				Interval: cfg.CheckInterval,
				Logger:   logger,
			})
			return daemon.Start(cmd.Context())
		},
	}
	startCmd.Flags().IntVar(&interval, "interval", 0, "seconds between checks (default from config, 60)")

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop a running reminder daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := service.StopDaemon(a.cfg.PIDFile())
			if errors.Is(err, service.ErrDaemonNotRunning) {
				fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("Reminder daemon is not running"))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Stopped reminder daemon (pid %d)", pid)))
			return nil
		},
	}

	daemonCmd.AddCommand(startCmd, stopCmd)
	return daemonCmd
}
