package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	desktopCommand        = "notify-send"
	defaultDesktopTimeout = 5 * time.Second
)

// Desktop sends notifications through notify-send (Linux).
type Desktop struct {
	appName string
	timeout time.Duration
	command string
}

func NewDesktop(appName string, timeout time.Duration) *Desktop {
	if timeout <= 0 {
		timeout = defaultDesktopTimeout
	}
	if appName == "" {
		appName = "TodoApp"
	}
	return &Desktop{appName: appName, timeout: timeout, command: desktopCommand}
}

func (d *Desktop) Name() string { return "Desktop Notifications" }

func (d *Desktop) Description() string {
	return "Send desktop notifications using notify-send (Linux)"
}

func (d *Desktop) IsAvailable() bool {
	_, err := exec.LookPath(d.command)
	return err == nil
}

func (d *Desktop) Send(ctx context.Context, n Notification) Result {
	urgency := n.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, d.command,
		"--app-name="+d.appName,
		"--urgency="+string(urgency),
		"--icon=calendar",
		n.Title,
		n.Message,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return Result{Action: ActionDelivered}
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return failed(fmt.Errorf("%s timed out after %s", d.command, d.timeout))
	case errors.Is(err, exec.ErrNotFound):
		return failed(fmt.Errorf("%s not found", d.command))
	default:
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return failed(fmt.Errorf("%s: %w: %s", d.command, err, msg))
		}
		return failed(fmt.Errorf("%s: %w", d.command, err))
	}
}
