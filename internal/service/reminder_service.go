package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"cli-utils/internal/logging"
	"cli-utils/internal/model"
	"cli-utils/internal/notify"
	"cli-utils/internal/repository"
)

// DaemonState tracks the reminder daemon lifecycle.
type DaemonState int

const (
	DaemonIdle DaemonState = iota
	DaemonRunning
	DaemonStopping
	DaemonStopped
)

func (s DaemonState) String() string {
	switch s {
	case DaemonIdle:
		return "idle"
	case DaemonRunning:
		return "running"
	case DaemonStopping:
		return "stopping"
	case DaemonStopped:
		return "stopped"
	default:
		return fmt.Sprintf("DaemonState(%d)", int(s))
	}
}

// ErrDaemonStarted is returned when Start is called on a daemon that already ran.
var ErrDaemonStarted = errors.New("reminder daemon already started")

// DueReminderFinder is the part of the store the daemon scans.
type DueReminderFinder interface {
	FindDueUnsent(ctx context.Context, now string) ([]repository.DueReminder, error)
}

// NotificationLedger records delivery attempts.
type NotificationLedger interface {
	Record(ctx context.Context, reminderID uint, pluginName, status string) error
}

// DaemonOptions tune a ReminderDaemon. Zero values pick defaults.
type DaemonOptions struct {
	Interval time.Duration
	Logger   *log.Logger
	Location *time.Location
	Now      func() time.Time
}

// ReminderDaemon periodically dispatches due reminders. Each reminder gets at
// most one ledger row, so it is never delivered twice.
type ReminderDaemon struct {
	reminders   DueReminderFinder
	ledger      NotificationLedger
	dispatchers []notify.Dispatcher
	interval    time.Duration
	logger      *log.Logger
	loc         *time.Location
	now         func() time.Time

	mu       sync.Mutex
	state    DaemonState
	stop     chan struct{}
	stopOnce sync.Once
}

// NewReminderDaemon keeps only the dispatchers available right now.
func NewReminderDaemon(reminders DueReminderFinder, ledger NotificationLedger, dispatchers []notify.Dispatcher, opts DaemonOptions) *ReminderDaemon {
	d := &ReminderDaemon{
		reminders:   reminders,
		ledger:      ledger,
		dispatchers: notify.Available(dispatchers...),
		interval:    opts.Interval,
		logger:      opts.Logger,
		loc:         opts.Location,
		now:         opts.Now,
		stop:        make(chan struct{}),
	}
	if d.interval <= 0 {
		d.interval = 60 * time.Second
	}
	if d.logger == nil {
		d.logger = logging.Discard()
	}
	if d.loc == nil {
		d.loc = time.Local
	}
	if d.now == nil {
		d.now = time.Now
	}

	if len(d.dispatchers) == 0 {
		d.logger.Warn("no notification dispatchers available, reminders will be recorded as errors")
	} else {
		d.logger.Info("notification dispatchers ready", "dispatchers", d.DispatcherNames())
	}
	return d
}

// DispatcherNames lists the dispatchers in the order they are tried.
func (d *ReminderDaemon) DispatcherNames() []string {
	names := make([]string, 0, len(d.dispatchers))
	for _, ds := range d.dispatchers {
		names = append(names, ds.Name())
	}
	return names
}

func (d *ReminderDaemon) State() DaemonState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *ReminderDaemon) setState(s DaemonState) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Start runs one pass immediately, then one per interval, until ctx is done
// or Stop is called. It returns after the in-flight pass has finished.
func (d *ReminderDaemon) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.state != DaemonIdle {
		d.mu.Unlock()
		return ErrDaemonStarted
	}
	d.state = DaemonRunning
	d.mu.Unlock()

	d.logger.Info("reminder daemon started", "interval", d.interval)

	// Passes finish their writes even when shutdown was requested mid-pass.
	passCtx := context.WithoutCancel(ctx)
	d.runLogged(passCtx)

	scheduler := NewSchedulerService(d.loc, d.logger)
	if _, err := scheduler.ScheduleInterval(d.interval, func() { d.runLogged(passCtx) }); err != nil {
		d.setState(DaemonStopped)
		return fmt.Errorf("schedule reminder check: %w", err)
	}
	scheduler.Start()

	select {
	case <-ctx.Done():
	case <-d.stop:
	}

	d.setState(DaemonStopping)
	d.logger.Info("stopping reminder daemon")
	scheduler.Stop()
	d.setState(DaemonStopped)
	d.logger.Info("reminder daemon stopped")
	return nil
}

// Stop asks a running daemon to exit. It is safe to call more than once.
// A daemon stopped before it started refuses to start.
func (d *ReminderDaemon) Stop() {
	d.mu.Lock()
	if d.state == DaemonIdle {
		d.state = DaemonStopped
	}
	d.mu.Unlock()
	d.stopOnce.Do(func() { close(d.stop) })
}

func (d *ReminderDaemon) runLogged(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("reminder check panicked", "panic", r)
		}
	}()
	if _, err := d.RunOnce(ctx); err != nil {
		d.logger.Error("reminder check failed", "err", err)
	}
}

// RunOnce dispatches every reminder due at the current minute and reports
// how many were handled.
func (d *ReminderDaemon) RunOnce(ctx context.Context) (int, error) {
	now := d.now().In(d.loc).Format(model.ReminderLayout)

	due, err := d.reminders.FindDueUnsent(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find due reminders: %w", err)
	}
	if len(due) > 0 {
		d.logger.Debug("due reminders found", "count", len(due), "now", now)
	}

	for _, item := range due {
		d.dispatch(ctx, item)
	}
	return len(due), nil
}

func (d *ReminderDaemon) dispatch(ctx context.Context, item repository.DueReminder) {
	title, message := BuildReminderMessage(item.Task)
	n := notify.Notification{
		Title:      title,
		Message:    message,
		TaskID:     item.Task.ID,
		ReminderID: item.Reminder.ID,
		Urgency:    notify.UrgencyNormal,
	}

	plugin, status := model.PluginNone, model.NotificationError
	for _, ds := range d.dispatchers {
		res := safeSend(ctx, ds, n)
		if res.Success() {
			plugin, status = ds.Name(), model.NotificationSent
			break
		}
		d.logger.Warn("dispatcher failed", "dispatcher", ds.Name(), "reminder", item.Reminder.ID, "err", res.Err)
	}

	if err := d.ledger.Record(ctx, item.Reminder.ID, plugin, status); err != nil {
		d.logger.Error("record notification", "reminder", item.Reminder.ID, "err", err)
		return
	}
	if status == model.NotificationSent {
		d.logger.Info("reminder sent", "task", item.Task.Name, "reminder", item.Reminder.ID, "dispatcher", plugin)
	} else {
		d.logger.Error("reminder not delivered", "task", item.Task.Name, "reminder", item.Reminder.ID)
	}
}

// BuildReminderMessage renders the title and body of a reminder notification.
func BuildReminderMessage(task model.Task) (string, string) {
	title := fmt.Sprintf("⏰ Reminder: %s", task.Name)

	lines := []string{fmt.Sprintf("Task: %s", task.Name)}
	if task.DueDate != nil && *task.DueDate != "" {
		lines = append(lines, fmt.Sprintf("Due: %s", *task.DueDate))
	}
	if task.Progress > 0 {
		lines = append(lines, fmt.Sprintf("Progress: %d%%", task.Progress))
	}
	return title, strings.Join(lines, "\n")
}

// safeSend turns a panicking dispatcher into an error result so the next
// dispatcher is still tried.
func safeSend(ctx context.Context, ds notify.Dispatcher, n notify.Notification) (res notify.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = notify.Result{Action: notify.ActionError, Err: fmt.Errorf("%s panicked: %v", ds.Name(), r)}
		}
	}()
	return ds.Send(ctx, n)
}
