package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

var (
	ErrDaemonRunning    = errors.New("reminder daemon is already running")
	ErrDaemonNotRunning = errors.New("reminder daemon is not running")
)

// WritePIDFile records the current process id. It fails when the file names
// a process that is still alive; a stale file is overwritten.
func WritePIDFile(path string) error {
	if pid, err := ReadPIDFile(path); err == nil && processAlive(pid) {
		return fmt.Errorf("%w (pid %d)", ErrDaemonRunning, pid)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create pid dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

// ReadPIDFile returns ErrDaemonNotRunning when there is no pid file.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, ErrDaemonNotRunning
	}
	if err != nil {
		return 0, fmt.Errorf("read pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("malformed pid file %s", path)
	}
	return pid, nil
}

// RemovePIDFile deletes the pid file if it still names this process.
func RemovePIDFile(path string) error {
	pid, err := ReadPIDFile(path)
	if err != nil || pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

// StopDaemon sends SIGTERM to the process recorded in the pid file and
// removes the file. A stale file is removed and reported as not running.
func StopDaemon(path string) (int, error) {
	pid, err := ReadPIDFile(path)
	if err != nil {
		return 0, err
	}
	defer os.Remove(path)

	if !processAlive(pid) {
		return pid, ErrDaemonNotRunning
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, fmt.Errorf("find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return pid, fmt.Errorf("signal process %d: %w", pid, err)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
