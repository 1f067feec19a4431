package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName  = "cli_utils"
	fileName = "config.yaml"
	envDir   = "CLI_UTILS_CONFIG_DIR"
)

// Config keeps runtime settings shared by the todo commands and the reminder daemon.
type Config struct {
	Dir           string
	DatabasePath  string
	LogLevel      string
	LogFile       string
	CheckInterval time.Duration
	NotifyTimeout time.Duration
	AppName       string
	Telegram      TelegramConfig
}

// TelegramConfig enables the Telegram dispatcher when both fields are set.
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// Enabled reports whether enough is configured to try Telegram delivery.
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// PIDFile is where a running reminder daemon records its process id.
func (c Config) PIDFile() string {
	return filepath.Join(c.Dir, "reminder_daemon.pid")
}

// fileConfig mirrors config.yaml. Zero values leave defaults in place.
type fileConfig struct {
	Database             string `yaml:"database"`
	LogLevel             string `yaml:"log_level"`
	LogFile              string `yaml:"log_file"`
	CheckIntervalSeconds int    `yaml:"check_interval_seconds"`
	NotifyTimeoutSeconds int    `yaml:"notify_timeout_seconds"`
	AppName              string `yaml:"app_name"`
	Telegram             struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
}

// Load builds the configuration from defaults, then <dir>/config.yaml, then
// CLI_UTILS_* environment variables.
func Load() (Config, error) {
	dir := strings.TrimSpace(os.Getenv(envDir))
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, dirName)
	}

	cfg := defaults(dir)
	if err := cfg.applyFile(filepath.Join(dir, fileName)); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaults(dir string) Config {
	return Config{
		Dir:           dir,
		DatabasePath:  filepath.Join(dir, "todo.db"),
		LogLevel:      "info",
		LogFile:       filepath.Join(dir, "logs", "reminder_daemon.log"),
		CheckInterval: 60 * time.Second,
		NotifyTimeout: 5 * time.Second,
		AppName:       "TodoApp",
	}
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Database != "" {
		c.DatabasePath = c.resolve(fc.Database)
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		c.LogFile = c.resolve(fc.LogFile)
	}
	if fc.CheckIntervalSeconds < 0 || fc.NotifyTimeoutSeconds < 0 {
		return fmt.Errorf("parse %s: intervals must be positive", path)
	}
	if fc.CheckIntervalSeconds > 0 {
		c.CheckInterval = time.Duration(fc.CheckIntervalSeconds) * time.Second
	}
	if fc.NotifyTimeoutSeconds > 0 {
		c.NotifyTimeout = time.Duration(fc.NotifyTimeoutSeconds) * time.Second
	}
	if fc.AppName != "" {
		c.AppName = fc.AppName
	}
	if fc.Telegram.Token != "" {
		c.Telegram.Token = fc.Telegram.Token
	}
	if fc.Telegram.ChatID != 0 {
		c.Telegram.ChatID = fc.Telegram.ChatID
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := env("CLI_UTILS_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := env("CLI_UTILS_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := env("CLI_UTILS_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := env("CLI_UTILS_APP_NAME"); v != "" {
		c.AppName = v
	}

	var err error
	if c.CheckInterval, err = envSeconds("CLI_UTILS_CHECK_INTERVAL_SECONDS", c.CheckInterval); err != nil {
		return err
	}
	if c.NotifyTimeout, err = envSeconds("CLI_UTILS_NOTIFY_TIMEOUT_SECONDS", c.NotifyTimeout); err != nil {
		return err
	}

	if v := env("CLI_UTILS_TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := env("CLI_UTILS_TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CLI_UTILS_TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

// resolve makes paths from config.yaml relative to the config dir.
func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envSeconds(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key)
	if raw == "" {
		return fallback, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return fallback, fmt.Errorf("%s must be a positive number of seconds, got %q", key, raw)
	}
	return time.Duration(seconds) * time.Second, nil
}
