package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cli-utils/internal/repository"
)

// testEnv isolates config and the database under a temp dir.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CLI_UTILS_CONFIG_DIR", dir)
	for _, key := range []string{
		"CLI_UTILS_DB", "CLI_UTILS_LOG_LEVEL", "CLI_UTILS_LOG_FILE", "CLI_UTILS_APP_NAME",
		"CLI_UTILS_CHECK_INTERVAL_SECONDS", "CLI_UTILS_NOTIFY_TIMEOUT_SECONDS",
		"CLI_UTILS_TELEGRAM_TOKEN", "CLI_UTILS_TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
	}
	return dir
}

type result struct {
	out string
	err error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return runWith(t, context.Background(), newApp(), stdin, args...)
}

func runWith(t *testing.T, ctx context.Context, a *app, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(ctx)
	require.NoError(t, a.close())
	return result{out: out.String(), err: err}
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := run(t, "", args...)
	require.NoError(t, res.err, strings.Join(args, " "))
	return res.out
}

func openStore(t *testing.T, dir string) *repository.Store {
	t.Helper()
	store, err := repository.Open(filepath.Join(dir, "todo.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRegistryBuildsEveryCommand(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, entry := range registry {
		assert.Contains(t, names, entry.name)
	}
}

func TestVersion(t *testing.T) {
	testEnv(t)
	out := mustRun(t, "version")
	assert.Contains(t, out, "cli-utils version "+Version)
}

func TestTextCommands(t *testing.T) {
	testEnv(t)

	assert.Contains(t, mustRun(t, "text", "uppercase", "hello", "world"), "HELLO WORLD")
	assert.Contains(t, mustRun(t, "text", "lowercase", "HELLO WORLD"), "hello world")
	assert.Contains(t, mustRun(t, "text", "titlecase", "hello world"), "Hello World")

	res := run(t, "", "text", "uppercase")
	assert.Error(t, res.err)
}

func TestTextCopy(t *testing.T) {
	testEnv(t)

	var copied string
	a := newApp()
	a.copy = func(text string) error {
		copied = text
		return nil
	}
	res := runWith(t, context.Background(), a, "", "text", "titlecase", "--copy", "go is fun")
	require.NoError(t, res.err)
	assert.Equal(t, "Go Is Fun", copied)
	assert.Contains(t, res.out, "✓ Copied to clipboard")
}

func TestDBFlagOverridesConfig(t *testing.T) {
	dir := testEnv(t)
	other := filepath.Join(dir, "elsewhere", "other.db")

	mustRun(t, "--db", other, "todo", "task", "add", "Elsewhere")
	_, err := os.Stat(other)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "todo.db"))
	assert.True(t, os.IsNotExist(err))
}
