package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cli-utils/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := repository.Open(filepath.Join(t.TempDir(), "todo.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func addTask(t *testing.T, store *repository.Store, in repository.NewTask, reminders ...string) uint {
	t.Helper()
	if in.CategoryID == 0 {
		in.CategoryID = 1
	}
	id, err := store.Tasks.Create(context.Background(), in)
	require.NoError(t, err)
	for _, at := range reminders {
		_, err := store.Reminders.Create(context.Background(), id, at)
		require.NoError(t, err)
	}
	return id
}

func ptr[T any](v T) *T { return &v }
