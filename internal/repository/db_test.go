package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cli-utils/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "todo.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewDBSeedsSystemCategoriesOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "todo.db")

	store, err := Open(path, nil)
	require.NoError(t, err)

	categories, err := store.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, uint(1), categories[0].ID)
	assert.Equal(t, "Personal", categories[0].Name)
	assert.Equal(t, "Work", categories[1].Name)
	for _, c := range categories {
		assert.True(t, c.IsSystem)
	}

	require.NoError(t, Initialize(ctx, store.DB))
	require.NoError(t, store.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	categories, err = reopened.Categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestInitializeDoesNotReseed(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.Categories.Create(ctx, "Errands", "", "")
	require.NoError(t, err)
	require.NoError(t, store.DB.Where("is_system = ?", true).Delete(&model.Category{}).Error)

	require.NoError(t, Initialize(ctx, store.DB))

	categories, err := store.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, id, categories[0].ID)
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "plain path",
			dsn:  "/tmp/todo.db",
			want: "/tmp/todo.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate",
		},
		{
			name: "existing query keeps user params",
			dsn:  "file:todo.db?_busy_timeout=100",
			want: "file:todo.db?_busy_timeout=100&_foreign_keys=on&_journal_mode=WAL&_txlock=immediate",
		},
		{
			name: "memory untouched",
			dsn:  "file::memory:?cache=shared",
			want: "file::memory:?cache=shared",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.dsn))
		})
	}
}

func TestNewDBRejectsEmptyPath(t *testing.T) {
	_, err := NewDB("", nil)
	assert.Error(t, err)
}

func TestWriteOnClosedStoreIsStoreError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	sqlDB, err := store.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = store.Categories.Create(ctx, "Errands", "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create category", se.Op)
	assert.Equal(t, "categories", se.Table)
}
