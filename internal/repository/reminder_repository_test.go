package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cli-utils/internal/model"
)

func TestReminderRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	taskID, err := store.Tasks.Create(ctx, NewTask{Name: "Call dentist", CategoryID: 1})
	require.NoError(t, err)

	lateID, err := store.Reminders.Create(ctx, taskID, "2025-03-02 09:00")
	require.NoError(t, err)
	earlyID, err := store.Reminders.Create(ctx, taskID, "2025-03-01 18:30")
	require.NoError(t, err)

	reminders, err := store.Reminders.ListByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, earlyID, reminders[0].ID)
	assert.Equal(t, "2025-03-01 18:30", reminders[0].RemindAt)
	assert.Equal(t, lateID, reminders[1].ID)
	assert.Equal(t, "2025-03-02 09:00", reminders[1].RemindAt)

	require.NoError(t, store.Reminders.Update(ctx, lateID, "2025-02-28 07:15"))
	reminders, err = store.Reminders.ListByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, lateID, reminders[0].ID)
	assert.Equal(t, "2025-02-28 07:15", reminders[0].RemindAt)
	for _, r := range reminders {
		assert.NotEqual(t, "2025-03-02 09:00", r.RemindAt)
	}

	count, err := store.Reminders.CountByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, store.Reminders.Delete(ctx, earlyID))
	gone, err := store.Reminders.FindByID(ctx, earlyID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestReminderValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	taskID, err := store.Tasks.Create(ctx, NewTask{Name: "t", CategoryID: 1})
	require.NoError(t, err)
	id, err := store.Reminders.Create(ctx, taskID, "2025-03-01 10:00")
	require.NoError(t, err)

	_, err = store.Reminders.Create(ctx, taskID, "tomorrow")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.Reminders.Create(ctx, 999, "2025-03-01 10:00")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, store.Reminders.Update(ctx, id, "2025-03-01"), ErrValidation)

	reminder, err := store.Reminders.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01 10:00", reminder.RemindAt)
}

func TestReminderDeleteByTask(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	taskID, err := store.Tasks.Create(ctx, NewTask{Name: "t", CategoryID: 1})
	require.NoError(t, err)
	otherID, err := store.Tasks.Create(ctx, NewTask{Name: "other", CategoryID: 1})
	require.NoError(t, err)
	for _, at := range []string{"2025-01-01 10:00", "2025-01-02 10:00"} {
		_, err := store.Reminders.Create(ctx, taskID, at)
		require.NoError(t, err)
	}
	_, err = store.Reminders.Create(ctx, otherID, "2025-01-01 10:00")
	require.NoError(t, err)

	deleted, err := store.Reminders.DeleteByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = store.Reminders.DeleteByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	count, err := store.Reminders.CountByTask(ctx, otherID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFindDueUnsent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	open, err := store.Tasks.Create(ctx, NewTask{Name: "open", CategoryID: 1, DueDate: ptr("2025-01-05"), Progress: 20})
	require.NoError(t, err)
	done, err := store.Tasks.Create(ctx, NewTask{Name: "done", CategoryID: 1, Progress: 100})
	require.NoError(t, err)

	second, err := store.Reminders.Create(ctx, open, "2025-01-01 10:00")
	require.NoError(t, err)
	first, err := store.Reminders.Create(ctx, open, "2025-01-01 09:59")
	require.NoError(t, err)
	_, err = store.Reminders.Create(ctx, open, "2025-01-01 10:01")
	require.NoError(t, err)
	_, err = store.Reminders.Create(ctx, done, "2025-01-01 08:00")
	require.NoError(t, err)

	due, err := store.Reminders.FindDueUnsent(ctx, "2025-01-01 10:00")
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, first, due[0].Reminder.ID)
	assert.Equal(t, second, due[1].Reminder.ID)
	assert.Equal(t, open, due[0].Task.ID)
	assert.Equal(t, "open", due[0].Task.Name)
	assert.Equal(t, 20, due[0].Task.Progress)
	require.NotNil(t, due[0].Task.DueDate)
	assert.Equal(t, "2025-01-05", *due[0].Task.DueDate)
}

func TestFindDueUnsentSkipsRecordedReminders(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	taskID, err := store.Tasks.Create(ctx, NewTask{Name: "ping", CategoryID: 1})
	require.NoError(t, err)
	sentID, err := store.Reminders.Create(ctx, taskID, "2025-01-01 10:00")
	require.NoError(t, err)
	failedID, err := store.Reminders.Create(ctx, taskID, "2025-01-01 10:00")
	require.NoError(t, err)

	due, err := store.Reminders.FindDueUnsent(ctx, "2025-01-01 10:00")
	require.NoError(t, err)
	require.Len(t, due, 2)

	require.NoError(t, store.Notifications.Record(ctx, sentID, "Desktop Notifications", model.NotificationSent))
	require.NoError(t, store.Notifications.Record(ctx, failedID, model.PluginNone, model.NotificationError))

	for _, now := range []string{"2025-01-01 10:00", "2025-01-01 10:01", "2026-01-01 00:00"} {
		due, err := store.Reminders.FindDueUnsent(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, due, now)
	}
}

func TestFindDueUnsentReturnsReopenedTask(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	taskID, err := store.Tasks.Create(ctx, NewTask{Name: "later", CategoryID: 1, Progress: 100})
	require.NoError(t, err)
	_, err = store.Reminders.Create(ctx, taskID, "2025-01-01 10:00")
	require.NoError(t, err)

	due, err := store.Reminders.FindDueUnsent(ctx, "2025-01-01 11:00")
	require.NoError(t, err)
	assert.Empty(t, due)

	require.NoError(t, store.Tasks.Update(ctx, taskID, TaskUpdate{Progress: ptr(0)}))
	due, err = store.Reminders.FindDueUnsent(ctx, "2025-01-01 11:00")
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestNotificationRecordAppends(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	taskID, err := store.Tasks.Create(ctx, NewTask{Name: "t", CategoryID: 1})
	require.NoError(t, err)
	reminderID, err := store.Reminders.Create(ctx, taskID, "2025-01-01 10:00")
	require.NoError(t, err)

	require.NoError(t, store.Notifications.Record(ctx, reminderID, model.PluginNone, model.NotificationError))
	require.NoError(t, store.Notifications.Record(ctx, reminderID, "Telegram", model.NotificationSent))
	assert.ErrorIs(t, store.Notifications.Record(ctx, reminderID, "", model.NotificationSent), ErrValidation)

	rows, err := store.Notifications.ListByReminder(ctx, reminderID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.PluginNone, rows[0].PluginName)
	assert.Equal(t, model.NotificationError, rows[0].Status)
	assert.Equal(t, "Telegram", rows[1].PluginName)
	assert.False(t, rows[1].SentAt.IsZero())
}
