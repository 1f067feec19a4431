package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	base := errors.New("disk I/O error")
	err := &StoreError{Op: "update task", Table: "tasks", Err: base}

	assert.Equal(t, "store: update task: table=tasks: disk I/O error", err.Error())
	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err, ErrStore)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestStoreErrKeepsTypedErrors(t *testing.T) {
	assert.NoError(t, storeErr("op", "t", nil))

	ve := &ValidationError{Field: "progress", Value: 120, Reason: "must be between 0 and 100"}
	assert.Same(t, ve, storeErr("op", "t", ve))
	assert.ErrorIs(t, storeErr("op", "t", ve), ErrValidation)
	assert.Equal(t, "invalid progress 120: must be between 0 and 100", ve.Error())

	wrapped := storeErr("op", "t", errors.New("boom"))
	assert.Same(t, wrapped, storeErr("other", "t", wrapped))
}

func TestValidateLayout(t *testing.T) {
	assert.NoError(t, validateRemindAt("2025-03-01 09:30"))
	assert.Error(t, validateRemindAt("2025-03-01 9:30"))
	assert.Error(t, validateRemindAt("2025-03-01T09:30"))
	assert.Error(t, validateRemindAt(""))

	assert.NoError(t, validateDueDate(""))
	assert.NoError(t, validateDueDate("2099-01-01"))
	assert.Error(t, validateDueDate("2099-1-1"))
	assert.Error(t, validateDueDate("tomorrow"))
}
