package repository

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched with errors.Is.
var (
	ErrValidation = errors.New("invalid input")
	ErrStore      = errors.New("store failure")
)

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StoreError wraps an engine failure during a write.
type StoreError struct {
	Op    string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	parts := []string{"store: " + e.Op}
	if e.Table != "" {
		parts = append(parts, "table="+e.Table)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func storeErr(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	return &StoreError{Op: op, Table: table, Err: err}
}
