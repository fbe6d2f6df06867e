package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("content not found")
	ErrAccessDenied = errors.New("access denied")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAlreadyOwned = errors.New("content already in library")
)

// MsgNameTaken is the field error for a name whose derived id already exists.
const MsgNameTaken = "Content name already taken"

// ValidationError carries per-field messages. Nothing was committed when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ResetError lists the reset steps that failed. The remaining steps still ran.
type ResetError struct {
	Steps []string
	Errs  []error
}

func (e *ResetError) Error() string {
	return "catalog reset incomplete: " + strings.Join(e.Steps, ", ")
}

func (e *ResetError) Unwrap() []error { return e.Errs }
