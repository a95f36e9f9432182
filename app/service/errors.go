package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/repo"
	"github.com/shanismunderi/ahsas-studentsunion-sub000/helper"
)

// Error kinds surfaced to callers. Match with errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already reviewed")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidFile is the validation failure for certificate uploads.
	ErrInvalidFile = fmt.Errorf("%w: invalid file", ErrValidation)
)

// ValidationError names the offending fields of a rejected request.
type ValidationError struct {
	Fields map[string]string
	kind   error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range sortedKeys(e.Fields) {
		parts = append(parts, f+" "+e.Fields[f])
	}
	return e.Unwrap().Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	if e.kind != nil {
		return e.kind
	}
	return ErrValidation
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func invalidFile(msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{"file": msg}, kind: ErrInvalidFile}
}

// validateRequest runs struct tags and converts failures to a ValidationError.
func validateRequest(req any) error {
	err := helper.ValidateStruct(req)
	if err == nil {
		return nil
	}
	fieldErrs, ok := helper.ValidationErrors(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field] = fe.Message
	}
	return ve
}

// storeError classifies a repository failure. Not-found maps to ErrNotFound,
// everything unexpected is treated as the store being unavailable.
func storeError(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
