package models

import (
	"fmt"
	"slices"
	"strings"
)

// FieldIssue describes one invalid field of a request body.
type FieldIssue struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// ValidationError lists every problem found in a request body.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Problem)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validator accumulates field issues.
type validator struct {
	issues []FieldIssue
}

func (v *validator) add(field, format string, args ...any) {
	v.issues = append(v.issues, FieldIssue{Field: field, Problem: fmt.Sprintf(format, args...)})
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) date(field string, d Date) {
	if d == "" {
		v.add(field, "is required")
		return
	}
	if !d.Valid() {
		v.add(field, "must be a date in YYYY-MM-DD format")
	}
}

func (v *validator) optionalDate(field string, d *Date) {
	if d != nil && !d.Valid() {
		v.add(field, "must be a date in YYYY-MM-DD format")
	}
}

func (v *validator) money(field string, m *Money) {
	if m == nil {
		v.add(field, "is required")
		return
	}
	switch {
	case *m < 0:
		v.add(field, "must not be negative")
	case *m > MaxMoney:
		v.add(field, "must be less than 100000000.00")
	}
}

func (v *validator) oneOf(field, value string, allowed []string) {
	if value == "" {
		v.add(field, "is required")
		return
	}
	if !slices.Contains(allowed, value) {
		v.add(field, "must be one of %s", strings.Join(allowed, ", "))
	}
}

func (v *validator) err() error {
	if len(v.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: v.issues}
}
