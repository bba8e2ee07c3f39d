package model

import (
	"errors"
	"strings"
)

// ValidationError 收集配置校验中发现的全部问题
type ValidationError struct {
	Issues []error
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "invalid configuration: unknown validation error"
	case 1:
		return e.Issues[0].Error()
	}
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Error())
	}
	return "configuration errors: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(err error) {
	if err == nil {
		return
	}
	var nested *ValidationError
	if errors.As(err, &nested) {
		e.Issues = append(e.Issues, nested.Issues...)
		return
	}
	e.Issues = append(e.Issues, err)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// Unwrap lets errors.Is match any collected issue.
func (e *ValidationError) Unwrap() []error {
	return e.Issues
}

// Err returns nil when nothing was collected.
func (e *ValidationError) Err() error {
	if !e.HasIssues() {
		return nil
	}
	return e
}
