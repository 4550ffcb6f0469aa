package harvest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBlocked is returned by gated workflows while blocking data issues are
	// not acknowledged.
	ErrBlocked = errors.New("blocked by data health issues")
	// ErrInvalidConfig is wrapped by every configuration error.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigError reports an invalid option. It is returned before any computation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// BlockedError lists the unacknowledged issues that block a workflow.
type BlockedError struct {
	Issues []HealthIssue
}

func (e *BlockedError) Error() string {
	symbols := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		symbols = append(symbols, fmt.Sprintf("%s(%s)", issue.Symbol, issue.Kind))
	}
	return fmt.Sprintf("%v: %d unacknowledged issue(s): %s", ErrBlocked, len(e.Issues), strings.Join(symbols, ", "))
}

func (e *BlockedError) Unwrap() error { return ErrBlocked }
