// This file adds a lightweight linter for Config values. It performs static
// checks over a decoded Config and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Field names the offending
// config key; Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Field    string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Field, i.Message)
}

// Validate performs static validation of a Config. It does not mutate the
// config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Host) == "" {
		issues = append(issues, Issue{SeverityError, "host", "host must not be empty"})
	}
	if c.Port <= 0 || c.Port > 65535 {
		issues = append(issues, Issue{SeverityError, "port", fmt.Sprintf("port %d is outside 1-65535", c.Port)})
	}
	if strings.TrimSpace(c.User) == "" {
		issues = append(issues, Issue{SeverityError, "user", "user must not be empty"})
	}
	if strings.TrimSpace(c.Database) == "" {
		issues = append(issues, Issue{SeverityError, "database", "database must not be empty"})
	}
	if c.Password == "" {
		issues = append(issues, Issue{SeverityWarning, "password", "password is empty; relying on pg_hba trust or .pgpass"})
	}
	return issues
}

// HasError reports whether any issue in the list is severity error.
func HasError(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
