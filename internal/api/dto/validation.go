package dto

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// DateLayout is the ISO calendar date accepted by the summary endpoint.
const DateLayout = "2006-01-02"

var (
	idPattern    = regexp.MustCompile(`^[1-9][0-9]*$`)
	actorPattern = regexp.MustCompile(`^[A-Za-z0-9@._-]+$`)
)

// fieldErrors collects per-field validation failures.
type fieldErrors map[string]string

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	details := make(map[string]any, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+f[field])
		details[field] = f[field]
	}
	return apperrors.NewValidationError("validation failed: "+strings.Join(parts, "; "), details)
}

func (f fieldErrors) length(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		f.add(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
}

func (f fieldErrors) positive(field string, value int64) {
	if value <= 0 {
		f.add(field, "must be a positive number")
	}
}

// ParseID parses a path identifier: a positive integer without leading zeros.
func ParseID(field, raw string) (int64, error) {
	if !idPattern.MatchString(raw) {
		return 0, apperrors.NewValidationError(
			fmt.Sprintf("%s must be a positive number without leading zeros", field),
			map[string]any{field: raw, "hint": "use 1 instead of 01 and values greater than 0"},
		)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s is out of range", field), map[string]any{field: raw})
	}
	return id, nil
}

// ParseDate parses an ISO calendar date in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(
			"invalid date format, use YYYY-MM-DD (e.g. 2026-02-01)",
			map[string]any{"date": raw},
		)
	}
	return date, nil
}

func enumValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
