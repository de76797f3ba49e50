// Package validate checks client-supplied message content before it is
// replayed to the model provider.
package validate

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
)

// MaxMessageLength is the ceiling on a single message, in characters
// after trimming.
const MaxMessageLength = 1000

var (
	ErrInvalidType    = errors.New("Message must be a string.")
	ErrEmptyMessage   = errors.New("Message is empty.")
	ErrTooLong        = errors.New("Message exceeds the 1000 character limit.")
	ErrHTMLNotAllowed = errors.New("HTML is not allowed in messages.")
	ErrControlChars   = errors.New("Control characters are not allowed in messages.")
)

// htmlPattern matches anything that looks like an opening tag or an
// HTML declaration/comment: "<" followed by a letter, or "<!" up to ">".
var htmlPattern = regexp.MustCompile(`<[A-Za-z]|<![^>]*>`)

// Message applies the validation rules in order, first failure wins,
// and returns the trimmed content on success. It is pure: identical for
// the live message and for every entry replayed from client history, so
// tampered history is re-validated rather than trusted.
func Message(input any) (string, error) {
	s, ok := input.(string)
	if !ok {
		return "", ErrInvalidType
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if len([]rune(trimmed)) > MaxMessageLength {
		return "", ErrTooLong
	}
	if htmlPattern.MatchString(trimmed) {
		return "", ErrHTMLNotAllowed
	}
	if containsDisallowedControl(trimmed) {
		return "", ErrControlChars
	}
	return trimmed, nil
}

// containsDisallowedControl reports whether s contains a control
// character outside the allowed set (\n, \r, \t).
func containsDisallowedControl(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

// Status maps a validation error to the HTTP status the API returns
// for it. Oversized messages get 413; every other rule violation is a
// plain bad request.
func Status(err error) int {
	if errors.Is(err, ErrTooLong) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// Rule returns a short stable name for the violated rule, suitable as
// a metric label.
func Rule(err error) string {
	switch {
	case errors.Is(err, ErrInvalidType):
		return "invalid_type"
	case errors.Is(err, ErrEmptyMessage):
		return "empty"
	case errors.Is(err, ErrTooLong):
		return "too_long"
	case errors.Is(err, ErrHTMLNotAllowed):
		return "html"
	case errors.Is(err, ErrControlChars):
		return "control_chars"
	default:
		return "other"
	}
}
