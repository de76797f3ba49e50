package validate

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestMessageValid(t *testing.T) {
	got, err := Message("  Hello there  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "Hello there" {
		t.Errorf("Expected trimmed message, got %q", got)
	}
}

func TestMessageRules(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  error
	}{
		{"non-string", 42, ErrInvalidType},
		{"nil input", nil, ErrInvalidType},
		{"empty", "", ErrEmptyMessage},
		{"whitespace only", " \t\n ", ErrEmptyMessage},
		{"too long", strings.Repeat("a", 1001), ErrTooLong},
		{"html tag", "hello <b>world</b>", ErrHTMLNotAllowed},
		{"html tag at start", "<script>alert(1)</script>", ErrHTMLNotAllowed},
		{"html comment", "hi <!-- sneaky -->", ErrHTMLNotAllowed},
		{"null byte", "hello\x00world", ErrControlChars},
		{"escape char", "hello\x1bworld", ErrControlChars},
		{"delete char", "hello\x7fworld", ErrControlChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Message(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Message(%v) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestMessageOrderOfRules(t *testing.T) {
	// An oversized message that also contains HTML must fail on length
	// first: rules apply in order and the first failure wins.
	input := "<b>" + strings.Repeat("a", 1001)
	if _, err := Message(input); !errors.Is(err, ErrTooLong) {
		t.Errorf("Expected ErrTooLong, got %v", err)
	}
}

func TestMessageAtLimit(t *testing.T) {
	if _, err := Message(strings.Repeat("a", 1000)); err != nil {
		t.Errorf("Message at the limit should pass, got %v", err)
	}
}

func TestMessageAllowedControlChars(t *testing.T) {
	if _, err := Message("line one\nline two\r\n\tindented"); err != nil {
		t.Errorf("Expected \\n, \\r, \\t to be allowed, got %v", err)
	}
}

func TestMessageLessThanAlone(t *testing.T) {
	// A bare "<" not followed by a letter is fine, e.g. "1 < 2".
	if _, err := Message("is 1 < 2?"); err != nil {
		t.Errorf("Expected comparison text to pass, got %v", err)
	}
}

func TestRule(t *testing.T) {
	if got := Rule(ErrHTMLNotAllowed); got != "html" {
		t.Errorf("Rule(ErrHTMLNotAllowed) = %q, want html", got)
	}
}

func TestStatus(t *testing.T) {
	if got := Status(ErrTooLong); got != http.StatusRequestEntityTooLarge {
		t.Errorf("Status(ErrTooLong) = %d, want 413", got)
	}
	if got := Status(ErrEmptyMessage); got != http.StatusBadRequest {
		t.Errorf("Status(ErrEmptyMessage) = %d, want 400", got)
	}
}
