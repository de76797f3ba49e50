// Package profile loads the static CV profile document.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Loader reads the profile JSON from disk. The file is hand-authored
// and immutable during a deployment, so the serialized form is cached
// after the first successful read.
type Loader struct {
	path string

	mu     sync.Mutex
	cached string
}

// NewLoader creates a loader for the profile document at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the profile as indented JSON, ready for prompt
// embedding. The document is parsed only to confirm it is valid JSON
// and normalize its formatting; its fields are not interpreted here.
func (l *Loader) Load() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != "" {
		return l.cached, nil
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("read profile %s: %w", l.path, err)
	}

	var doc json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse profile %s: %w", l.path, err)
	}

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize profile: %w", err)
	}

	l.cached = string(pretty)
	return l.cached, nil
}
