package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNotConfigured is returned when a source names neither a file nor a value.
// Callers use it to tell "no credential" apart from a broken one.
var ErrNotConfigured = errors.New("not configured")

// Source describes where a credential lives.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret from config or the environment.
	Value string
	// File holds the secret. It wins over Value.
	File string
}

// Configured reports whether the source points anywhere.
func (s Source) Configured() bool {
	return strings.TrimSpace(s.File) != "" || strings.TrimSpace(s.Value) != ""
}

// Load resolves the secret, trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if !src.Configured() {
		return "", fmt.Errorf("%s is %w", name, ErrNotConfigured)
	}

	file := strings.TrimSpace(src.File)
	if file == "" {
		return strings.TrimSpace(src.Value), nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
	}

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		return "", fmt.Errorf("%s file %q is empty", name, file)
	}

	return secret, nil
}
