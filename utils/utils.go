// Package utils provides utility functions for the application.
package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

func ToPtr[T any](v T) *T {
	return &v
}

// ParseUUID parses a UUID string, trimming surrounding whitespace
func ParseUUID(s string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid uuid %q: %w", s, err)
	}
	return parsed, nil
}

// GenerateULID returns a new lexicographically sortable id
func GenerateULID() string {
	return ulid.Make().String()
}

// GenerateULIDWithPrefix returns a ULID prefixed with the given tag, e.g. wac_01J...
func GenerateULIDWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, GenerateULID())
}
