// Package docpath implements pure parsing and validation of slash-delimited
// document paths. No I/O: resolving where an upsert target lives is
// independent of whether the target exists.
package docpath

import (
	"fmt"
	"regexp"
	"strings"

	"folio/internal/domain"
)

const MaxLength = 500

// Allow alphanumeric, spaces, dots, hyphens, underscores, and slashes.
var segmentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9 ._\-]*$`)

// Split parses a path into (parentPath, slug). The parent path is nil for
// root-level documents.
//
//	"guides/intro" -> ("guides", "intro")
//	"intro"        -> (nil, "intro")
func Split(path string) (*string, string, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return nil, "", fmt.Errorf("path cannot be empty: %w", domain.ErrInvalidPath)
	}

	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return nil, trimmed, nil
	}

	parent := trimmed[:idx]
	slug := trimmed[idx+1:]
	if parent == "" || slug == "" {
		return nil, "", fmt.Errorf("path %q has an empty segment: %w", path, domain.ErrInvalidPath)
	}
	return &parent, slug, nil
}

// Normalize trims surrounding whitespace and slashes so equivalent spellings
// of an address hit the same row.
func Normalize(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

// Validate checks a normalized path for well-formedness: non-empty, bounded
// length, no consecutive slashes, every segment matching the allowed charset.
func Validate(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty: %w", domain.ErrInvalidPath)
	}
	if len(path) > MaxLength {
		return fmt.Errorf("path exceeds %d characters: %w", MaxLength, domain.ErrInvalidPath)
	}
	if strings.Contains(path, "//") {
		return fmt.Errorf("path cannot contain consecutive slashes: %w", domain.ErrInvalidPath)
	}
	for _, segment := range strings.Split(path, "/") {
		if !segmentPattern.MatchString(segment) {
			return fmt.Errorf("path segment %q contains invalid characters: %w", segment, domain.ErrInvalidPath)
		}
	}
	return nil
}
