package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nodeIDRegex matches valid node identifiers: letters, digits,
// underscores, and dots. This mirrors what the text notation accepts.
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// ValidateNodeID validates a node identifier for use in graph operations.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidNodeID, "node id too long (max 256 characters)")
	}

	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidNodeID, "invalid node id: %q", id)
	}

	return nil
}

// classNameRegex matches valid class names for classDef and class
// statements.
var classNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// ValidateClassName validates a style class name.
func ValidateClassName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "class name cannot be empty")
	}

	if !classNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid class name: %q", name)
	}

	return nil
}

// ValidateDirection validates a layout direction keyword.
// TD is accepted as an alias for TB.
func ValidateDirection(dir string) error {
	switch dir {
	case "TB", "TD", "BT", "LR", "RL":
		return nil
	}
	return New(ErrCodeInvalidDirection, "invalid direction %q (want TB, TD, BT, LR, or RL)", dir)
}

// ValidateFormat validates an output format name for rendering.
func ValidateFormat(format string) error {
	switch strings.ToLower(format) {
	case "svg", "png", "pdf", "dot", "text":
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want svg, png, pdf, dot, or text)", format)
}

// ValidateDocumentName validates a stored diagram name.
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "document name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "document name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains control characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for click bindings.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
