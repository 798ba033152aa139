package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxLimit is the largest hop limit accepted by traversal queries.
const MaxLimit = 64

// ValidateLimit checks a traversal hop limit.
// Negative limits are rejected, as are limits above [MaxLimit], which would
// only ever be reached by mistake on biological networks.
func ValidateLimit(limit int) error {
	if limit < 0 {
		return New(ErrCodeInvalidParameter, "limit must be >= 0, got %d", limit)
	}
	if limit > MaxLimit {
		return New(ErrCodeInvalidParameter, "limit too large (max %d), got %d", MaxLimit, limit)
	}
	return nil
}

// ValidateKeys checks a list of node keys supplied by a caller.
// The list must be non-empty and every key must be a non-empty string
// without control characters. what names the list in the error message
// (e.g. "source", "target").
func ValidateKeys(what string, keys []string) error {
	if len(keys) == 0 {
		return New(ErrCodeInvalidParameter, "%s set cannot be empty", what)
	}
	for _, k := range keys {
		if k == "" {
			return New(ErrCodeInvalidParameter, "%s key cannot be empty", what)
		}
		for _, r := range k {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidParameter, "%s key %q contains control characters", what, k)
			}
		}
	}
	return nil
}

// nameRegex matches network names usable as store keys and file names.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName validates a network name for safety.
// It rejects names that could be used for path traversal when the file
// store maps names onto files:
//   - No empty names
//   - Maximum length of 128 characters
//   - No path traversal sequences (..)
//   - Only letters, digits, '.', '_' and '-'
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "network name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "network name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "network name cannot contain path traversal sequences (..)")
	}
	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid network name: %q", name)
	}
	return nil
}
