package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateDocument checks that diagram source is safe to hand to the engine.
// It rejects text that is not valid UTF-8, contains NUL bytes or exceeds max
// bytes. A max of zero disables the size check.
func ValidateDocument(text string, max int) error {
	if max > 0 && len(text) > max {
		return New(ErrCodeTooLarge, "document too large (%d bytes, max %d)", len(text), max)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "document is not valid UTF-8")
	}
	if strings.ContainsRune(text, 0) {
		return New(ErrCodeInvalidInput, "document contains NUL bytes")
	}
	return nil
}

// ValidateFragment checks the shape of a share token before decoding.
// Only the characters of the URL-safe base64 alphabet and the path separator
// are allowed.
func ValidateFragment(fragment string) error {
	if fragment == "" {
		return New(ErrCodeInvalidFragment, "fragment cannot be empty")
	}

	const maxFragmentLength = 2 << 20
	if len(fragment) > maxFragmentLength {
		return New(ErrCodeTooLarge, "fragment too long (max %d characters)", maxFragmentLength)
	}

	for _, r := range fragment {
		if r > unicode.MaxASCII || unicode.IsControl(r) {
			return New(ErrCodeInvalidFragment, "fragment contains invalid characters")
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '/' || r == '#':
		default:
			return New(ErrCodeInvalidFragment, "fragment contains invalid character %q", r)
		}
	}

	return nil
}
