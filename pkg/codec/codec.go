// Package codec maps diagram source to a URL fragment and back.
//
// A token has the form
//
//	/v1/<payload>
//
// where payload is the UTF-8 source compressed with S2 and encoded as
// unpadded URL-safe base64. The version segment lets future encodings
// coexist with links that are already shared. Tokens only contain
// characters that are legal in a URL fragment without escaping.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/s2"

	perrors "github.com/matzehuels/seqdia/pkg/errors"
)

// Version is the token version written by Encode.
const Version = "v1"

// MaxDocumentSize bounds the decompressed size of a token.
const MaxDocumentSize = 1 << 20

var (
	// ErrUnexpectedFragment is returned when a fragment does not have the
	// /<version>/<payload> shape.
	ErrUnexpectedFragment = errors.New("unexpected fragment")

	// ErrUnsupportedVersion is returned for a well-formed fragment whose
	// version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported fragment version")
)

var payloadEncoding = base64.RawURLEncoding

// Encode returns the fragment token for text.
func Encode(text string) string {
	return "/" + Version + "/" + payloadEncoding.EncodeToString(s2.Encode(nil, []byte(text)))
}

// Decode returns the text stored in a fragment. A leading '#' is ignored.
// Errors carry the INVALID_FRAGMENT or TOO_LARGE code.
func Decode(fragment string) (string, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	if err := perrors.ValidateFragment(fragment); err != nil {
		return "", err
	}

	parts := strings.Split(fragment, "/")
	if len(parts) != 3 || parts[0] != "" || parts[2] == "" {
		return "", invalid(ErrUnexpectedFragment)
	}
	if parts[1] != Version {
		return "", invalid(fmt.Errorf("%w %q", ErrUnsupportedVersion, parts[1]))
	}

	compressed, err := payloadEncoding.DecodeString(parts[2])
	if err != nil {
		return "", invalid(fmt.Errorf("payload: %w", err))
	}

	n, err := s2.DecodedLen(compressed)
	if err != nil {
		return "", invalid(fmt.Errorf("payload: %w", err))
	}
	if n > MaxDocumentSize {
		return "", perrors.New(perrors.ErrCodeTooLarge, "shared diagram is %d bytes, limit is %d", n, MaxDocumentSize)
	}

	raw, err := s2.Decode(nil, compressed)
	if err != nil {
		return "", invalid(fmt.Errorf("payload: %w", err))
	}
	if !utf8.Valid(raw) {
		return "", invalid(errors.New("payload is not UTF-8 text"))
	}
	return string(raw), nil
}

func invalid(err error) error {
	return perrors.Wrap(perrors.ErrCodeInvalidFragment, err, "invalid fragment")
}
