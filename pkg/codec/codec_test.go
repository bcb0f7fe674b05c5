package codec

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/s2"

	perrors "github.com/matzehuels/seqdia/pkg/errors"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"simple", "A->B: hello"},
		{"unicode", "Ünïcødé → 日本語: ✓"},
		{"multiline", "title T\r\nA -> B: x\n\n# comment\nnote over A: y\\nz"},
		{"large", strings.Repeat("Alice -> Bob: ping\n", 5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := Encode(tt.text)
			if !strings.HasPrefix(token, "/v1/") {
				t.Fatalf("Encode() = %q, want /v1/ prefix", token)
			}
			if err := perrors.ValidateFragment(token); err != nil {
				t.Fatalf("Encode() produced an invalid fragment: %v", err)
			}

			got, err := Decode(token)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.text {
				t.Errorf("Decode(Encode(x)) = %q, want %q", got, tt.text)
			}

			if got, err := Decode("#" + token); err != nil || got != tt.text {
				t.Errorf("Decode with leading '#' = %q, %v", got, err)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	if Encode("A->B: hi") != Encode("A->B: hi") {
		t.Error("Encode should be deterministic")
	}
	if Encode("A->B: hi") == Encode("A->B: ho") {
		t.Error("different documents should have different tokens")
	}
}

func TestDecodeErrors(t *testing.T) {
	payload := func(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }
	huge := s2.Encode(nil, make([]byte, MaxDocumentSize+1))

	tests := []struct {
		name     string
		fragment string
		code     perrors.Code
		sentinel error
	}{
		{"empty", "", perrors.ErrCodeInvalidFragment, nil},
		{"hash only", "#", perrors.ErrCodeInvalidFragment, nil},
		{"no leading slash", "v1/abc", perrors.ErrCodeInvalidFragment, ErrUnexpectedFragment},
		{"missing payload", "/v1/", perrors.ErrCodeInvalidFragment, ErrUnexpectedFragment},
		{"too many segments", "/v1/abc/def", perrors.ErrCodeInvalidFragment, ErrUnexpectedFragment},
		{"unknown version", "/v2/abc", perrors.ErrCodeInvalidFragment, ErrUnsupportedVersion},
		{"illegal characters", "/v1/a+b=", perrors.ErrCodeInvalidFragment, nil},
		{"bad base64", "/v1/a", perrors.ErrCodeInvalidFragment, nil},
		{"not s2", "/v1/" + payload([]byte("plain text, not compressed")), perrors.ErrCodeInvalidFragment, nil},
		{"not utf8", "/v1/" + payload(s2.Encode(nil, []byte{0xff, 0xfe})), perrors.ErrCodeInvalidFragment, nil},
		{"too large", "/v1/" + payload(huge), perrors.ErrCodeTooLarge, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.fragment)
			if err == nil {
				t.Fatalf("Decode(%q) = %q, want error", tt.fragment, got)
			}
			if code := perrors.GetCode(err); code != tt.code {
				t.Errorf("Decode(%q) code = %s, want %s (%v)", tt.fragment, code, tt.code, err)
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.fragment, err, tt.sentinel)
			}
		})
	}
}
