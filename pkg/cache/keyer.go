package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered artifact of the source with the given hash.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	View   string `json:"view"`
}

// DefaultKeyer lays keys out as artifact:<view>.<format>:<source hash>, so a
// backend can be scanned per view.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	var b strings.Builder
	b.WriteString("artifact:")
	b.WriteString(keyPart(opts.View))
	b.WriteByte('.')
	b.WriteString(keyPart(opts.Format))
	b.WriteByte(':')
	b.WriteString(sourceHash)
	return b.String()
}

// keyPart keeps separators out of a key segment.
func keyPart(s string) string {
	if s == "" {
		return "-"
	}
	return strings.NewReplacer(":", "_", ".", "_").Replace(s)
}

// Hash returns the hex SHA-256 of data. Source text is hashed with it before
// it reaches a Keyer.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
