// Package pacthash implements Pactum's domain-separated SHA-256 hashing.
//
// Adapted from pkg/commitment's HashConcat/HashBytes concatenated-hash idiom,
// generalized from a fixed "0x" prefix to an arbitrary protocol tag so the
// same primitive serves every canonical tag in the protocol (pact, state,
// envelope, event, outputs, trace, receipt, sig).
package pacthash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pactum-protocol/pactum-core/pkg/canon"
)

// Canonical domain tags. Changing any of these is a protocol-breaking change.
const (
	TagPact     = "pactum:pact:0"
	TagState    = "pactum:state:0"
	TagEnvelope = "pactum:envelope:0"
	TagEvent    = "pactum:event:0"
	TagOutputs  = "pactum:outputs:0"
	TagTrace    = "pactum:trace:0"
	TagReceipt  = "pactum:receipt:0"
	TagSigEvent = "pactum:sig:event:0"
)

const prefix = "sha256:"

// H computes SHA256(tag || 0x00 || data), the protocol's domain-separated
// hash primitive.
func H(tag string, data []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(tag))
	h.Write([]byte{0x00})
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Prefixed renders a raw digest as "sha256:<hex>".
func Prefixed(digest [32]byte) string {
	return prefix + hex.EncodeToString(digest[:])
}

// ParsePrefixed parses a "sha256:<hex>" string back into raw bytes.
func ParsePrefixed(s string) ([32]byte, error) {
	var out [32]byte
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return out, fmt.Errorf("pacthash: missing %q prefix", prefix)
	}
	b, err := hex.DecodeString(rest)
	if err != nil {
		return out, fmt.Errorf("pacthash: invalid hex: %w", err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("pacthash: expected 32 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// HashJSON canonicalizes v and returns H(tag, canon(v)) as "sha256:<hex>".
func HashJSON(tag string, v interface{}) (string, error) {
	body, err := canon.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("pacthash: canonicalize for tag %s: %w", tag, err)
	}
	return Prefixed(H(tag, body)), nil
}
