// Package keys encodes and decodes Pactum's string forms of Ed25519 public
// keys and signatures: "ed25519:<base64url-nopad>" and
// "ed25519sig:<base64url-nopad>" respectively.
//
// Size validation follows the same pattern as
// pkg/attestation/strategy's Ed25519 strategy (checking against
// ed25519.PublicKeySize / ed25519.SignatureSize before trusting raw bytes),
// adapted here from hex to base64url since that is Pactum's wire encoding.
package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	pubKeyPrefix = "ed25519:"
	sigPrefix    = "ed25519sig:"
)

var b64 = base64.URLEncoding.WithPadding(base64.NoPadding)

// EncodePublicKey renders a raw 32-byte Ed25519 public key as
// "ed25519:<base64url-nopad>".
func EncodePublicKey(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("keys: invalid public key size: expected %d, got %d", ed25519.PublicKeySize, len(pub))
	}
	return pubKeyPrefix + b64.EncodeToString(pub), nil
}

// DecodePublicKey parses "ed25519:<base64url-nopad>" into raw key bytes.
func DecodePublicKey(s string) (ed25519.PublicKey, error) {
	rest, ok := strings.CutPrefix(s, pubKeyPrefix)
	if !ok {
		return nil, fmt.Errorf("keys: public key missing %q prefix", pubKeyPrefix)
	}
	raw, err := b64.DecodeString(rest)
	if err != nil {
		return nil, fmt.Errorf("keys: invalid base64 public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("keys: invalid public key size: expected %d, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// EncodeSignature renders a raw 64-byte Ed25519 signature as
// "ed25519sig:<base64url-nopad>".
func EncodeSignature(sig []byte) (string, error) {
	if len(sig) != ed25519.SignatureSize {
		return "", fmt.Errorf("keys: invalid signature size: expected %d, got %d", ed25519.SignatureSize, len(sig))
	}
	return sigPrefix + b64.EncodeToString(sig), nil
}

// DecodeSignature parses "ed25519sig:<base64url-nopad>" into raw bytes.
func DecodeSignature(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, sigPrefix)
	if !ok {
		return nil, fmt.Errorf("keys: signature missing %q prefix", sigPrefix)
	}
	raw, err := b64.DecodeString(rest)
	if err != nil {
		return nil, fmt.Errorf("keys: invalid base64 signature: %w", err)
	}
	if len(raw) != ed25519.SignatureSize {
		return nil, fmt.Errorf("keys: invalid signature size: expected %d, got %d", ed25519.SignatureSize, len(raw))
	}
	return raw, nil
}
