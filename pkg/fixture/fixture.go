// Package fixture derives deterministic Ed25519 keys for test and demo
// fixtures, and persists canonical artifacts one-per-line.
//
// Key derivation is grounded on gen_fixtures.rs's derive_signing_key:
// seed = SHA-256("pactum:fixture:key:0" || 0x00 || label), the seed used
// directly as the Ed25519 private key seed. Go's ed25519.NewKeyFromSeed
// and Rust's SigningKey::from_bytes both expand a 32-byte seed via SHA-512
// the same way, so a label produces the same key pair in both languages.
package fixture

import (
	"crypto/ed25519"

	"github.com/pactum-protocol/pactum-core/pkg/canon"
	"github.com/pactum-protocol/pactum-core/pkg/merkle"
	"github.com/pactum-protocol/pactum-core/pkg/pacthash"
)

// DeriveKey returns the Ed25519 key pair deterministically derived from
// label. The same label always yields the same key pair.
func DeriveKey(label string) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := pacthash.H("pactum:fixture:key:0", []byte(label))
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv
}

// Line renders v as its canonical JSON encoding followed by a single
// newline, the fixture file line format.
func Line(v interface{}) ([]byte, error) {
	body, err := canon.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

// BatchRoot computes a Merkle root over a set of canonicalized fixture
// records, giving a single integrity hash for a whole fixture directory.
// Adapted from pkg/merkle's inclusion-proof tree, repurposed here as a
// flat batch digest rather than a per-leaf inclusion proof.
func BatchRoot(records []interface{}) (string, error) {
	leaves := make([][]byte, 0, len(records))
	for _, r := range records {
		body, err := canon.Marshal(r)
		if err != nil {
			return "", err
		}
		leaves = append(leaves, merkle.HashData(body))
	}
	if len(leaves) == 0 {
		return pacthash.Prefixed(pacthash.H("pactum:fixture:batch:0", nil)), nil
	}
	tree, err := merkle.BuildTree(leaves)
	if err != nil {
		return "", err
	}
	return "sha256:" + tree.RootHex(), nil
}
