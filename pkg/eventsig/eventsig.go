// Package eventsig verifies Pactum event signatures.
//
// Adapted from pkg/attestation/strategy's Ed25519Strategy.Verify: the same
// decode-key/decode-signature/domain-message/verify shape, rebuilt here
// around the event body (v, kind, pact_hash, payload, signer_pub) rather
// than a generic AttestationMessage, since Pactum events carry their own
// domain separation instead of a configurable Domain field. Verification
// uses ed25519consensus (ZIP 215 rules, which reject non-canonical S) plus
// an explicit cofactor check that rejects small-order public keys, which
// neither ed25519consensus nor stdlib crypto/ed25519 rejects on its own.
package eventsig

import (
	"filippo.io/edwards25519"
	"github.com/hdevalence/ed25519consensus"

	"github.com/pactum-protocol/pactum-core/pkg/canon"
	"github.com/pactum-protocol/pactum-core/pkg/keys"
	"github.com/pactum-protocol/pactum-core/pkg/pact"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
	"github.com/pactum-protocol/pactum-core/pkg/pacthash"
)

// body is the event minus its sig field, the exact object the signature
// covers.
type body struct {
	V         string                 `json:"v"`
	Kind      string                 `json:"kind"`
	PactHash  string                 `json:"pact_hash"`
	Payload   map[string]interface{} `json:"payload"`
	SignerPub string                 `json:"signer_pub"`
}

// Verify checks that ev.PactHash matches hash_json("pactum:pact:0", p), and
// that ev.Sig is a valid, strict Ed25519 signature by ev.SignerPub over the
// event body under the "pactum:sig:event:0" domain: non-canonical S values
// and small-order public keys are rejected, not just malformed encodings.
//
// Returns *pacterr.Error with token InvalidPactHash, InvalidSigner, or
// SigInvalid on failure.
func Verify(ev pact.Event, p pact.Pact) error {
	expectedPactHash, err := pacthash.HashJSON(pacthash.TagPact, p)
	if err != nil {
		return pacterr.Wrap(pacterr.InvalidPactHash, err, "hash pact")
	}
	if ev.PactHash != expectedPactHash {
		return pacterr.New(pacterr.InvalidPactHash, "event declares %s, pact hashes to %s", ev.PactHash, expectedPactHash)
	}

	b := body{
		V:         ev.V,
		Kind:      ev.Kind,
		PactHash:  ev.PactHash,
		Payload:   ev.Payload,
		SignerPub: ev.SignerPub,
	}
	bodyCanon, err := canon.Marshal(b)
	if err != nil {
		return pacterr.Wrap(pacterr.SigInvalid, err, "canonicalize event body")
	}
	bodyDigest := pacthash.H(pacthash.TagEvent, bodyCanon)

	msg := make([]byte, 0, len(pacthash.TagSigEvent)+1+32)
	msg = append(msg, pacthash.TagSigEvent...)
	msg = append(msg, 0x00)
	msg = append(msg, bodyDigest[:]...)

	pub, err := keys.DecodePublicKey(ev.SignerPub)
	if err != nil {
		return pacterr.Wrap(pacterr.InvalidSigner, err, "decode signer_pub")
	}
	point, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return pacterr.Wrap(pacterr.InvalidSigner, err, "decode signer_pub point")
	}
	if new(edwards25519.Point).MultByCofactor(point).Equal(edwards25519.NewIdentityPoint()) == 1 {
		return pacterr.New(pacterr.SigInvalid, "small-order public key %s", ev.SignerPub)
	}
	sig, err := keys.DecodeSignature(ev.Sig)
	if err != nil {
		return pacterr.Wrap(pacterr.InvalidSigner, err, "decode sig")
	}

	if !ed25519consensus.Verify(pub, msg, sig) {
		return pacterr.New(pacterr.SigInvalid, "ed25519 verification failed for signer %s", ev.SignerPub)
	}
	return nil
}
