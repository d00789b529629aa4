package eventsig

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/pactum-protocol/pactum-core/pkg/canon"
	"github.com/pactum-protocol/pactum-core/pkg/keys"
	"github.com/pactum-protocol/pactum-core/pkg/pact"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
	"github.com/pactum-protocol/pactum-core/pkg/pacthash"
)

func testPact(t *testing.T, aPub, bPub string) pact.Pact {
	t.Helper()
	return pact.Pact{
		V:       pact.VersionPact,
		Runtime: pact.Runtime02,
		Parties: pact.Parties{APub: aPub, BPub: bPub},
		Assets:  pact.Assets{CollateralAsset: "asset:USDc", SettlementAsset: "asset:USDc"},
		Terms:   pact.Terms{MetricID: "metric:x", ThresholdZ: "100", DurationD: "60000", CapQ: "100"},
		Oracles: pact.Oracles{
			Clock:  pact.OracleSet{Quorum: 1, Pubkeys: []string{aPub}},
			Metric: pact.OracleSet{Quorum: 1, Pubkeys: []string{aPub}},
		},
	}
}

func signEvent(t *testing.T, priv ed25519.PrivateKey, pubStr string, p pact.Pact, kind string, payload map[string]interface{}) pact.Event {
	t.Helper()
	pactHash, err := pacthash.HashJSON(pacthash.TagPact, p)
	if err != nil {
		t.Fatalf("hash pact: %v", err)
	}
	ev := pact.Event{
		V:         pact.VersionEvent,
		Kind:      kind,
		PactHash:  pactHash,
		Payload:   payload,
		SignerPub: pubStr,
	}
	b := body{V: ev.V, Kind: ev.Kind, PactHash: ev.PactHash, Payload: ev.Payload, SignerPub: ev.SignerPub}
	bodyCanon, err := canon.Marshal(b)
	if err != nil {
		t.Fatalf("canon body: %v", err)
	}
	digest := pacthash.H(pacthash.TagEvent, bodyCanon)
	msg := append([]byte(pacthash.TagSigEvent), 0x00)
	msg = append(msg, digest[:]...)
	sig := ed25519.Sign(priv, msg)
	sigStr, err := keys.EncodeSignature(sig)
	if err != nil {
		t.Fatalf("encode sig: %v", err)
	}
	ev.Sig = sigStr
	return ev
}

func TestVerify_AcceptsValidSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pubStr, err := keys.EncodePublicKey(pub)
	if err != nil {
		t.Fatalf("encode pub: %v", err)
	}
	p := testPact(t, pubStr, pubStr)
	ev := signEvent(t, priv, pubStr, p, pact.KindClockEvent, map[string]interface{}{"oracle_id": pubStr, "t": "1", "seq": "1"})

	if err := Verify(ev, p); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerify_RejectsTamperedPayload(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pubStr, err := keys.EncodePublicKey(pub)
	if err != nil {
		t.Fatalf("encode pub: %v", err)
	}
	p := testPact(t, pubStr, pubStr)
	ev := signEvent(t, priv, pubStr, p, pact.KindClockEvent, map[string]interface{}{"oracle_id": pubStr, "t": "1", "seq": "1"})
	ev.Payload["t"] = "2"

	err = Verify(ev, p)
	if !pacterr.Is(err, pacterr.SigInvalid) {
		t.Fatalf("expected SigInvalid, got %v", err)
	}
}

func TestVerify_RejectsWrongPactHash(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pubStr, err := keys.EncodePublicKey(pub)
	if err != nil {
		t.Fatalf("encode pub: %v", err)
	}
	p := testPact(t, pubStr, pubStr)
	ev := signEvent(t, priv, pubStr, p, pact.KindClockEvent, map[string]interface{}{"oracle_id": pubStr, "t": "1", "seq": "1"})
	ev.PactHash = "sha256:" + "0000000000000000000000000000000000000000000000000000000000000000"[:64]

	err = Verify(ev, p)
	if !pacterr.Is(err, pacterr.InvalidPactHash) {
		t.Fatalf("expected InvalidPactHash, got %v", err)
	}
}

func TestVerify_RejectsMalformedSignerKey(t *testing.T) {
	p := testPact(t, "ed25519:AAAA", "ed25519:AAAA")
	ev := pact.Event{
		V:         pact.VersionEvent,
		Kind:      pact.KindClockEvent,
		PactHash:  mustHash(t, p),
		Payload:   map[string]interface{}{"oracle_id": "ed25519:AAAA", "t": "1", "seq": "1"},
		SignerPub: "not-a-key",
		Sig:       "ed25519sig:" + "AAAA",
	}
	err := Verify(ev, p)
	if !pacterr.Is(err, pacterr.InvalidSigner) {
		t.Fatalf("expected InvalidSigner, got %v", err)
	}
}

func mustHash(t *testing.T, p pact.Pact) string {
	t.Helper()
	h, err := pacthash.HashJSON(pacthash.TagPact, p)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}
