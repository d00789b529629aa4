package classify

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

type signer struct {
	pub  string
	priv ed25519.PrivateKey
}

func newSigner(t *testing.T) signer {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pubStr, err := keys.EncodePublicKey(pub)
	if err != nil {
		t.Fatalf("encode pub: %v", err)
	}
	return signer{pub: pubStr, priv: priv}
}

func sign(t *testing.T, s signer, p pact.Pact, kind string, payload map[string]interface{}) pact.Event {
	t.Helper()
	pactHash, err := pacthash.HashJSON(pacthash.TagPact, p)
	if err != nil {
		t.Fatalf("hash pact: %v", err)
	}
	ev := pact.Event{V: pact.VersionEvent, Kind: kind, PactHash: pactHash, Payload: payload, SignerPub: s.pub}
	body := map[string]interface{}{
		"v":          ev.V,
		"kind":       ev.Kind,
		"pact_hash":  ev.PactHash,
		"payload":    ev.Payload,
		"signer_pub": ev.SignerPub,
	}
	bodyCanon, err := canon.Marshal(body)
	if err != nil {
		t.Fatalf("canon: %v", err)
	}
	digest := pacthash.H(pacthash.TagEvent, bodyCanon)
	msg := append([]byte(pacthash.TagSigEvent), 0x00)
	msg = append(msg, digest[:]...)
	sig := ed25519.Sign(s.priv, msg)
	sigStr, err := keys.EncodeSignature(sig)
	if err != nil {
		t.Fatalf("encode sig: %v", err)
	}
	ev.Sig = sigStr
	return ev
}

func testPact(t *testing.T, a, b, clock, metric signer) pact.Pact {
	t.Helper()
	return pact.Pact{
		V:       pact.VersionPact,
		Runtime: pact.Runtime02,
		Parties: pact.Parties{APub: a.pub, BPub: b.pub},
		Assets:  pact.Assets{CollateralAsset: "asset:USDc", SettlementAsset: "asset:USDc"},
		Terms:   pact.Terms{MetricID: "metric:x", ThresholdZ: "100", DurationD: "60000", CapQ: "100"},
		Oracles: pact.Oracles{
			Clock:  pact.OracleSet{Quorum: 1, Pubkeys: []string{clock.pub}},
			Metric: pact.OracleSet{Quorum: 1, Pubkeys: []string{metric.pub}},
		},
	}
}

func TestClassify_SortsIntoBuffers(t *testing.T) {
	a, b, clock, metric := newSigner(t), newSigner(t), newSigner(t), newSigner(t)
	p := testPact(t, a, b, clock, metric)

	env := pact.Envelope{V: pact.VersionEnvelope, Events: []pact.Event{
		sign(t, a, p, pact.KindCollateralPost, map[string]interface{}{"from": "party:a", "amount": "10", "asset": "asset:USDc", "nonce": "1"}),
		sign(t, clock, p, pact.KindClockEvent, map[string]interface{}{"oracle_id": clock.pub, "t": "1", "seq": "1"}),
		sign(t, metric, p, pact.KindMetricEvent, map[string]interface{}{"oracle_id": metric.pub, "metric_id": "metric:x", "t": "1", "v": "95", "seq": "1"}),
		sign(t, b, p, pact.KindClaimRequest, map[string]interface{}{"by": "party:b", "amount": "5", "nonce": "1"}),
	}}

	bufs, err := Classify(p, env)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(bufs.CollateralPosts) != 1 || bufs.CollateralPosts[0].I != 0 {
		t.Errorf("collateral posts: %+v", bufs.CollateralPosts)
	}
	if len(bufs.ClockEvents) != 1 || bufs.ClockEvents[0].I != 1 {
		t.Errorf("clock events: %+v", bufs.ClockEvents)
	}
	if len(bufs.MetricEvents) != 1 || bufs.MetricEvents[0].I != 2 {
		t.Errorf("metric events: %+v", bufs.MetricEvents)
	}
	if len(bufs.ClaimRequests) != 1 || bufs.ClaimRequests[0].I != 3 {
		t.Errorf("claim requests: %+v", bufs.ClaimRequests)
	}
}

func TestClassify_RejectsWrongSignerForCollateralPost(t *testing.T) {
	a, b, clock, metric := newSigner(t), newSigner(t), newSigner(t), newSigner(t)
	p := testPact(t, a, b, clock, metric)
	env := pact.Envelope{V: pact.VersionEnvelope, Events: []pact.Event{
		sign(t, b, p, pact.KindCollateralPost, map[string]interface{}{"from": "party:a", "amount": "10", "asset": "asset:USDc", "nonce": "1"}),
	}}
	_, err := Classify(p, env)
	if !pacterr.Is(err, pacterr.InvalidSigner) {
		t.Fatalf("expected InvalidSigner, got %v", err)
	}
}

func TestClassify_RejectsOracleIDMismatch(t *testing.T) {
	a, b, clock, metric := newSigner(t), newSigner(t), newSigner(t), newSigner(t)
	p := testPact(t, a, b, clock, metric)
	env := pact.Envelope{V: pact.VersionEnvelope, Events: []pact.Event{
		sign(t, clock, p, pact.KindClockEvent, map[string]interface{}{"oracle_id": "ed25519:wrong", "t": "1", "seq": "1"}),
	}}
	_, err := Classify(p, env)
	if !pacterr.Is(err, pacterr.OracleIDMismatch) {
		t.Fatalf("expected OracleIDMismatch, got %v", err)
	}
}

func TestClassify_RejectsUnknownKind(t *testing.T) {
	a, b, clock, metric := newSigner(t), newSigner(t), newSigner(t), newSigner(t)
	p := testPact(t, a, b, clock, metric)
	env := pact.Envelope{V: pact.VersionEnvelope, Events: []pact.Event{
		sign(t, a, p, "bogus_kind", map[string]interface{}{}),
	}}
	_, err := Classify(p, env)
	if !pacterr.Is(err, pacterr.UnknownEventKind) {
		t.Fatalf("expected UnknownEventKind, got %v", err)
	}
}
