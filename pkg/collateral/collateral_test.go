package collateral

import (
	"testing"

	"github.com/pactum-protocol/pactum-core/pkg/classify"
	"github.com/pactum-protocol/pactum-core/pkg/pact"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
)

func postRef(i int, amount, asset string) classify.Ref {
	return classify.Ref{I: i, Event: pact.Event{
		Kind:    pact.KindCollateralPost,
		Payload: map[string]interface{}{"from": "party:a", "amount": amount, "asset": asset, "nonce": "1"},
	}}
}

func TestApply_AccumulatesCollateral(t *testing.T) {
	got, steps, err := Apply(0, "asset:USDc", []classify.Ref{postRef(0, "10", "asset:USDc"), postRef(1, "5", "asset:USDc")})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
}

func TestApply_RejectsAssetMismatch(t *testing.T) {
	_, _, err := Apply(0, "asset:USDc", []classify.Ref{postRef(0, "10", "asset:other")})
	if !pacterr.Is(err, pacterr.ClaimNotAllowed) {
		t.Fatalf("expected ClaimNotAllowed, got %v", err)
	}
}
