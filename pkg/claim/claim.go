// Package claim settles claim_request events against a triggered pact.
//
// Grounded on the reference driver's claim loop: applied after all oracle
// commits, enforcing trigger/cap/availability in envelope order and
// emitting one asset_flow effect per settled claim.
package claim

import (
	"github.com/pactum-protocol/pactum-core/pkg/classify"
	"github.com/pactum-protocol/pactum-core/pkg/numeric"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
	"github.com/pactum-protocol/pactum-core/pkg/trace"
)

// Effect is an observable output of a step transition.
type Effect struct {
	Kind   string `json:"kind"`
	From   string `json:"from"`
	To     string `json:"to"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

// Result is the outcome of settling a batch of claim_requests.
type Result struct {
	ClaimPaid uint64
	Effects   []Effect
	Steps     []trace.Step
}

// Apply settles requests in envelope order against triggered/capQ/available.
func Apply(triggered bool, claimPaid, capQ, collateralPosted uint64, collateralAsset string, requests []classify.Ref) (Result, error) {
	var out Result
	out.ClaimPaid = claimPaid
	effectIndex := 0

	for _, ref := range requests {
		if !triggered {
			return Result{}, pacterr.New(pacterr.ClaimNotAllowed, "pact not triggered")
		}

		amountStr, ok := ref.Event.Payload["amount"].(string)
		if !ok {
			return Result{}, pacterr.New(pacterr.MissingField, "amount")
		}
		amount, err := numeric.Parse(amountStr)
		if err != nil {
			return Result{}, err
		}

		if amount > capQ {
			return Result{}, pacterr.New(pacterr.ClaimNotAllowed, "amount %d exceeds cap %d", amount, capQ)
		}
		available := collateralPosted - out.ClaimPaid
		if amount > available {
			return Result{}, pacterr.New(pacterr.ClaimNotAllowed, "amount %d exceeds available %d", amount, available)
		}

		out.Effects = append(out.Effects, Effect{
			Kind:   "asset_flow",
			From:   "party:a",
			To:     "party:b",
			Asset:  collateralAsset,
			Amount: numeric.String(amount),
		})
		out.ClaimPaid += amount
		out.Steps = append(out.Steps, trace.ApplyClaimStep(ref.I, amount, out.ClaimPaid, effectIndex))
		effectIndex++
	}

	return out, nil
}
