// Package collateral applies collateral_post events to running state.
//
// Grounded on the reference driver's collateral-post loop: applied before
// any oracle round commits, so a claim in the same envelope can consume
// collateral posted earlier in that same envelope.
package collateral

import (
	"github.com/pactum-protocol/pactum-core/pkg/classify"
	"github.com/pactum-protocol/pactum-core/pkg/numeric"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
	"github.com/pactum-protocol/pactum-core/pkg/trace"
)

// Apply iterates posts in envelope order, requiring every post's asset to
// equal collateralAsset, and returns the updated running total plus one
// apply_collateral trace step per post.
func Apply(collateralPosted uint64, collateralAsset string, posts []classify.Ref) (uint64, []trace.Step, error) {
	var steps []trace.Step
	for _, ref := range posts {
		amountStr, ok := ref.Event.Payload["amount"].(string)
		if !ok {
			return 0, nil, pacterr.New(pacterr.MissingField, "amount")
		}
		amount, err := numeric.Parse(amountStr)
		if err != nil {
			return 0, nil, err
		}
		asset, ok := ref.Event.Payload["asset"].(string)
		if !ok {
			return 0, nil, pacterr.New(pacterr.MissingField, "asset")
		}
		if asset != collateralAsset {
			return 0, nil, pacterr.New(pacterr.ClaimNotAllowed, "asset mismatch: %s != %s", asset, collateralAsset)
		}

		collateralPosted += amount
		steps = append(steps, trace.ApplyCollateralStep(ref.I, amount, collateralPosted))
	}
	return collateralPosted, steps, nil
}
