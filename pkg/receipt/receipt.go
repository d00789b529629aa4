// Package receipt builds and verifies Pactum step receipts.
//
// Adapted from a Merkle receipt design that proves inclusion by walking a
// Merkle path from a leaf to an anchor and comparing the recomputed root,
// fail-closed, against the claimed anchor. Pactum has no Merkle path — a
// receipt is six independently-named hashes over the transition's pact,
// prev state, envelope, new state, outputs, and trace — so Build recomputes
// each hash directly and Verify recomputes and compares all six, failing
// closed on the first mismatch.
package receipt

import (
	"fmt"

	"github.com/pactum-protocol/pactum-core/pkg/pact"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
	"github.com/pactum-protocol/pactum-core/pkg/pacthash"
)

// Receipt is the six-hash chain binding one step transition's inputs and
// outputs together.
type Receipt struct {
	V              string `json:"v"`
	PactHash       string `json:"pact_hash"`
	PrevStateHash  string `json:"prev_state_hash"`
	EnvelopeHash   string `json:"envelope_hash"`
	NewStateHash   string `json:"new_state_hash"`
	OutputsHash    string `json:"outputs_hash"`
	TraceHash      string `json:"trace_hash"`
}

// Build computes the six canonical hashes for a completed transition.
func Build(p pact.Pact, prevState, newState interface{}, envelope pact.Envelope, outputs, trace interface{}) (Receipt, error) {
	pactHash, err := pacthash.HashJSON(pacthash.TagPact, p)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt: hash pact: %w", err)
	}
	prevStateHash, err := pacthash.HashJSON(pacthash.TagState, prevState)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt: hash prev state: %w", err)
	}
	envelopeHash, err := pacthash.HashJSON(pacthash.TagEnvelope, envelope)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt: hash envelope: %w", err)
	}
	newStateHash, err := pacthash.HashJSON(pacthash.TagState, newState)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt: hash new state: %w", err)
	}
	outputsHash, err := pacthash.HashJSON(pacthash.TagOutputs, outputs)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt: hash outputs: %w", err)
	}
	traceHash, err := pacthash.HashJSON(pacthash.TagTrace, trace)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt: hash trace: %w", err)
	}

	return Receipt{
		V:             pact.VersionReceipt,
		PactHash:      pactHash,
		PrevStateHash: prevStateHash,
		EnvelopeHash:  envelopeHash,
		NewStateHash:  newStateHash,
		OutputsHash:   outputsHash,
		TraceHash:     traceHash,
	}, nil
}

// Hash returns hash_json("pactum:receipt:0", r), the receipt's own hash for
// callers that chain receipts.
func Hash(r *Receipt) (string, error) {
	return pacthash.HashJSON(pacthash.TagReceipt, r)
}

// Verify independently recomputes all six hashes from the provided
// artifacts and compares them against r, fail-closed: any mismatch returns
// a ReceiptMismatch error naming the first field that disagrees.
func Verify(r Receipt, p pact.Pact, prevState, newState interface{}, envelope pact.Envelope, outputs, trace interface{}) error {
	want, err := Build(p, prevState, newState, envelope, outputs, trace)
	if err != nil {
		return err
	}
	switch {
	case want.PactHash != r.PactHash:
		return pacterr.New(pacterr.ReceiptMismatch, "pact_hash")
	case want.PrevStateHash != r.PrevStateHash:
		return pacterr.New(pacterr.ReceiptMismatch, "prev_state_hash")
	case want.EnvelopeHash != r.EnvelopeHash:
		return pacterr.New(pacterr.ReceiptMismatch, "envelope_hash")
	case want.NewStateHash != r.NewStateHash:
		return pacterr.New(pacterr.ReceiptMismatch, "new_state_hash")
	case want.OutputsHash != r.OutputsHash:
		return pacterr.New(pacterr.ReceiptMismatch, "outputs_hash")
	case want.TraceHash != r.TraceHash:
		return pacterr.New(pacterr.ReceiptMismatch, "trace_hash")
	}
	return nil
}
