package main

import (
	"encoding/json"
	"fmt"

	"github.com/pactum-protocol/pactum-core/pkg/pact"
)

func decodeStepInput(in stepInput) (pact.Pact, *pact.State, pact.Envelope, error) {
	var p pact.Pact
	if err := json.Unmarshal(in.Pact, &p); err != nil {
		return pact.Pact{}, nil, pact.Envelope{}, fmt.Errorf("decode pact: %w", err)
	}
	var prevState pact.State
	if err := json.Unmarshal(in.PrevState, &prevState); err != nil {
		return pact.Pact{}, nil, pact.Envelope{}, fmt.Errorf("decode prev_state: %w", err)
	}
	var envelope pact.Envelope
	if err := json.Unmarshal(in.Envelope, &envelope); err != nil {
		return pact.Pact{}, nil, pact.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return p, &prevState, envelope, nil
}
