// Package step implements the Pactum V0 transition function: the fixed
// seven-phase pipeline that turns (pact, prev_state, envelope) into
// (new_state, outputs, trace, receipt).
//
// Phase order is grounded directly on the reference driver's step function:
// verify every signature, classify, apply collateral, commit clock rounds,
// commit metric rounds, apply claims, assemble. Any error in the first six
// phases aborts the whole transition; no partial state is ever returned.
package step

import (
	"github.com/pactum-protocol/pactum-core/pkg/breach"
	"github.com/pactum-protocol/pactum-core/pkg/claim"
	"github.com/pactum-protocol/pactum-core/pkg/classify"
	"github.com/pactum-protocol/pactum-core/pkg/collateral"
	"github.com/pactum-protocol/pactum-core/pkg/numeric"
	"github.com/pactum-protocol/pactum-core/pkg/pact"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
	"github.com/pactum-protocol/pactum-core/pkg/pacthash"
	"github.com/pactum-protocol/pactum-core/pkg/quorum"
	"github.com/pactum-protocol/pactum-core/pkg/receipt"
	"github.com/pactum-protocol/pactum-core/pkg/trace"
)

// Outputs is the set of observable effects a transition produced.
type Outputs struct {
	V       string         `json:"v"`
	Effects []claim.Effect `json:"effects"`
}

// Result bundles everything Step produces.
type Result struct {
	NewState *pact.State
	Outputs  Outputs
	Trace    trace.Trace
	Receipt  receipt.Receipt
}

// Step runs the fixed seven-phase transition over prevState and envelope
// against p, returning an error with a stable pacterr.Token on any failure
// in phases 1-6.
func Step(p pact.Pact, prevState *pact.State, envelope pact.Envelope) (Result, error) {
	expectedPactHash, err := hashPact(p)
	if err != nil {
		return Result{}, err
	}
	if prevState.PactHash != expectedPactHash {
		return Result{}, pacterr.New(pacterr.InvalidState, "prev_state.pact_hash does not bind to pact")
	}

	// Phase 1-2: verify signatures and classify.
	bufs, err := classify.Classify(p, envelope)
	if err != nil {
		return Result{}, err
	}

	thresholdZ, err := numeric.Parse(p.Terms.ThresholdZ)
	if err != nil {
		return Result{}, err
	}
	durationD, err := numeric.Parse(p.Terms.DurationD)
	if err != nil {
		return Result{}, err
	}
	capQ, err := numeric.Parse(p.Terms.CapQ)
	if err != nil {
		return Result{}, err
	}

	now, err := numeric.Parse(prevState.Now)
	if err != nil {
		return Result{}, err
	}
	collateralPosted, err := numeric.Parse(prevState.CollateralPosted)
	if err != nil {
		return Result{}, err
	}
	claimPaid, err := numeric.Parse(prevState.ClaimPaid)
	if err != nil {
		return Result{}, err
	}
	metricLastT, err := numeric.Parse(zeroIfEmpty(prevState.MetricLast.T))
	if err != nil {
		return Result{}, err
	}
	metricLastV, err := numeric.Parse(zeroIfEmpty(prevState.MetricLast.V))
	if err != nil {
		return Result{}, err
	}
	var breachStartTime *uint64
	if prevState.BreachStartTime != nil {
		v, err := numeric.Parse(*prevState.BreachStartTime)
		if err != nil {
			return Result{}, err
		}
		breachStartTime = &v
	}
	triggered := prevState.Triggered
	clockRound, err := numeric.Parse(zeroIfEmpty(prevState.ClockRound))
	if err != nil {
		return Result{}, err
	}
	metricRound, err := numeric.Parse(zeroIfEmpty(prevState.MetricRound))
	if err != nil {
		return Result{}, err
	}

	oracleSeq := make(map[string]uint64, len(prevState.OracleSeq))
	for k, v := range prevState.OracleSeq {
		parsed, err := numeric.Parse(v)
		if err != nil {
			return Result{}, err
		}
		oracleSeq[k] = parsed
	}
	oracleTime := make(map[string]uint64, len(prevState.OracleTime))
	for k, v := range prevState.OracleTime {
		parsed, err := numeric.Parse(v)
		if err != nil {
			return Result{}, err
		}
		oracleTime[k] = parsed
	}

	var steps []trace.Step

	// Phase 3: apply collateral posts.
	collateralPosted, collateralSteps, err := collateral.Apply(collateralPosted, p.Assets.CollateralAsset, bufs.CollateralPosts)
	if err != nil {
		return Result{}, err
	}
	steps = append(steps, collateralSteps...)

	// Phase 4: commit clock rounds.
	clockRounds, err := quorum.CommitClockRounds(clockRound, p.Oracles.Clock.Quorum, bufs.ClockEvents)
	if err != nil {
		return Result{}, err
	}
	for _, cr := range clockRounds {
		if cr.EffectiveT > now {
			now = cr.EffectiveT
		}
		clockRound = cr.Target
		for _, s := range cr.Participants {
			oracleSeq[s] = cr.Target
			oracleTime[s] = cr.SignerTimes[s]
		}
		steps = append(steps, trace.CommitClockQuorumStep(cr.Target, cr.Participants, cr.EffectiveT, len(cr.Participants), p.Oracles.Clock.Quorum))
	}

	// Phase 5: commit metric rounds.
	metricRounds, err := quorum.CommitMetricRounds(metricRound, p.Oracles.Metric.Quorum, p.Terms.MetricID, bufs.MetricEvents)
	if err != nil {
		return Result{}, err
	}
	for _, mr := range metricRounds {
		metricLastT = mr.EffectiveT
		metricLastV = mr.EffectiveV
		metricRound = mr.Target

		var status breach.Status
		breachStartTime, triggered, status = breach.Update(breachStartTime, triggered, now, mr.EffectiveV, thresholdZ, durationD)

		for _, s := range mr.Participants {
			oracleSeq[s] = mr.Target
			oracleTime[s] = mr.SignerTimes[s]
		}
		steps = append(steps, trace.CommitMetricQuorumStep(mr.Target, mr.Participants, mr.EffectiveV, mr.EffectiveT, len(mr.Participants), p.Oracles.Metric.Quorum, status, breachStartTime, triggered))
	}

	// Phase 6: apply claims.
	claimResult, err := claim.Apply(triggered, claimPaid, capQ, collateralPosted, p.Assets.CollateralAsset, bufs.ClaimRequests)
	if err != nil {
		return Result{}, err
	}
	claimPaid = claimResult.ClaimPaid
	steps = append(steps, claimResult.Steps...)

	// Phase 7: assemble.
	newState := &pact.State{
		V:                pact.VersionState,
		PactHash:         expectedPactHash,
		Now:              numeric.String(now),
		CollateralPosted: numeric.String(collateralPosted),
		MetricLast:       pact.MetricReading{T: numeric.String(metricLastT), V: numeric.String(metricLastV)},
		Triggered:        triggered,
		ClaimPaid:        numeric.String(claimPaid),
		ClockRound:       numeric.String(clockRound),
		MetricRound:      numeric.String(metricRound),
		OracleSeq:        map[string]string{},
		OracleTime:       map[string]string{},
	}
	if breachStartTime != nil {
		bst := numeric.String(*breachStartTime)
		newState.BreachStartTime = &bst
	}
	for s, v := range oracleSeq {
		newState.OracleSeq[s] = numeric.String(v)
	}
	for s, v := range oracleTime {
		newState.OracleTime[s] = numeric.String(v)
	}

	outputs := Outputs{V: pact.VersionOutputs, Effects: claimResult.Effects}
	if outputs.Effects == nil {
		outputs.Effects = []claim.Effect{}
	}
	tr := trace.New(steps)

	r, err := receipt.Build(p, prevState, newState, envelope, outputs, tr)
	if err != nil {
		return Result{}, err
	}

	return Result{NewState: newState, Outputs: outputs, Trace: tr, Receipt: r}, nil
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func hashPact(p pact.Pact) (string, error) {
	return pacthash.HashJSON(pacthash.TagPact, p)
}
