// Package quorum commits clock and metric oracle rounds.
//
// Grounded on the reference driver's commit_clock_quorum / commit_metric_quorum
// plus its seq-indexed commit loop: events are grouped by declared seq,
// replay and skip are rejected, and each complete round is committed by
// lower-median (ties broken by signer key) before the next round is
// attempted.
package quorum

import (
	"sort"

	"github.com/pactum-protocol/pactum-core/pkg/classify"
	"github.com/pactum-protocol/pactum-core/pkg/numeric"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
)

// ClockRound is one committed clock round's outcome.
type ClockRound struct {
	Target       uint64
	EffectiveT   uint64
	Participants []string
	SignerTimes  map[string]uint64
}

// MetricRound is one committed metric round's outcome.
type MetricRound struct {
	Target       uint64
	EffectiveV   uint64
	EffectiveT   uint64
	Participants []string
	SignerTimes  map[string]uint64
}

type clockObs struct {
	t uint64
}

type metricObs struct {
	t uint64
	v uint64
}

func payloadUint(ref classify.Ref, field string) (uint64, error) {
	raw, ok := ref.Event.Payload[field].(string)
	if !ok {
		return 0, pacterr.New(pacterr.MissingField, "%s", field)
	}
	return numeric.Parse(raw)
}

func payloadSeq(ref classify.Ref) (uint64, error) {
	return payloadUint(ref, "seq")
}

// lowerMedian sorts signer values by (value, signer) ascending and returns
// the lower-median entry. This is the sole aggregation rule, for quorum == 1
// and quorum >= 2 alike: with a single signer the median is just that
// signer's value, so unifying removes a second code path the open question
// showed was unreachable in practice anyway.
func lowerMedian(values map[string]uint64) uint64 {
	type pair struct {
		v uint64
		s string
	}
	pairs := make([]pair, 0, len(values))
	for s, v := range values {
		pairs = append(pairs, pair{v: v, s: s})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].v != pairs[j].v {
			return pairs[i].v < pairs[j].v
		}
		return pairs[i].s < pairs[j].s
	})
	return pairs[(len(pairs)-1)/2].v
}

func sortedSigners(m map[string]uint64) []string {
	out := make([]string, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// CommitClockRounds groups clock events by seq, rejects replay/skip/duplicate
// signers, and commits every consecutive round starting at round+1 for which
// quorum distinct authorized signers contributed.
func CommitClockRounds(round uint64, quorumN int, evs []classify.Ref) ([]ClockRound, error) {
	bySeq := map[uint64][]classify.Ref{}
	for _, ref := range evs {
		seq, err := payloadSeq(ref)
		if err != nil {
			return nil, err
		}
		if seq <= round {
			return nil, pacterr.New(pacterr.SeqReplay, "seq %d <= clock_round %d", seq, round)
		}
		bySeq[seq] = append(bySeq[seq], ref)
	}

	var rounds []ClockRound
	for {
		target := round + 1
		group, ok := bySeq[target]
		if !ok {
			if hasHigherSeq(bySeq, target) {
				return nil, pacterr.New(pacterr.SeqSkip, "missing seq %d", target)
			}
			break
		}
		delete(bySeq, target)

		byeSigner := map[string]clockObs{}
		for _, ref := range group {
			t, err := payloadUint(ref, "t")
			if err != nil {
				return nil, err
			}
			if _, dup := byeSigner[ref.Event.SignerPub]; dup {
				return nil, pacterr.New(pacterr.DupSigner, "duplicate oracle signer in same round")
			}
			byeSigner[ref.Event.SignerPub] = clockObs{t: t}
		}
		if len(byeSigner) < quorumN {
			return nil, pacterr.New(pacterr.QuorumNotMet, "need %d, got %d", quorumN, len(byeSigner))
		}

		values := make(map[string]uint64, len(byeSigner))
		for s, o := range byeSigner {
			values[s] = o.t
		}

		effectiveT := lowerMedian(values)

		signerTimes := make(map[string]uint64, len(byeSigner))
		for s, o := range byeSigner {
			signerTimes[s] = o.t
		}

		rounds = append(rounds, ClockRound{
			Target:       target,
			EffectiveT:   effectiveT,
			Participants: sortedSigners(values),
			SignerTimes:  signerTimes,
		})
		round = target
	}
	return rounds, nil
}

// CommitMetricRounds is CommitClockRounds' metric-feed counterpart: it also
// requires every event's payload.metric_id to equal expectedMetricID.
func CommitMetricRounds(round uint64, quorumN int, expectedMetricID string, evs []classify.Ref) ([]MetricRound, error) {
	bySeq := map[uint64][]classify.Ref{}
	for _, ref := range evs {
		seq, err := payloadSeq(ref)
		if err != nil {
			return nil, err
		}
		if seq <= round {
			return nil, pacterr.New(pacterr.SeqReplay, "seq %d <= metric_round %d", seq, round)
		}
		bySeq[seq] = append(bySeq[seq], ref)
	}

	var rounds []MetricRound
	for {
		target := round + 1
		group, ok := bySeq[target]
		if !ok {
			if hasHigherSeq(bySeq, target) {
				return nil, pacterr.New(pacterr.SeqSkip, "missing seq %d", target)
			}
			break
		}
		delete(bySeq, target)

		byeSigner := map[string]metricObs{}
		for _, ref := range group {
			t, err := payloadUint(ref, "t")
			if err != nil {
				return nil, err
			}
			v, err := payloadUint(ref, "v")
			if err != nil {
				return nil, err
			}
			metricID, ok := ref.Event.Payload["metric_id"].(string)
			if !ok {
				return nil, pacterr.New(pacterr.MissingField, "metric_id")
			}
			if metricID != expectedMetricID {
				return nil, pacterr.New(pacterr.ClaimNotAllowed, "metric_id mismatch")
			}
			if _, dup := byeSigner[ref.Event.SignerPub]; dup {
				return nil, pacterr.New(pacterr.DupSigner, "duplicate oracle signer in same round")
			}
			byeSigner[ref.Event.SignerPub] = metricObs{t: t, v: v}
		}
		if len(byeSigner) < quorumN {
			return nil, pacterr.New(pacterr.QuorumNotMet, "need %d, got %d", quorumN, len(byeSigner))
		}

		vValues := make(map[string]uint64, len(byeSigner))
		tValues := make(map[string]uint64, len(byeSigner))
		for s, o := range byeSigner {
			vValues[s] = o.v
			tValues[s] = o.t
		}

		effectiveV := lowerMedian(vValues)
		effectiveT := lowerMedian(tValues)

		signerTimes := make(map[string]uint64, len(byeSigner))
		for s, o := range byeSigner {
			signerTimes[s] = o.t
		}

		rounds = append(rounds, MetricRound{
			Target:       target,
			EffectiveV:   effectiveV,
			EffectiveT:   effectiveT,
			Participants: sortedSigners(vValues),
			SignerTimes:  signerTimes,
		})
		round = target
	}
	return rounds, nil
}

func hasHigherSeq(bySeq map[uint64][]classify.Ref, target uint64) bool {
	for seq := range bySeq {
		if seq > target {
			return true
		}
	}
	return false
}
