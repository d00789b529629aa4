package quorum

import (
	"testing"

	"github.com/pactum-protocol/pactum-core/pkg/classify"
	"github.com/pactum-protocol/pactum-core/pkg/pact"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
)

func clockRef(i int, signer, t, seq string) classify.Ref {
	return classify.Ref{I: i, Event: pact.Event{
		Kind:      pact.KindClockEvent,
		SignerPub: signer,
		Payload:   map[string]interface{}{"oracle_id": signer, "t": t, "seq": seq},
	}}
}

func metricRef(i int, signer, metricID, t, v, seq string) classify.Ref {
	return classify.Ref{I: i, Event: pact.Event{
		Kind:      pact.KindMetricEvent,
		SignerPub: signer,
		Payload:   map[string]interface{}{"oracle_id": signer, "metric_id": metricID, "t": t, "v": v, "seq": seq},
	}}
}

func TestCommitClockRounds_SingleOracleQuorumOne(t *testing.T) {
	evs := []classify.Ref{clockRef(0, "clock1", "1734390000000", "1")}
	rounds, err := CommitClockRounds(0, 1, evs)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(rounds) != 1 || rounds[0].EffectiveT != 1734390000000 {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}
}

func TestCommitClockRounds_QuorumMedian(t *testing.T) {
	evs := []classify.Ref{
		clockRef(0, "clock1", "1734390000000", "1"),
		clockRef(1, "clock2", "1734390001000", "1"),
	}
	rounds, err := CommitClockRounds(0, 2, evs)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if rounds[0].EffectiveT != 1734390000000 {
		t.Fatalf("expected lower median, got %d", rounds[0].EffectiveT)
	}
	if len(rounds[0].Participants) != 2 {
		t.Fatalf("expected 2 participants, got %v", rounds[0].Participants)
	}
}

func TestCommitClockRounds_QuorumNotMet(t *testing.T) {
	evs := []classify.Ref{clockRef(0, "clock1", "1734390000000", "1")}
	_, err := CommitClockRounds(0, 2, evs)
	if !pacterr.Is(err, pacterr.QuorumNotMet) {
		t.Fatalf("expected QuorumNotMet, got %v", err)
	}
}

func TestCommitClockRounds_DuplicateSigner(t *testing.T) {
	evs := []classify.Ref{
		clockRef(0, "clock1", "1734390000000", "1"),
		clockRef(1, "clock1", "1734390001000", "1"),
	}
	_, err := CommitClockRounds(0, 1, evs)
	if !pacterr.Is(err, pacterr.DupSigner) {
		t.Fatalf("expected DupSigner, got %v", err)
	}
}

func TestCommitClockRounds_SeqSkip(t *testing.T) {
	evs := []classify.Ref{clockRef(0, "clock1", "1", "2")}
	_, err := CommitClockRounds(0, 1, evs)
	if !pacterr.Is(err, pacterr.SeqSkip) {
		t.Fatalf("expected SeqSkip, got %v", err)
	}
}

func TestCommitClockRounds_SeqReplay(t *testing.T) {
	evs := []classify.Ref{clockRef(0, "clock1", "1", "1")}
	_, err := CommitClockRounds(1, 1, evs)
	if !pacterr.Is(err, pacterr.SeqReplay) {
		t.Fatalf("expected SeqReplay, got %v", err)
	}
}

func TestCommitMetricRounds_QuorumMedian(t *testing.T) {
	evs := []classify.Ref{
		metricRef(0, "metric1", "metric:x", "1734390000000", "95", "1"),
		metricRef(1, "metric2", "metric:x", "1734390001000", "105", "1"),
	}
	rounds, err := CommitMetricRounds(0, 2, "metric:x", evs)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if rounds[0].EffectiveV != 95 {
		t.Fatalf("expected lower median v=95, got %d", rounds[0].EffectiveV)
	}
}

func TestCommitMetricRounds_MetricIDMismatch(t *testing.T) {
	evs := []classify.Ref{metricRef(0, "metric1", "metric:wrong", "1", "95", "1")}
	_, err := CommitMetricRounds(0, 1, "metric:x", evs)
	if !pacterr.Is(err, pacterr.ClaimNotAllowed) {
		t.Fatalf("expected ClaimNotAllowed, got %v", err)
	}
}

func TestCommitClockRounds_NoEvents(t *testing.T) {
	rounds, err := CommitClockRounds(0, 1, nil)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(rounds) != 0 {
		t.Fatalf("expected no rounds, got %+v", rounds)
	}
}
