// Package classify verifies and sorts envelope events into the four
// kind-specific buffers the rest of the step pipeline consumes.
//
// Grounded directly on the classification loop in the reference driver's
// envelope phase: one pass over events in original index order, signature
// verification first, then a per-kind authorization check, before anything
// is placed in a buffer.
package classify

import (
	"github.com/pactum-protocol/pactum-core/pkg/eventsig"
	"github.com/pactum-protocol/pactum-core/pkg/pact"
	"github.com/pactum-protocol/pactum-core/pkg/pacterr"
)

// Ref pairs a classified event with its original envelope index, preserved
// so trace steps can report where an effect originated.
type Ref struct {
	I     int
	Event pact.Event
}

// Buffers holds the four classified event streams, each in envelope order.
type Buffers struct {
	CollateralPosts []Ref
	ClaimRequests   []Ref
	ClockEvents     []Ref
	MetricEvents    []Ref
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Classify verifies every event's signature and authorization, then sorts
// them into Buffers. No state mutation has occurred by the time Classify
// returns successfully or fails.
func Classify(p pact.Pact, envelope pact.Envelope) (Buffers, error) {
	var b Buffers

	for i, ev := range envelope.Events {
		if err := eventsig.Verify(ev, p); err != nil {
			return Buffers{}, err
		}

		switch ev.Kind {
		case pact.KindCollateralPost:
			if ev.SignerPub != p.Parties.APub {
				return Buffers{}, pacterr.New(pacterr.InvalidSigner, "collateral_post must be signed by party A")
			}
			b.CollateralPosts = append(b.CollateralPosts, Ref{I: i, Event: ev})

		case pact.KindClaimRequest:
			if ev.SignerPub != p.Parties.BPub {
				return Buffers{}, pacterr.New(pacterr.InvalidSigner, "claim_request must be signed by party B")
			}
			b.ClaimRequests = append(b.ClaimRequests, Ref{I: i, Event: ev})

		case pact.KindClockEvent:
			if !contains(p.Oracles.Clock.Pubkeys, ev.SignerPub) {
				return Buffers{}, pacterr.New(pacterr.InvalidSigner, "clock_event signer %s not in allowed clock pubkeys", ev.SignerPub)
			}
			oracleID, ok := ev.Payload["oracle_id"].(string)
			if !ok {
				return Buffers{}, pacterr.New(pacterr.MissingField, "oracle_id")
			}
			if oracleID != ev.SignerPub {
				return Buffers{}, pacterr.New(pacterr.OracleIDMismatch, "oracle_id %s != signer_pub %s", oracleID, ev.SignerPub)
			}
			b.ClockEvents = append(b.ClockEvents, Ref{I: i, Event: ev})

		case pact.KindMetricEvent:
			if !contains(p.Oracles.Metric.Pubkeys, ev.SignerPub) {
				return Buffers{}, pacterr.New(pacterr.InvalidSigner, "metric_event signer %s not in allowed metric pubkeys", ev.SignerPub)
			}
			oracleID, ok := ev.Payload["oracle_id"].(string)
			if !ok {
				return Buffers{}, pacterr.New(pacterr.MissingField, "oracle_id")
			}
			if oracleID != ev.SignerPub {
				return Buffers{}, pacterr.New(pacterr.OracleIDMismatch, "oracle_id %s != signer_pub %s", oracleID, ev.SignerPub)
			}
			b.MetricEvents = append(b.MetricEvents, Ref{I: i, Event: ev})

		default:
			return Buffers{}, pacterr.New(pacterr.UnknownEventKind, "%s", ev.Kind)
		}
	}

	return b, nil
}
