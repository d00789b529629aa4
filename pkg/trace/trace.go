// Package trace builds the ordered step record list each step transition
// produces, per the four step kinds named in the data model.
package trace

import (
	"strconv"

	"github.com/pactum-protocol/pactum-core/pkg/breach"
	"github.com/pactum-protocol/pactum-core/pkg/numeric"
	"github.com/pactum-protocol/pactum-core/pkg/pact"
)

// Step kinds.
const (
	KindApplyCollateral    = "apply_collateral"
	KindCommitClockQuorum  = "commit_clock_quorum"
	KindCommitMetricQuorum = "commit_metric_quorum"
	KindApplyClaim         = "apply_claim"
)

// Step is a single trace record. Field presence varies by Kind, matching
// the shapes named in the data model; canonical encoding sorts keys so
// field order here is immaterial.
type Step map[string]interface{}

// ApplyCollateralStep records one committed collateral_post.
func ApplyCollateralStep(i int, amount, collateralPosted uint64) Step {
	return Step{
		"i":                 strconv.Itoa(i),
		"kind":              KindApplyCollateral,
		"amount":            numeric.String(amount),
		"collateral_posted": numeric.String(collateralPosted),
	}
}

// CommitClockQuorumStep records one committed clock round.
func CommitClockQuorumStep(seq uint64, participants []string, effectiveT uint64, count, quorum int) Step {
	return Step{
		"kind":         KindCommitClockQuorum,
		"seq":          numeric.String(seq),
		"participants": participants,
		"effective_t":  numeric.String(effectiveT),
		"count":        strconv.Itoa(count),
		"quorum":       strconv.Itoa(quorum),
	}
}

// CommitMetricQuorumStep records one committed metric round including the
// breach/trigger transition it produced.
func CommitMetricQuorumStep(seq uint64, participants []string, effectiveV, effectiveT uint64, count, quorum int, status breach.Status, breachStartTime *uint64, triggered bool) Step {
	bst := "null"
	if breachStartTime != nil {
		bst = numeric.String(*breachStartTime)
	}
	return Step{
		"kind":              KindCommitMetricQuorum,
		"seq":               numeric.String(seq),
		"participants":      participants,
		"effective_v":       numeric.String(effectiveV),
		"effective_t":       numeric.String(effectiveT),
		"count":             strconv.Itoa(count),
		"quorum":            strconv.Itoa(quorum),
		"breach":            string(status),
		"breach_start_time": bst,
		"triggered":         triggered,
	}
}

// ApplyClaimStep records one settled claim_request.
func ApplyClaimStep(i int, amount, claimPaid uint64, effectIndex int) Step {
	return Step{
		"i":            strconv.Itoa(i),
		"kind":         KindApplyClaim,
		"amount":       numeric.String(amount),
		"claim_paid":   numeric.String(claimPaid),
		"effect_index": strconv.Itoa(effectIndex),
	}
}

// Trace is the ordered list of step records a transition produced.
type Trace struct {
	V     string `json:"v"`
	Steps []Step `json:"steps"`
}

// New wraps steps into a versioned Trace record.
func New(steps []Step) Trace {
	if steps == nil {
		steps = []Step{}
	}
	return Trace{V: pact.VersionTrace, Steps: steps}
}
