// Package pact defines the Pactum V0 data model: the immutable Pact, the
// mutable State threaded between transitions, the per-transition Envelope of
// signed Events, and their payload shapes.
//
// Struct field tags follow pkg/consensus's JSON-tag convention; every
// top-level record carries a "v" version string per the wire contract.
package pact

// Versions. Changing any of these is a protocol-breaking change.
const (
	VersionPact     = "pactum-pact/0"
	VersionState    = "pactum-state/0"
	VersionEnvelope = "pactum-envelope/0"
	VersionEvent    = "pactum-event/0"
	VersionOutputs  = "pactum-outputs/0"
	VersionTrace    = "pactum-trace/0"
	VersionReceipt  = "pactum-receipt/0"
	VersionIR       = "pactum-ir/0"

	Runtime02 = "pactum-riskpact/0.2"
)

// Event kinds.
const (
	KindCollateralPost = "collateral_post"
	KindClaimRequest   = "claim_request"
	KindClockEvent     = "clock_event"
	KindMetricEvent    = "metric_event"
)

// Parties names the two counterparties to a pact by their Ed25519 public
// key string encoding ("ed25519:<base64url-nopad>").
type Parties struct {
	APub string `json:"a_pub"`
	BPub string `json:"b_pub"`
}

// Assets names the asset identifiers a pact moves.
type Assets struct {
	CollateralAsset string `json:"collateral_asset"`
	SettlementAsset string `json:"settlement_asset"`
}

// Terms names the pact's risk parameters. All numerics are decimal strings.
type Terms struct {
	MetricID  string `json:"metric_id"`
	ThresholdZ string `json:"threshold_z"`
	DurationD string `json:"duration_d"`
	CapQ      string `json:"cap_q"`
}

// OracleSet names a feed's quorum threshold and its authorized signers.
type OracleSet struct {
	Quorum  int      `json:"quorum"`
	Pubkeys []string `json:"pubkeys"`
}

// Oracles groups the pact's two oracle feeds.
type Oracles struct {
	Clock  OracleSet `json:"clock"`
	Metric OracleSet `json:"metric"`
}

// Pact is the immutable contract defining parties, assets, terms, and
// authorized oracles. It never mutates after creation.
type Pact struct {
	V       string  `json:"v"`
	Runtime string  `json:"runtime"`
	Parties Parties `json:"parties"`
	Assets  Assets  `json:"assets"`
	Terms   Terms   `json:"terms"`
	Oracles Oracles `json:"oracles"`
}

// MetricReading is the last committed metric observation.
type MetricReading struct {
	T string `json:"t"`
	V string `json:"v"`
}

// State is the mutable record threaded between transitions. It is produced
// by exactly one transition and consumed by the next; the engine itself
// holds no process-wide mutable state.
type State struct {
	V                 string            `json:"v"`
	PactHash          string            `json:"pact_hash"`
	Now               string            `json:"now"`
	CollateralPosted  string            `json:"collateral_posted"`
	MetricLast        MetricReading     `json:"metric_last"`
	BreachStartTime   *string           `json:"breach_start_time"`
	Triggered         bool              `json:"triggered"`
	ClaimPaid         string            `json:"claim_paid"`
	ClockRound        string            `json:"clock_round"`
	MetricRound       string            `json:"metric_round"`
	OracleSeq         map[string]string `json:"oracle_seq"`
	OracleTime        map[string]string `json:"oracle_time"`
}

// Clone returns a deep copy of s so phases can build the next state without
// aliasing the caller's maps.
func (s *State) Clone() *State {
	out := *s
	out.OracleSeq = make(map[string]string, len(s.OracleSeq))
	for k, v := range s.OracleSeq {
		out.OracleSeq[k] = v
	}
	out.OracleTime = make(map[string]string, len(s.OracleTime))
	for k, v := range s.OracleTime {
		out.OracleTime[k] = v
	}
	if s.BreachStartTime != nil {
		bst := *s.BreachStartTime
		out.BreachStartTime = &bst
	}
	return &out
}

// CollateralPostPayload is the payload of a collateral_post event.
type CollateralPostPayload struct {
	From   string `json:"from"`
	Amount string `json:"amount"`
	Asset  string `json:"asset"`
	Nonce  string `json:"nonce"`
}

// ClaimRequestPayload is the payload of a claim_request event.
type ClaimRequestPayload struct {
	By     string `json:"by"`
	Amount string `json:"amount"`
	Nonce  string `json:"nonce"`
}

// ClockEventPayload is the payload of a clock_event event.
type ClockEventPayload struct {
	OracleID string `json:"oracle_id"`
	T        string `json:"t"`
	Seq      string `json:"seq"`
}

// MetricEventPayload is the payload of a metric_event event.
type MetricEventPayload struct {
	OracleID string `json:"oracle_id"`
	MetricID string `json:"metric_id"`
	T        string `json:"t"`
	V        string `json:"v"`
	Seq      string `json:"seq"`
}

// Event is a single signed action submitted in an envelope. Payload is kept
// as generic JSON (map[string]interface{}); pkg/classify, pkg/collateral,
// pkg/claim and pkg/quorum read its fields by name. The typed payload
// structs above list each kind's fields; the step pipeline does not decode
// payloads into them.
type Event struct {
	V         string                 `json:"v"`
	Kind      string                 `json:"kind"`
	PactHash  string                 `json:"pact_hash"`
	Payload   map[string]interface{} `json:"payload"`
	SignerPub string                 `json:"signer_pub"`
	Sig       string                 `json:"sig"`
}

// Envelope is the per-transition batch of signed events to apply to a state.
type Envelope struct {
	V      string  `json:"v"`
	Events []Event `json:"events"`
}
