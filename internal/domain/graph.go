package domain

import (
	"time"

	"github.com/google/uuid"
)

// Node types and edge types used by the event graph projection.
const (
	NodeEvent  = "event"
	NodeClaim  = "claim"
	NodeSource = "source"

	EdgeHasClaim  = "has_claim"
	EdgeMadeClaim = "made_claim"
)

// GraphNode is one node of the rendered event graph. Which score field is
// populated depends on the node type.
type GraphNode struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Status      string   `json:"status,omitempty"`
	Credibility *float64 `json:"credibility,omitempty"`
	CreditScore *int     `json:"credit_score,omitempty"`
}

// GraphEdge is one directed edge of the rendered event graph.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// EventGraph is the deterministic node/edge flattening of an event, its
// claims and their sources, for external rendering.
type EventGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

type ConfidenceLevel string

const (
	ConfidenceHigh ConfidenceLevel = "high"
	ConfidenceLow  ConfidenceLevel = "low"
)

// EventCredibility is the derived trustworthiness verdict for an event.
type EventCredibility struct {
	CredibilityScore float64         `json:"credibility_score"`
	VerifiedClaims   int             `json:"verified_claims"`
	RefutedClaims    int             `json:"refuted_claims"`
	TotalClaims      int             `json:"total_claims"`
	Confidence       ConfidenceLevel `json:"confidence"`
	Reason           string          `json:"reason,omitempty"`
}

// TimelineEntry is one step of an event's propagation timeline, ordered by
// claim timestamp.
type TimelineEntry struct {
	Timestamp  time.Time   `json:"timestamp"`
	SourceName string      `json:"source"`
	Claim      string      `json:"claim"`
	Status     ClaimStatus `json:"status"`
}

// ChainDirection distinguishes the two ways a claim participates in a
// refutation edge.
type ChainDirection string

const (
	ChainRefutes   ChainDirection = "refutes"
	ChainRefutedBy ChainDirection = "refuted_by"
)

// ChainLink is one hop of a refutation chain rooted at some claim.
type ChainLink struct {
	ClaimID    uuid.UUID      `json:"claim_id"`
	Direction  ChainDirection `json:"direction"`
	Depth      int            `json:"depth"`
	Confidence float64        `json:"confidence"`
}

// NetworkAnalysis is the coordinated-source analysis contract. Computed is
// false until a concrete algorithm lands; callers must treat the zero
// values as "not computed" rather than as a negative finding.
type NetworkAnalysis struct {
	Computed    bool     `json:"computed"`
	Coordinated bool     `json:"coordinated"`
	Confidence  float64  `json:"confidence"`
	Patterns    []string `json:"patterns"`
}

// BatchScoreUpdate is one (source, delta) pair of a batch reputation write.
type BatchScoreUpdate struct {
	SourceID    uuid.UUID `json:"source_id"`
	ScoreChange int       `json:"score_change"`
}
