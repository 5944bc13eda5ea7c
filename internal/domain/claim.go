package domain

import (
	"time"

	"github.com/google/uuid"
)

type ClaimStatus string

const (
	ClaimPending      ClaimStatus = "pending"
	ClaimVerified     ClaimStatus = "verified"
	ClaimRefuted      ClaimStatus = "refuted"
	ClaimUnverifiable ClaimStatus = "unverifiable"
)

func ValidClaimStatus(s string) bool {
	switch ClaimStatus(s) {
	case ClaimPending, ClaimVerified, ClaimRefuted, ClaimUnverifiable:
		return true
	}
	return false
}

// Claim is a single checkable assertion. Every claim has exactly one owning
// source; the event grouping is optional.
type Claim struct {
	ID                 uuid.UUID      `json:"id"`
	Text               string         `json:"text"`
	Status             ClaimStatus    `json:"status"`
	SourceID           uuid.UUID      `json:"source_id"`
	EventID            string         `json:"event_id,omitempty"`
	ClaimType          string         `json:"claim_type,omitempty"`
	VerificationResult map[string]any `json:"verification_result,omitempty"`
	Entities           []string       `json:"entities,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
	CreatedAt          time.Time      `json:"created_at"`
}

// Refutation is a directed edge recording that one claim's evidence
// contradicts another. Confidence is in [0,1]; self-loops are rejected and
// each ordered (refuting, refuted) pair exists at most once.
type Refutation struct {
	ID              uuid.UUID `json:"id"`
	RefutingClaimID uuid.UUID `json:"refuting_claim_id"`
	RefutedClaimID  uuid.UUID `json:"refuted_claim_id"`
	Confidence      float64   `json:"confidence"`
	Evidence        []any     `json:"evidence,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
