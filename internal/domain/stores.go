package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScoringConfig carries the reputation arithmetic defaults. The values are
// intentionally a fixed, auditable formula: any client must be able to
// explain a score.
type ScoringConfig struct {
	// InitialCreditScore is assigned to a source on first mention.
	InitialCreditScore int
	// VerifyDelta is applied to a source when one of its claims verifies.
	VerifyDelta int
	// RefuteDelta is applied to a source when one of its claims is refuted.
	RefuteDelta int
	// ReputationCacheTTL bounds staleness of the cached reputation lookup.
	ReputationCacheTTL time.Duration
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		InitialCreditScore: 50,
		VerifyDelta:        5,
		RefuteDelta:        -5,
		ReputationCacheTTL: time.Minute,
	}
}

// StatusTransition reports the old and new status of a claim update so
// callers can tell whether a terminal status was actually entered.
type StatusTransition struct {
	From ClaimStatus
	To   ClaimStatus
}

// Entered reports whether the update moved the claim into the given status
// from a different one. Counter bookkeeping keys on this, never on the raw
// call count.
func (t StatusTransition) Entered(status ClaimStatus) bool {
	return t.To == status && t.From != status
}

type SourceStore interface {
	Create(ctx context.Context, s *Source) error
	GetByID(ctx context.Context, id uuid.UUID) (*Source, error)
	GetByName(ctx context.Context, name string) (*Source, error)
	// AdjustCreditScore applies a clamped delta as one atomic
	// read-modify-write and returns the resulting score.
	AdjustCreditScore(ctx context.Context, id uuid.UUID, delta int) (int, error)
	ListTrending(ctx context.Context, limit int) ([]Source, error)
	List(ctx context.Context) ([]Source, error)
}

type EventStore interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus, credibility *float64) error
	List(ctx context.Context) ([]Event, error)
}

type ClaimStore interface {
	// Create inserts the claim and increments the owning source's
	// total_claims in the same transaction.
	Create(ctx context.Context, c *Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (*Claim, error)
	// Import inserts a claim as recorded, preserving id and status without
	// touching source counters. Bulk restore only.
	Import(ctx context.Context, c *Claim) error
	// UpdateStatus transitions the claim and, only on entry into verified
	// or refuted, increments the matching source counter, all in one
	// transaction.
	UpdateStatus(ctx context.Context, id uuid.UUID, status ClaimStatus, result map[string]any) (StatusTransition, error)
	GetByEvent(ctx context.Context, eventID string) ([]Claim, error)
	List(ctx context.Context) ([]Claim, error)
}

type EntityStore interface {
	Create(ctx context.Context, e *Entity) error
	GetByName(ctx context.Context, name string) (*Entity, error)
	List(ctx context.Context) ([]Entity, error)
}

type ArtifactStore interface {
	Create(ctx context.Context, a *Artifact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Artifact, error)
	List(ctx context.Context) ([]Artifact, error)
}

type RefutationStore interface {
	Create(ctx context.Context, r *Refutation) error
	// ListByClaim returns every edge where the claim is either endpoint.
	ListByClaim(ctx context.Context, claimID uuid.UUID) ([]Refutation, error)
	List(ctx context.Context) ([]Refutation, error)
}

type InvestigationStore interface {
	Create(ctx context.Context, s *InvestigationSnapshot) error
	GetByID(ctx context.Context, investigationID string) (*InvestigationSnapshot, error)
	List(ctx context.Context) ([]InvestigationSnapshot, error)
}
