package service

import (
	"context"
	"sync"

	"github.com/credgraph/credgraph/internal/domain"
)

// ClaimKind tags the verification branch a claim belongs to. The set is
// open: callers register verifiers for new kinds instead of the engine
// hard-coding branches.
type ClaimKind string

const (
	KindFinancial   ClaimKind = "financial"
	KindTemporal    ClaimKind = "temporal"
	KindStatistical ClaimKind = "statistical"
	KindGeneric     ClaimKind = "generic"
)

// VerificationOutcome is what a verifier knows about a claim. Computed is
// false when the verifier has no algorithm for the claim; the caller must
// not treat that as a verdict.
type VerificationOutcome struct {
	Computed bool               `json:"computed"`
	Status   domain.ClaimStatus `json:"status,omitempty"`
	Evidence map[string]any     `json:"evidence,omitempty"`
	Notes    string             `json:"notes,omitempty"`
}

// VerifierFunc is a pure function from a claim to a verification outcome.
type VerifierFunc func(ctx context.Context, claim *domain.Claim) (VerificationOutcome, error)

// VerifierRegistry dispatches claims to verifiers by kind. Unknown kinds
// fall back to the generic verifier.
type VerifierRegistry struct {
	mu        sync.RWMutex
	verifiers map[ClaimKind]VerifierFunc
}

// NewVerifierRegistry seeds the registry with not-computed placeholders for
// the known kinds. The concrete strategies live outside this core; the
// registry is their extension point.
func NewVerifierRegistry() *VerifierRegistry {
	r := &VerifierRegistry{verifiers: make(map[ClaimKind]VerifierFunc)}
	for _, kind := range []ClaimKind{KindFinancial, KindTemporal, KindStatistical, KindGeneric} {
		r.Register(kind, notComputedVerifier(kind))
	}
	return r
}

func (r *VerifierRegistry) Register(kind ClaimKind, fn VerifierFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifiers[kind] = fn
}

// Verify dispatches on the claim's type tag.
func (r *VerifierRegistry) Verify(ctx context.Context, claim *domain.Claim) (VerificationOutcome, error) {
	r.mu.RLock()
	fn, ok := r.verifiers[ClaimKind(claim.ClaimType)]
	if !ok {
		fn = r.verifiers[KindGeneric]
	}
	r.mu.RUnlock()
	return fn(ctx, claim)
}

func notComputedVerifier(kind ClaimKind) VerifierFunc {
	return func(ctx context.Context, claim *domain.Claim) (VerificationOutcome, error) {
		return VerificationOutcome{
			Computed: false,
			Notes:    "no " + string(kind) + " verification strategy registered",
		}, nil
	}
}
