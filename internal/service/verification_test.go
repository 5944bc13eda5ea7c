package service

import (
	"context"
	"testing"

	"github.com/credgraph/credgraph/internal/domain"
)

func TestVerifierRegistry_DefaultsNotComputed(t *testing.T) {
	reg := NewVerifierRegistry()

	outcome, err := reg.Verify(context.Background(), &domain.Claim{ClaimType: "financial"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if outcome.Computed {
		t.Error("expected placeholder verifier to report not computed")
	}
	if outcome.Notes == "" {
		t.Error("expected a note naming the missing strategy")
	}
}

func TestVerifierRegistry_UnknownKindFallsBack(t *testing.T) {
	reg := NewVerifierRegistry()
	reg.Register(KindGeneric, func(ctx context.Context, claim *domain.Claim) (VerificationOutcome, error) {
		return VerificationOutcome{Computed: true, Status: domain.ClaimUnverifiable, Notes: "generic"}, nil
	})

	outcome, err := reg.Verify(context.Background(), &domain.Claim{ClaimType: "astrological"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !outcome.Computed || outcome.Notes != "generic" {
		t.Errorf("expected fallback to the generic verifier, got %+v", outcome)
	}
}

func TestVerifierRegistry_RegisterOverrides(t *testing.T) {
	reg := NewVerifierRegistry()
	reg.Register(KindTemporal, func(ctx context.Context, claim *domain.Claim) (VerificationOutcome, error) {
		return VerificationOutcome{
			Computed: true,
			Status:   domain.ClaimVerified,
			Evidence: map[string]any{"checked_against": "timeline"},
		}, nil
	})

	outcome, err := reg.Verify(context.Background(), &domain.Claim{ClaimType: string(KindTemporal)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !outcome.Computed || outcome.Status != domain.ClaimVerified {
		t.Errorf("expected the registered verifier to run, got %+v", outcome)
	}
	if outcome.Evidence["checked_against"] != "timeline" {
		t.Errorf("expected evidence to pass through, got %+v", outcome.Evidence)
	}
}
