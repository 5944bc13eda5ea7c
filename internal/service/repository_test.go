package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRepository() *Repository {
	return NewRepository(newTestStores(), domain.DefaultScoringConfig(), zap.NewNop())
}

func TestFindOrCreateSource_CreatesWithDefaults(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, err := repo.FindOrCreateSource(ctx, "Daily Bugle", domain.SourceNewsOutlet, SourceAttrs{URL: "https://bugle.example"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if src.CreditScore != 50 {
		t.Errorf("expected initial credit score 50, got %d", src.CreditScore)
	}
	if src.TotalClaims != 0 || src.VerifiedClaims != 0 || src.RefutedClaims != 0 {
		t.Errorf("expected zero counters, got %+v", src)
	}
}

func TestFindOrCreateSource_IdempotentByName(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	first, err := repo.FindOrCreateSource(ctx, "Daily Bugle", domain.SourceNewsOutlet, SourceAttrs{URL: "https://bugle.example"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Second call with different attributes: first write wins.
	second, err := repo.FindOrCreateSource(ctx, "Daily Bugle", domain.SourceBlog, SourceAttrs{URL: "https://other.example"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected the same source row for the same name")
	}
	if second.Type != domain.SourceNewsOutlet || second.URL != "https://bugle.example" {
		t.Errorf("expected original attributes to survive, got %+v", second)
	}

	all, _ := repo.stores.Sources.List(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 source, got %d", len(all))
	}
}

func TestFindOrCreateSource_Validation(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	if _, err := repo.FindOrCreateSource(ctx, "", domain.SourceBlog, SourceAttrs{}); err != ErrSourceNameEmpty {
		t.Errorf("expected ErrSourceNameEmpty, got %v", err)
	}
	if _, err := repo.FindOrCreateSource(ctx, "x", "tabloid", SourceAttrs{}); err != ErrInvalidSourceType {
		t.Errorf("expected ErrInvalidSourceType, got %v", err)
	}
}

func TestCreateClaim_IncrementsTotal(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, _ := repo.FindOrCreateSource(ctx, "s", domain.SourceSocialMedia, SourceAttrs{})
	for i := 0; i < 3; i++ {
		if _, err := repo.CreateClaim(ctx, ClaimInput{Text: "claim", SourceID: src.ID}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	stats, err := repo.GetSourceStatistics(ctx, src.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalClaims != 3 {
		t.Errorf("expected total_claims 3, got %d", stats.TotalClaims)
	}
}

func TestCreateClaim_UnknownSource(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.CreateClaim(context.Background(), ClaimInput{Text: "claim", SourceID: uuid.New()})
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestUpdateClaimStatus_CountsEntryTransitionsOnce(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, _ := repo.FindOrCreateSource(ctx, "s", domain.SourceForum, SourceAttrs{})
	claim, _ := repo.CreateClaim(ctx, ClaimInput{Text: "claim", SourceID: src.ID})

	// pending -> verified increments once.
	if _, err := repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimVerified, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Reprocessing the same verdict must not double count.
	if _, err := repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimVerified, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stats, _ := repo.GetSourceStatistics(ctx, src.ID)
	if stats.VerifiedClaims != 1 {
		t.Errorf("expected verified_claims 1 after repeated verification, got %d", stats.VerifiedClaims)
	}

	// verified -> refuted -> verified: each entry counts.
	_, _ = repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimRefuted, nil)
	_, _ = repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimVerified, nil)

	stats, _ = repo.GetSourceStatistics(ctx, src.ID)
	if stats.VerifiedClaims != 2 || stats.RefutedClaims != 1 {
		t.Errorf("expected verified 2 / refuted 1, got %+v", stats)
	}
}

func TestUpdateClaimStatus_InvalidStatus(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.UpdateClaimStatus(context.Background(), uuid.New(), "bogus", nil)
	if err != ErrInvalidClaimStatus {
		t.Errorf("expected ErrInvalidClaimStatus, got %v", err)
	}
}

func TestUpdateSourceCreditScore_Clamps(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, _ := repo.FindOrCreateSource(ctx, "s", domain.SourceAnonymous, SourceAttrs{})

	score, err := repo.UpdateSourceCreditScore(ctx, src.ID, 70)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if score != 100 {
		t.Errorf("expected clamp to 100, got %d", score)
	}

	score, _ = repo.UpdateSourceCreditScore(ctx, src.ID, -250)
	if score != 0 {
		t.Errorf("expected clamp to 0, got %d", score)
	}
}

// Concurrent adjustments to one source must each apply as a clamped step
// with no lost updates.
func TestUpdateSourceCreditScore_Concurrent(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, _ := repo.FindOrCreateSource(ctx, "s", domain.SourceSocialMedia, SourceAttrs{})

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.UpdateSourceCreditScore(ctx, src.ID, -1)
		}()
	}
	wg.Wait()

	stats, _ := repo.GetSourceStatistics(ctx, src.ID)
	if stats.CreditScore != 50-workers {
		t.Errorf("expected credit score %d, got %d", 50-workers, stats.CreditScore)
	}
}

// The flywheel trace from repeated refutations: counters 1,2,3 and credit
// 45,40,35 with accuracy pinned at 0.
func TestRefutationFlywheelTrace(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, _ := repo.FindOrCreateSource(ctx, "rumor-mill", domain.SourceSocialMedia, SourceAttrs{})

	wantScores := []int{45, 40, 35}
	for i := 0; i < 3; i++ {
		claim, err := repo.CreateClaim(ctx, ClaimInput{Text: "false claim", SourceID: src.ID})
		if err != nil {
			t.Fatalf("create claim %d: %v", i, err)
		}
		if _, err := repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimRefuted, nil); err != nil {
			t.Fatalf("refute claim %d: %v", i, err)
		}
		if _, err := repo.UpdateSourceCreditScore(ctx, src.ID, repo.cfg.RefuteDelta); err != nil {
			t.Fatalf("adjust score %d: %v", i, err)
		}

		stats, _ := repo.GetSourceStatistics(ctx, src.ID)
		if stats.RefutedClaims != i+1 {
			t.Errorf("step %d: expected refuted_claims %d, got %d", i, i+1, stats.RefutedClaims)
		}
		if stats.CreditScore != wantScores[i] {
			t.Errorf("step %d: expected credit score %d, got %d", i, wantScores[i], stats.CreditScore)
		}
		if stats.AccuracyRate != 0 {
			t.Errorf("step %d: expected accuracy 0, got %f", i, stats.AccuracyRate)
		}
	}
}

func TestGetSourceStatistics_AccuracyRate(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, _ := repo.FindOrCreateSource(ctx, "s", domain.SourceNewsOutlet, SourceAttrs{})

	stats, _ := repo.GetSourceStatistics(ctx, src.ID)
	if stats.AccuracyRate != 0 {
		t.Errorf("expected accuracy 0 with no claims, got %f", stats.AccuracyRate)
	}

	for i := 0; i < 4; i++ {
		claim, _ := repo.CreateClaim(ctx, ClaimInput{Text: "c", SourceID: src.ID})
		if i < 3 {
			_, _ = repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimVerified, nil)
		}
	}

	stats, _ = repo.GetSourceStatistics(ctx, src.ID)
	if stats.AccuracyRate != 75 {
		t.Errorf("expected accuracy 75, got %f", stats.AccuracyRate)
	}
}

func TestQueryReputationByName(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	// Absence is a normal outcome, not an error.
	view, err := repo.QueryReputationByName(ctx, "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view != nil {
		t.Fatal("expected nil view for unknown source")
	}

	src, _ := repo.FindOrCreateSource(ctx, "known", domain.SourceBlog, SourceAttrs{})
	claim, _ := repo.CreateClaim(ctx, ClaimInput{Text: "c", SourceID: src.ID})
	_, _ = repo.UpdateClaimStatus(ctx, claim.ID, domain.ClaimVerified, nil)

	view, err = repo.QueryReputationByName(ctx, "known")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view == nil {
		t.Fatal("expected a reputation view")
	}
	if view.Statistics.VerifiedClaims != 1 || view.Statistics.AccuracyRate != 100 {
		t.Errorf("unexpected statistics: %+v", view.Statistics)
	}

	// Writes invalidate the cached view.
	_, _ = repo.UpdateSourceCreditScore(ctx, src.ID, 5)
	view, _ = repo.QueryReputationByName(ctx, "known")
	if view.CreditScore != 55 {
		t.Errorf("expected cache invalidation to surface score 55, got %d", view.CreditScore)
	}
}

func TestGetTrendingSources_OrderAndTies(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	quiet, _ := repo.FindOrCreateSource(ctx, "quiet", domain.SourceBlog, SourceAttrs{})
	busy, _ := repo.FindOrCreateSource(ctx, "busy", domain.SourceNewsOutlet, SourceAttrs{})
	tied, _ := repo.FindOrCreateSource(ctx, "tied", domain.SourceForum, SourceAttrs{})

	for i := 0; i < 3; i++ {
		_, _ = repo.CreateClaim(ctx, ClaimInput{Text: "c", SourceID: busy.ID})
	}
	_, _ = repo.CreateClaim(ctx, ClaimInput{Text: "c", SourceID: quiet.ID})
	_, _ = repo.CreateClaim(ctx, ClaimInput{Text: "c", SourceID: tied.ID})

	trending, err := repo.GetTrendingSources(ctx, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got := make([]string, 0, len(trending))
	for _, s := range trending {
		got = append(got, s.Name)
	}
	want := []string{"busy", "quiet", "tied"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestCreateClaimRefutation_Validation(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	src, _ := repo.FindOrCreateSource(ctx, "s", domain.SourceForum, SourceAttrs{})
	a, _ := repo.CreateClaim(ctx, ClaimInput{Text: "a", SourceID: src.ID})
	b, _ := repo.CreateClaim(ctx, ClaimInput{Text: "b", SourceID: src.ID})

	if _, err := repo.CreateClaimRefutation(ctx, a.ID, b.ID, 1.5, nil); err != ErrConfidenceOutOfRange {
		t.Errorf("expected ErrConfidenceOutOfRange, got %v", err)
	}
	if _, err := repo.CreateClaimRefutation(ctx, a.ID, a.ID, 0.9, nil); err != ErrSelfRefutation {
		t.Errorf("expected ErrSelfRefutation, got %v", err)
	}
	if _, err := repo.CreateClaimRefutation(ctx, a.ID, uuid.New(), 0.9, nil); err != ErrClaimNotFound {
		t.Errorf("expected ErrClaimNotFound, got %v", err)
	}

	if _, err := repo.CreateClaimRefutation(ctx, a.ID, b.ID, 0.9, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// The ordered pair is unique.
	if _, err := repo.CreateClaimRefutation(ctx, a.ID, b.ID, 0.5, nil); err != ErrDuplicateRefutation {
		t.Errorf("expected ErrDuplicateRefutation, got %v", err)
	}
	// The reverse direction is a distinct edge.
	if _, err := repo.CreateClaimRefutation(ctx, b.ID, a.ID, 0.5, nil); err != nil {
		t.Errorf("expected reverse edge to be allowed, got %v", err)
	}
}

func TestSaveInvestigationSnapshot_WriteOnce(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	snap := &domain.InvestigationSnapshot{
		InvestigationID:  "INV-1",
		Report:           map[string]any{"verdict": "refuted"},
		CredibilityScore: 12.5,
	}
	if err := repo.SaveInvestigationSnapshot(ctx, snap); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := repo.SaveInvestigationSnapshot(ctx, snap); err != ErrDuplicateInvestigation {
		t.Errorf("expected ErrDuplicateInvestigation, got %v", err)
	}

	got, err := repo.GetInvestigationSnapshot(ctx, "INV-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.CredibilityScore != 12.5 {
		t.Errorf("unexpected snapshot: %+v", got)
	}
}

func TestUpdateEventStatus(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	if _, err := repo.CreateEvent(ctx, "E-1", EventAttrs{Title: "t"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := repo.CreateEvent(ctx, "E-1", EventAttrs{}); err != ErrDuplicateEvent {
		t.Errorf("expected ErrDuplicateEvent, got %v", err)
	}

	cred := 80.0
	if err := repo.UpdateEventStatus(ctx, "E-1", domain.EventVerified, &cred); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	e, _ := repo.GetEvent(ctx, "E-1")
	if e.Status != domain.EventVerified || e.CredibilityScore != 80 {
		t.Errorf("unexpected event: %+v", e)
	}

	if err := repo.UpdateEventStatus(ctx, "missing", domain.EventRefuted, nil); err != ErrEventNotFound {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
	if err := repo.UpdateEventStatus(ctx, "E-1", "bogus", nil); err != ErrInvalidEventStatus {
		t.Errorf("expected ErrInvalidEventStatus, got %v", err)
	}
}

func TestFindOrCreateEntity(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()

	first, err := repo.FindOrCreateEntity(ctx, "Acme Corp", domain.EntityOrganization, EntityAttrs{Description: "d"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := repo.FindOrCreateEntity(ctx, "Acme Corp", domain.EntityPerson, EntityAttrs{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.ID != first.ID || second.Type != domain.EntityOrganization {
		t.Errorf("expected first write to win, got %+v", second)
	}
}
