package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/store"
	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	ErrSourceNotFound         = errors.New("source not found")
	ErrEventNotFound          = errors.New("event not found")
	ErrClaimNotFound          = errors.New("claim not found")
	ErrInvestigationNotFound  = errors.New("investigation not found")
	ErrSourceNameEmpty        = errors.New("source name is required")
	ErrEntityNameEmpty        = errors.New("entity name is required")
	ErrEventIDEmpty           = errors.New("event id is required")
	ErrClaimTextEmpty         = errors.New("claim text is required")
	ErrInvestigationIDEmpty   = errors.New("investigation id is required")
	ErrInvalidSourceType      = errors.New("invalid source type")
	ErrInvalidEventStatus     = errors.New("invalid event status")
	ErrInvalidClaimStatus     = errors.New("invalid claim status")
	ErrInvalidEntityType      = errors.New("invalid entity type")
	ErrConfidenceOutOfRange   = errors.New("confidence must be in [0,1]")
	ErrSelfRefutation         = errors.New("a claim cannot refute itself")
	ErrDuplicateEvent         = errors.New("event already exists")
	ErrDuplicateRefutation    = errors.New("refutation edge already exists")
	ErrDuplicateInvestigation = errors.New("investigation already recorded")
)

// Stores bundles the entity-store interfaces the repository composes.
type Stores struct {
	Sources        domain.SourceStore
	Events         domain.EventStore
	Claims         domain.ClaimStore
	Entities       domain.EntityStore
	Artifacts      domain.ArtifactStore
	Refutations    domain.RefutationStore
	Investigations domain.InvestigationStore
}

// Repository is the single mutation and query boundary over the entity
// store. Every invariant-preserving transition lives here: create-or-reuse
// semantics, counter maintenance and score clamping are never done by
// callers directly.
type Repository struct {
	stores     Stores
	cfg        domain.ScoringConfig
	reputation *cache.Cache
	logger     *zap.Logger
}

func NewRepository(stores Stores, cfg domain.ScoringConfig, logger *zap.Logger) *Repository {
	ttl := cfg.ReputationCacheTTL
	if ttl <= 0 {
		ttl = domain.DefaultScoringConfig().ReputationCacheTTL
	}
	return &Repository{
		stores:     stores,
		cfg:        cfg,
		reputation: cache.New(ttl, 2*ttl),
		logger:     logger,
	}
}

// SourceAttrs are the optional attributes of a new source. They are
// discarded when the source already exists: first write wins.
type SourceAttrs struct {
	URL         string
	Description string
	Metadata    map[string]any
}

// FindOrCreateSource returns the existing source for the name unchanged, or
// creates one with the configured initial credit score and zero counters.
// Sources are never duplicated by name.
func (r *Repository) FindOrCreateSource(ctx context.Context, name string, sourceType domain.SourceType, attrs SourceAttrs) (*domain.Source, error) {
	if name == "" {
		return nil, ErrSourceNameEmpty
	}
	if !domain.ValidSourceType(string(sourceType)) {
		return nil, ErrInvalidSourceType
	}

	src, err := r.stores.Sources.GetByName(ctx, name)
	if err == nil {
		return src, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	src = &domain.Source{
		Name:        name,
		Type:        sourceType,
		CreditScore: r.cfg.InitialCreditScore,
		URL:         attrs.URL,
		Description: attrs.Description,
		Metadata:    attrs.Metadata,
	}
	if err := r.stores.Sources.Create(ctx, src); err != nil {
		// Lost a creation race: the concurrent winner's record stands.
		if errors.Is(err, store.ErrDuplicate) {
			return r.stores.Sources.GetByName(ctx, name)
		}
		return nil, err
	}
	r.logger.Info("source created",
		zap.String("name", src.Name),
		zap.String("type", string(src.Type)),
		zap.Int("credit_score", src.CreditScore))
	return src, nil
}

// EventAttrs are the caller-supplied fields of a new event.
type EventAttrs struct {
	Title       string
	Description string
	Tags        []string
	Category    string
	Metadata    map[string]any
}

func (r *Repository) CreateEvent(ctx context.Context, id string, attrs EventAttrs) (*domain.Event, error) {
	if id == "" {
		return nil, ErrEventIDEmpty
	}
	e := &domain.Event{
		ID:               id,
		Status:           domain.EventDeveloping,
		Title:            attrs.Title,
		Description:      attrs.Description,
		CredibilityScore: 50,
		Tags:             attrs.Tags,
		Category:         attrs.Category,
		Metadata:         attrs.Metadata,
	}
	if err := r.stores.Events.Create(ctx, e); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrDuplicateEvent
		}
		return nil, err
	}
	return e, nil
}

func (r *Repository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	e, err := r.stores.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// UpdateEventStatus is a pure field update; it never cascades to claims.
// Status monotonicity is not enforced: the caller may set any status.
func (r *Repository) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus, credibility *float64) error {
	if !domain.ValidEventStatus(string(status)) {
		return ErrInvalidEventStatus
	}
	err := r.stores.Events.UpdateStatus(ctx, id, status, credibility)
	if errors.Is(err, store.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

// ClaimInput is the tuple the investigation pipeline hands over per
// discovered claim.
type ClaimInput struct {
	Text      string
	SourceID  uuid.UUID
	EventID   string
	ClaimType string
	Entities  []string
	Metadata  map[string]any
	Timestamp time.Time
}

// CreateClaim inserts the claim and atomically increments the owning
// source's total claim counter.
func (r *Repository) CreateClaim(ctx context.Context, in ClaimInput) (*domain.Claim, error) {
	if in.Text == "" {
		return nil, ErrClaimTextEmpty
	}
	if in.SourceID == uuid.Nil {
		return nil, ErrSourceNotFound
	}
	c := &domain.Claim{
		Text:      in.Text,
		Status:    domain.ClaimPending,
		SourceID:  in.SourceID,
		EventID:   in.EventID,
		ClaimType: in.ClaimType,
		Entities:  in.Entities,
		Metadata:  in.Metadata,
		Timestamp: in.Timestamp,
	}
	if err := r.stores.Claims.Create(ctx, c); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrConstraint):
			return nil, fmt.Errorf("claim source %s: %w", in.SourceID, ErrSourceNotFound)
		}
		return nil, err
	}
	r.invalidateReputation()
	return c, nil
}

func (r *Repository) GetClaim(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	c, err := r.stores.Claims.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *Repository) GetClaimsByEvent(ctx context.Context, eventID string) ([]domain.Claim, error) {
	return r.stores.Claims.GetByEvent(ctx, eventID)
}

// UpdateClaimStatus transitions the claim and bumps the owning source's
// verified/refuted counter exactly once per distinct entry into that
// status. Reprocessing the same verdict must not double count.
func (r *Repository) UpdateClaimStatus(ctx context.Context, id uuid.UUID, status domain.ClaimStatus, result map[string]any) (domain.StatusTransition, error) {
	if !domain.ValidClaimStatus(string(status)) {
		return domain.StatusTransition{}, ErrInvalidClaimStatus
	}
	tr, err := r.stores.Claims.UpdateStatus(ctx, id, status, result)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return tr, ErrClaimNotFound
		}
		return tr, err
	}
	r.invalidateReputation()
	r.logger.Debug("claim status updated",
		zap.String("claim_id", id.String()),
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)))
	return tr, nil
}

// UpdateSourceCreditScore is the flywheel write path. The clamp and the
// write happen as one atomic read-modify-write in the store, so concurrent
// adjustments to different sources never interfere and repeated calls on
// one source each independently clamp.
func (r *Repository) UpdateSourceCreditScore(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	score, err := r.stores.Sources.AdjustCreditScore(ctx, id, delta)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrSourceNotFound
		}
		return 0, err
	}
	r.invalidateReputation()
	r.logger.Info("credit score adjusted",
		zap.String("source_id", id.String()),
		zap.Int("delta", delta),
		zap.Int("credit_score", score))
	return score, nil
}

func (r *Repository) GetSource(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	src, err := r.stores.Sources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, err
	}
	return src, nil
}

func (r *Repository) GetSourceStatistics(ctx context.Context, id uuid.UUID) (domain.SourceStatistics, error) {
	src, err := r.GetSource(ctx, id)
	if err != nil {
		return domain.SourceStatistics{}, err
	}
	return src.Statistics(), nil
}

// QueryReputationByName is the flywheel read path: a unique-key lookup,
// cached for the configured TTL. Absence is a normal outcome for a source
// nobody has investigated yet and is reported as a nil view, not an error.
func (r *Repository) QueryReputationByName(ctx context.Context, name string) (*domain.ReputationView, error) {
	if v, ok := r.reputation.Get(name); ok {
		view := v.(domain.ReputationView)
		return &view, nil
	}

	src, err := r.stores.Sources.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	view := domain.ReputationView{
		Name:        src.Name,
		Type:        src.Type,
		CreditScore: src.CreditScore,
		Statistics:  src.Statistics(),
		LastUpdated: src.UpdatedAt,
	}
	r.reputation.SetDefault(name, view)
	return &view, nil
}

// GetTrendingSources orders by total claims descending with a stable
// tie-break on insertion order.
func (r *Repository) GetTrendingSources(ctx context.Context, limit int) ([]domain.SourceSummary, error) {
	sources, err := r.stores.Sources.ListTrending(ctx, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.SourceSummary, 0, len(sources))
	for _, s := range sources {
		summaries = append(summaries, domain.SourceSummary{
			Name:        s.Name,
			Type:        s.Type,
			CreditScore: s.CreditScore,
			TotalClaims: s.TotalClaims,
		})
	}
	return summaries, nil
}

// CreateClaimRefutation records a directed refutation edge. Out-of-range
// confidence and self-loops are rejected rather than coerced; each ordered
// pair exists at most once.
func (r *Repository) CreateClaimRefutation(ctx context.Context, refutingID, refutedID uuid.UUID, confidence float64, evidence []any) (*domain.Refutation, error) {
	if confidence < 0 || confidence > 1 {
		return nil, ErrConfidenceOutOfRange
	}
	if refutingID == refutedID {
		return nil, ErrSelfRefutation
	}
	ref := &domain.Refutation{
		RefutingClaimID: refutingID,
		RefutedClaimID:  refutedID,
		Confidence:      confidence,
		Evidence:        evidence,
	}
	if err := r.stores.Refutations.Create(ctx, ref); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, ErrDuplicateRefutation
		case errors.Is(err, store.ErrConstraint), errors.Is(err, store.ErrNotFound):
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return ref, nil
}

func (r *Repository) GetRefutationsByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Refutation, error) {
	return r.stores.Refutations.ListByClaim(ctx, claimID)
}

// SaveInvestigationSnapshot freezes one investigation's report. Snapshots
// are write-once audit records; a repeated id is a duplicate, never an
// overwrite.
func (r *Repository) SaveInvestigationSnapshot(ctx context.Context, snap *domain.InvestigationSnapshot) error {
	if snap.InvestigationID == "" {
		return ErrInvestigationIDEmpty
	}
	if err := r.stores.Investigations.Create(ctx, snap); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return ErrDuplicateInvestigation
		case errors.Is(err, store.ErrConstraint):
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (r *Repository) GetInvestigationSnapshot(ctx context.Context, investigationID string) (*domain.InvestigationSnapshot, error) {
	snap, err := r.stores.Investigations.GetByID(ctx, investigationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvestigationNotFound
		}
		return nil, err
	}
	return snap, nil
}

// EntityAttrs are the optional attributes of a new dictionary entity.
type EntityAttrs struct {
	Description string
	Metadata    map[string]any
}

// FindOrCreateEntity mirrors the source semantics for the person/
// organization/location dictionary: unique by name, first write wins.
func (r *Repository) FindOrCreateEntity(ctx context.Context, name string, entityType domain.EntityType, attrs EntityAttrs) (*domain.Entity, error) {
	if name == "" {
		return nil, ErrEntityNameEmpty
	}
	if !domain.ValidEntityType(string(entityType)) {
		return nil, ErrInvalidEntityType
	}

	e, err := r.stores.Entities.GetByName(ctx, name)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	e = &domain.Entity{
		Name:        name,
		Type:        entityType,
		Description: attrs.Description,
		Metadata:    attrs.Metadata,
	}
	if err := r.stores.Entities.Create(ctx, e); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return r.stores.Entities.GetByName(ctx, name)
		}
		return nil, err
	}
	return e, nil
}

func (r *Repository) CreateArtifact(ctx context.Context, a *domain.Artifact) error {
	return r.stores.Artifacts.Create(ctx, a)
}

// FindSimilarEvents is a contract without an algorithm: entity-overlap
// similarity is not computed yet and the result is always empty.
func (r *Repository) FindSimilarEvents(ctx context.Context, entities []string, limit int) ([]domain.Event, error) {
	return nil, nil
}

// invalidateReputation drops all cached reputation views. Writes carry a
// source id while the cache is keyed by name, so the whole cache is flushed
// rather than tracking a reverse index; entries re-warm on the next lookup.
func (r *Repository) invalidateReputation() {
	r.reputation.Flush()
}
