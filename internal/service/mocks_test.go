package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/store"
	"github.com/google/uuid"
)

// mockSourceStore implements domain.SourceStore for testing. A mutex guards
// every method so concurrency tests exercise the same no-lost-update
// contract the SQL store provides.
type mockSourceStore struct {
	mu      sync.Mutex
	sources map[uuid.UUID]*domain.Source
	order   []uuid.UUID
}

func newMockSourceStore() *mockSourceStore {
	return &mockSourceStore{sources: make(map[uuid.UUID]*domain.Source)}
}

func (m *mockSourceStore) Create(ctx context.Context, s *domain.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sources {
		if existing.Name == s.Name {
			return store.ErrDuplicate
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	cp := *s
	m.sources[s.ID] = &cp
	m.order = append(m.order, s.ID)
	return nil
}

func (m *mockSourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSourceStore) GetByName(ctx context.Context, name string) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sources {
		if s.Name == name {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockSourceStore) AdjustCreditScore(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sources[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	s.CreditScore = domain.ClampCreditScore(s.CreditScore + delta)
	s.UpdatedAt = time.Now()
	return s.CreditScore, nil
}

func (m *mockSourceStore) ListTrending(ctx context.Context, limit int) ([]domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Source, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.sources[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalClaims > result[j].TotalClaims
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockSourceStore) List(ctx context.Context) ([]domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Source, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.sources[id])
	}
	return result, nil
}

type mockEventStore struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	order  []string
}

func newMockEventStore() *mockEventStore {
	return &mockEventStore{events: make(map[string]*domain.Event)}
}

func (m *mockEventStore) Create(ctx context.Context, e *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; ok {
		return store.ErrDuplicate
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	cp := *e
	m.events[e.ID] = &cp
	m.order = append(m.order, e.ID)
	return nil
}

func (m *mockEventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventStore) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, credibility *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return store.ErrNotFound
	}
	e.Status = status
	if credibility != nil {
		e.CredibilityScore = *credibility
	}
	e.UpdatedAt = time.Now()
	return nil
}

func (m *mockEventStore) List(ctx context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Event, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.events[id])
	}
	return result, nil
}

// mockClaimStore mirrors the transactional coupling of the SQL store: claim
// writes update the owning source's counters through the shared source
// store.
type mockClaimStore struct {
	mu      sync.Mutex
	claims  map[uuid.UUID]*domain.Claim
	order   []uuid.UUID
	sources *mockSourceStore
	events  *mockEventStore
}

func newMockClaimStore(sources *mockSourceStore, events *mockEventStore) *mockClaimStore {
	return &mockClaimStore{
		claims:  make(map[uuid.UUID]*domain.Claim),
		sources: sources,
		events:  events,
	}
}

func (m *mockClaimStore) Create(ctx context.Context, c *domain.Claim) error {
	m.sources.mu.Lock()
	src, ok := m.sources.sources[c.SourceID]
	if !ok {
		m.sources.mu.Unlock()
		return store.ErrNotFound
	}
	src.TotalClaims++
	m.sources.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	if c.Status == "" {
		c.Status = domain.ClaimPending
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	c.CreatedAt = time.Now()
	cp := *c
	m.claims[c.ID] = &cp
	m.order = append(m.order, c.ID)
	return nil
}

func (m *mockClaimStore) Import(ctx context.Context, c *domain.Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if _, ok := m.claims[c.ID]; ok {
		return store.ErrDuplicate
	}
	m.sources.mu.Lock()
	_, ok := m.sources.sources[c.SourceID]
	m.sources.mu.Unlock()
	if !ok {
		return store.ErrConstraint
	}
	cp := *c
	m.claims[c.ID] = &cp
	m.order = append(m.order, c.ID)
	return nil
}

func (m *mockClaimStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.claims[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockClaimStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ClaimStatus, result map[string]any) (domain.StatusTransition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.claims[id]
	if !ok {
		return domain.StatusTransition{}, store.ErrNotFound
	}
	tr := domain.StatusTransition{From: c.Status, To: status}
	c.Status = status
	if result != nil {
		c.VerificationResult = result
	}

	m.sources.mu.Lock()
	if src, ok := m.sources.sources[c.SourceID]; ok {
		if tr.Entered(domain.ClaimVerified) {
			src.VerifiedClaims++
		}
		if tr.Entered(domain.ClaimRefuted) {
			src.RefutedClaims++
		}
	}
	m.sources.mu.Unlock()
	return tr, nil
}

func (m *mockClaimStore) GetByEvent(ctx context.Context, eventID string) ([]domain.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Claim
	for _, id := range m.order {
		if m.claims[id].EventID == eventID {
			result = append(result, *m.claims[id])
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.Before(result[j].Timestamp)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (m *mockClaimStore) List(ctx context.Context) ([]domain.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Claim, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.claims[id])
	}
	return result, nil
}

type mockEntityStore struct {
	mu       sync.Mutex
	entities map[string]*domain.Entity
	order    []string
}

func newMockEntityStore() *mockEntityStore {
	return &mockEntityStore{entities: make(map[string]*domain.Entity)}
}

func (m *mockEntityStore) Create(ctx context.Context, e *domain.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entities[e.Name]; ok {
		return store.ErrDuplicate
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	cp := *e
	m.entities[e.Name] = &cp
	m.order = append(m.order, e.Name)
	return nil
}

func (m *mockEntityStore) GetByName(ctx context.Context, name string) (*domain.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *mockEntityStore) List(ctx context.Context) ([]domain.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Entity, 0, len(m.order))
	for _, name := range m.order {
		result = append(result, *m.entities[name])
	}
	return result, nil
}

type mockArtifactStore struct {
	mu        sync.Mutex
	artifacts map[uuid.UUID]*domain.Artifact
	order     []uuid.UUID
}

func newMockArtifactStore() *mockArtifactStore {
	return &mockArtifactStore{artifacts: make(map[uuid.UUID]*domain.Artifact)}
}

func (m *mockArtifactStore) Create(ctx context.Context, a *domain.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CapturedAt.IsZero() {
		a.CapturedAt = time.Now()
	}
	a.CreatedAt = time.Now()
	cp := *a
	m.artifacts[a.ID] = &cp
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockArtifactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockArtifactStore) List(ctx context.Context) ([]domain.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Artifact, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.artifacts[id])
	}
	return result, nil
}

type refutationKey struct {
	refuting uuid.UUID
	refuted  uuid.UUID
}

type mockRefutationStore struct {
	mu     sync.Mutex
	edges  map[refutationKey]*domain.Refutation
	order  []refutationKey
	claims *mockClaimStore
}

func newMockRefutationStore(claims *mockClaimStore) *mockRefutationStore {
	return &mockRefutationStore{
		edges:  make(map[refutationKey]*domain.Refutation),
		claims: claims,
	}
}

func (m *mockRefutationStore) Create(ctx context.Context, r *domain.Refutation) error {
	if r.RefutingClaimID == r.RefutedClaimID {
		return store.ErrConstraint
	}
	m.claims.mu.Lock()
	_, okA := m.claims.claims[r.RefutingClaimID]
	_, okB := m.claims.claims[r.RefutedClaimID]
	m.claims.mu.Unlock()
	if !okA || !okB {
		return store.ErrConstraint
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := refutationKey{r.RefutingClaimID, r.RefutedClaimID}
	if _, ok := m.edges[key]; ok {
		return store.ErrDuplicate
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now()
	cp := *r
	m.edges[key] = &cp
	m.order = append(m.order, key)
	return nil
}

func (m *mockRefutationStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Refutation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Refutation
	for _, key := range m.order {
		if key.refuting == claimID || key.refuted == claimID {
			result = append(result, *m.edges[key])
		}
	}
	return result, nil
}

func (m *mockRefutationStore) List(ctx context.Context) ([]domain.Refutation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Refutation, 0, len(m.order))
	for _, key := range m.order {
		result = append(result, *m.edges[key])
	}
	return result, nil
}

type mockInvestigationStore struct {
	mu    sync.Mutex
	snaps map[string]*domain.InvestigationSnapshot
	order []string
}

func newMockInvestigationStore() *mockInvestigationStore {
	return &mockInvestigationStore{snaps: make(map[string]*domain.InvestigationSnapshot)}
}

func (m *mockInvestigationStore) Create(ctx context.Context, s *domain.InvestigationSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snaps[s.InvestigationID]; ok {
		return store.ErrDuplicate
	}
	if s.CompletedAt.IsZero() {
		s.CompletedAt = time.Now()
	}
	cp := *s
	m.snaps[s.InvestigationID] = &cp
	m.order = append(m.order, s.InvestigationID)
	return nil
}

func (m *mockInvestigationStore) GetByID(ctx context.Context, investigationID string) (*domain.InvestigationSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[investigationID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockInvestigationStore) List(ctx context.Context) ([]domain.InvestigationSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.InvestigationSnapshot, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.snaps[id])
	}
	return result, nil
}

func newTestStores() Stores {
	sources := newMockSourceStore()
	events := newMockEventStore()
	claims := newMockClaimStore(sources, events)
	return Stores{
		Sources:        sources,
		Events:         events,
		Claims:         claims,
		Entities:       newMockEntityStore(),
		Artifacts:      newMockArtifactStore(),
		Refutations:    newMockRefutationStore(claims),
		Investigations: newMockInvestigationStore(),
	}
}
