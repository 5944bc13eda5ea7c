package service

import (
	"context"
	"fmt"

	"github.com/credgraph/credgraph/internal/domain"
	"go.uber.org/zap"
)

// BulkData is the import/export document: one JSON object with a top-level
// array per entity kind, used for reproducible fixtures and offline
// seeding.
type BulkData struct {
	Sources        []domain.Source                `json:"sources"`
	Events         []domain.Event                 `json:"events"`
	Claims         []domain.Claim                 `json:"claims"`
	Entities       []domain.Entity                `json:"entities"`
	Artifacts      []domain.Artifact              `json:"artifacts"`
	Refutations    []domain.Refutation            `json:"refutations"`
	Investigations []domain.InvestigationSnapshot `json:"investigations,omitempty"`
}

// ImportResult reports record-level outcomes of a bulk import. One bad
// record never aborts the batch.
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

const maxImportErrors = 50

func (r *ImportResult) recordFailure(kind, key string, err error) {
	r.Failed++
	if len(r.Errors) < maxImportErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("%s %q: %v", kind, key, err))
	}
}

// TransferService moves whole graphs in and out of the store through the
// bulk JSON format.
type TransferService struct {
	stores Stores
	logger *zap.Logger
}

func NewTransferService(stores Stores, logger *zap.Logger) *TransferService {
	return &TransferService{stores: stores, logger: logger}
}

// Export collects every entity into one bulk document. Arrays are in store
// order; consumers must not rely on any particular ordering beyond set
// equality.
func (t *TransferService) Export(ctx context.Context) (*BulkData, error) {
	data := &BulkData{}
	var err error

	if data.Sources, err = t.stores.Sources.List(ctx); err != nil {
		return nil, fmt.Errorf("export sources: %w", err)
	}
	if data.Events, err = t.stores.Events.List(ctx); err != nil {
		return nil, fmt.Errorf("export events: %w", err)
	}
	if data.Claims, err = t.stores.Claims.List(ctx); err != nil {
		return nil, fmt.Errorf("export claims: %w", err)
	}
	if data.Entities, err = t.stores.Entities.List(ctx); err != nil {
		return nil, fmt.Errorf("export entities: %w", err)
	}
	if data.Artifacts, err = t.stores.Artifacts.List(ctx); err != nil {
		return nil, fmt.Errorf("export artifacts: %w", err)
	}
	if data.Refutations, err = t.stores.Refutations.List(ctx); err != nil {
		return nil, fmt.Errorf("export refutations: %w", err)
	}
	if data.Investigations, err = t.stores.Investigations.List(ctx); err != nil {
		return nil, fmt.Errorf("export investigations: %w", err)
	}
	return data, nil
}

// Import loads a bulk document. Each record is validated and written in
// isolation: malformed enumerations and dangling references skip that
// record, bump the failure count, and the batch continues. Dependencies
// load first (sources and events before claims, claims before
// refutations).
func (t *TransferService) Import(ctx context.Context, data *BulkData) *ImportResult {
	res := &ImportResult{}

	for i := range data.Sources {
		src := data.Sources[i]
		if !domain.ValidSourceType(string(src.Type)) {
			res.recordFailure("source", src.Name, ErrInvalidSourceType)
			continue
		}
		src.CreditScore = domain.ClampCreditScore(src.CreditScore)
		if err := t.stores.Sources.Create(ctx, &src); err != nil {
			res.recordFailure("source", src.Name, err)
			continue
		}
		res.Imported++
	}

	for i := range data.Events {
		ev := data.Events[i]
		if !domain.ValidEventStatus(string(ev.Status)) {
			res.recordFailure("event", ev.ID, ErrInvalidEventStatus)
			continue
		}
		if err := t.stores.Events.Create(ctx, &ev); err != nil {
			res.recordFailure("event", ev.ID, err)
			continue
		}
		res.Imported++
	}

	for i := range data.Entities {
		en := data.Entities[i]
		if !domain.ValidEntityType(string(en.Type)) {
			res.recordFailure("entity", en.Name, ErrInvalidEntityType)
			continue
		}
		if err := t.stores.Entities.Create(ctx, &en); err != nil {
			res.recordFailure("entity", en.Name, err)
			continue
		}
		res.Imported++
	}

	for i := range data.Artifacts {
		a := data.Artifacts[i]
		if err := t.stores.Artifacts.Create(ctx, &a); err != nil {
			res.recordFailure("artifact", a.ID.String(), err)
			continue
		}
		res.Imported++
	}

	for i := range data.Claims {
		c := data.Claims[i]
		if !domain.ValidClaimStatus(string(c.Status)) {
			res.recordFailure("claim", c.ID.String(), ErrInvalidClaimStatus)
			continue
		}
		if err := t.stores.Claims.Import(ctx, &c); err != nil {
			res.recordFailure("claim", c.ID.String(), err)
			continue
		}
		res.Imported++
	}

	for i := range data.Refutations {
		ref := data.Refutations[i]
		if ref.Confidence < 0 || ref.Confidence > 1 {
			res.recordFailure("refutation", ref.ID.String(), ErrConfidenceOutOfRange)
			continue
		}
		if ref.RefutingClaimID == ref.RefutedClaimID {
			res.recordFailure("refutation", ref.ID.String(), ErrSelfRefutation)
			continue
		}
		if err := t.stores.Refutations.Create(ctx, &ref); err != nil {
			res.recordFailure("refutation", ref.ID.String(), err)
			continue
		}
		res.Imported++
	}

	for i := range data.Investigations {
		snap := data.Investigations[i]
		if snap.InvestigationID == "" {
			res.recordFailure("investigation", "", ErrInvestigationIDEmpty)
			continue
		}
		if err := t.stores.Investigations.Create(ctx, &snap); err != nil {
			res.recordFailure("investigation", snap.InvestigationID, err)
			continue
		}
		res.Imported++
	}

	t.logger.Info("bulk import finished",
		zap.Int("imported", res.Imported),
		zap.Int("failed", res.Failed))
	return res
}
