package store

import (
	"context"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefutationStore struct {
	db *pgxpool.Pool
}

func NewRefutationStore(db *pgxpool.Pool) *RefutationStore {
	return &RefutationStore{db: db}
}

// Create relies on table constraints for integrity: foreign keys on both
// claim ids, a check against self-loops, and a unique index on the ordered
// (refuting, refuted) pair.
func (s *RefutationStore) Create(ctx context.Context, r *domain.Refutation) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO claim_refutations (id, refuting_claim_id, refuted_claim_id, confidence, evidence)
		 VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5)
		 RETURNING id, created_at`,
		nullUUID(r.ID), r.RefutingClaimID, r.RefutedClaimID, r.Confidence, r.Evidence,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

const refutationColumns = `id, refuting_claim_id, refuted_claim_id, confidence, evidence, created_at`

func (s *RefutationStore) ListByClaim(ctx context.Context, claimID uuid.UUID) ([]domain.Refutation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+refutationColumns+` FROM claim_refutations
		 WHERE refuting_claim_id = $1 OR refuted_claim_id = $1
		 ORDER BY created_at ASC`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRefutations(rows)
}

func (s *RefutationStore) List(ctx context.Context) ([]domain.Refutation, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+refutationColumns+` FROM claim_refutations ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRefutations(rows)
}

func collectRefutations(rows pgx.Rows) ([]domain.Refutation, error) {
	var refutations []domain.Refutation
	for rows.Next() {
		var r domain.Refutation
		if err := rows.Scan(&r.ID, &r.RefutingClaimID, &r.RefutedClaimID, &r.Confidence, &r.Evidence, &r.CreatedAt); err != nil {
			return nil, err
		}
		refutations = append(refutations, r)
	}
	return refutations, rows.Err()
}
