package store

import (
	"context"
	"errors"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SourceStore struct {
	db *pgxpool.Pool
}

func NewSourceStore(db *pgxpool.Pool) *SourceStore {
	return &SourceStore{db: db}
}

// Create inserts a source. A zero ID lets the database mint one; counter
// values are taken from the struct so bulk import can restore them.
func (s *SourceStore) Create(ctx context.Context, src *domain.Source) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO sources (id, name, type, credit_score, url, description, metadata, total_claims, verified_claims, refuted_claims)
		 VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		nullUUID(src.ID), src.Name, src.Type, src.CreditScore, src.URL, src.Description,
		src.Metadata, src.TotalClaims, src.VerifiedClaims, src.RefutedClaims,
	).Scan(&src.ID, &src.CreatedAt, &src.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

const sourceColumns = `id, name, type, credit_score, url, description, metadata,
	total_claims, verified_claims, refuted_claims, created_at, updated_at`

func scanSource(row pgx.Row, src *domain.Source) error {
	return row.Scan(&src.ID, &src.Name, &src.Type, &src.CreditScore, &src.URL,
		&src.Description, &src.Metadata, &src.TotalClaims, &src.VerifiedClaims,
		&src.RefutedClaims, &src.CreatedAt, &src.UpdatedAt)
}

func (s *SourceStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Source, error) {
	src := &domain.Source{}
	err := scanSource(s.db.QueryRow(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE id = $1`, id), src)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return src, nil
}

func (s *SourceStore) GetByName(ctx context.Context, name string) (*domain.Source, error) {
	src := &domain.Source{}
	err := scanSource(s.db.QueryRow(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE name = $1`, name), src)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return src, nil
}

// AdjustCreditScore clamps and applies the delta in a single UPDATE so two
// concurrent adjustments to the same source never lose a write.
func (s *SourceStore) AdjustCreditScore(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	var score int
	err := s.db.QueryRow(ctx,
		`UPDATE sources
		 SET credit_score = LEAST($3, GREATEST($2, credit_score + $4)),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING credit_score`,
		id, domain.MinCreditScore, domain.MaxCreditScore, delta,
	).Scan(&score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return score, nil
}

// ListTrending orders by claim volume; created_at breaks ties so repeated
// calls are deterministic.
func (s *SourceStore) ListTrending(ctx context.Context, limit int) ([]domain.Source, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+sourceColumns+` FROM sources
		 ORDER BY total_claims DESC, created_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSources(rows)
}

func (s *SourceStore) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+sourceColumns+` FROM sources ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSources(rows)
}

func collectSources(rows pgx.Rows) ([]domain.Source, error) {
	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		if err := scanSource(rows, &src); err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}
