package store

import (
	"context"
	"errors"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArtifactStore struct {
	db *pgxpool.Pool
}

func NewArtifactStore(db *pgxpool.Pool) *ArtifactStore {
	return &ArtifactStore{db: db}
}

func (s *ArtifactStore) Create(ctx context.Context, a *domain.Artifact) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO artifacts (id, type, url, content_hash, content, metadata, captured_at)
		 VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		 RETURNING id, captured_at, created_at`,
		nullUUID(a.ID), a.Type, a.URL, a.ContentHash, a.Content, a.Metadata, nullTime(a.CapturedAt),
	).Scan(&a.ID, &a.CapturedAt, &a.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (s *ArtifactStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Artifact, error) {
	a := &domain.Artifact{}
	err := s.db.QueryRow(ctx,
		`SELECT id, type, url, content_hash, content, metadata, captured_at, created_at
		 FROM artifacts WHERE id = $1`, id,
	).Scan(&a.ID, &a.Type, &a.URL, &a.ContentHash, &a.Content, &a.Metadata, &a.CapturedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *ArtifactStore) List(ctx context.Context) ([]domain.Artifact, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, type, url, content_hash, content, metadata, captured_at, created_at
		 FROM artifacts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []domain.Artifact
	for rows.Next() {
		var a domain.Artifact
		if err := rows.Scan(&a.ID, &a.Type, &a.URL, &a.ContentHash, &a.Content, &a.Metadata, &a.CapturedAt, &a.CreatedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}
