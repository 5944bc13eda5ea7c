package store

import (
	"context"
	"errors"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EntityStore struct {
	db *pgxpool.Pool
}

func NewEntityStore(db *pgxpool.Pool) *EntityStore {
	return &EntityStore{db: db}
}

func (s *EntityStore) Create(ctx context.Context, e *domain.Entity) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO entities (id, name, type, description, metadata)
		 VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		nullUUID(e.ID), e.Name, e.Type, e.Description, e.Metadata,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (s *EntityStore) GetByName(ctx context.Context, name string) (*domain.Entity, error) {
	e := &domain.Entity{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, type, description, metadata, created_at, updated_at
		 FROM entities WHERE name = $1`, name,
	).Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.Metadata, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EntityStore) List(ctx context.Context) ([]domain.Entity, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, type, description, metadata, created_at, updated_at
		 FROM entities ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []domain.Entity
	for rows.Next() {
		var e domain.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.Metadata, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, rows.Err()
}
