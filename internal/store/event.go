package store

import (
	"context"
	"errors"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventStore struct {
	db *pgxpool.Pool
}

func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, e *domain.Event) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO events (id, status, title, description, credibility_score, tags, category, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		e.ID, e.Status, e.Title, e.Description, e.CredibilityScore, e.Tags, e.Category, e.Metadata,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

const eventColumns = `id, status, title, description, credibility_score, tags, category, metadata, created_at, updated_at`

func scanEvent(row pgx.Row, e *domain.Event) error {
	return row.Scan(&e.ID, &e.Status, &e.Title, &e.Description, &e.CredibilityScore,
		&e.Tags, &e.Category, &e.Metadata, &e.CreatedAt, &e.UpdatedAt)
}

func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e := &domain.Event{}
	err := scanEvent(s.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id), e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *EventStore) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, credibility *float64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE events
		 SET status = $2,
		     credibility_score = COALESCE($3, credibility_score),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, status, credibility)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *EventStore) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
