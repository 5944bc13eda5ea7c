package store

import (
	"context"
	"errors"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvestigationStore struct {
	db *pgxpool.Pool
}

func NewInvestigationStore(db *pgxpool.Pool) *InvestigationStore {
	return &InvestigationStore{db: db}
}

// Create is write-once: a repeated investigation id surfaces ErrDuplicate
// through the unique key, never an overwrite.
func (s *InvestigationStore) Create(ctx context.Context, snap *domain.InvestigationSnapshot) error {
	var eventID *string
	if snap.EventID != "" {
		eventID = &snap.EventID
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO investigation_history (investigation_id, event_id, report, credibility_score, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, COALESCE($5, NOW()), COALESCE($6, NOW()))
		 RETURNING started_at, completed_at`,
		snap.InvestigationID, eventID, snap.Report, snap.CredibilityScore,
		nullTime(snap.StartedAt), nullTime(snap.CompletedAt),
	).Scan(&snap.StartedAt, &snap.CompletedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

const investigationColumns = `investigation_id, event_id, report, credibility_score, started_at, completed_at`

func scanInvestigation(row pgx.Row, snap *domain.InvestigationSnapshot) error {
	var eventID *string
	if err := row.Scan(&snap.InvestigationID, &eventID, &snap.Report,
		&snap.CredibilityScore, &snap.StartedAt, &snap.CompletedAt); err != nil {
		return err
	}
	if eventID != nil {
		snap.EventID = *eventID
	}
	return nil
}

func (s *InvestigationStore) GetByID(ctx context.Context, investigationID string) (*domain.InvestigationSnapshot, error) {
	snap := &domain.InvestigationSnapshot{}
	err := scanInvestigation(s.db.QueryRow(ctx,
		`SELECT `+investigationColumns+` FROM investigation_history WHERE investigation_id = $1`,
		investigationID), snap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return snap, nil
}

func (s *InvestigationStore) List(ctx context.Context) ([]domain.InvestigationSnapshot, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+investigationColumns+` FROM investigation_history ORDER BY completed_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.InvestigationSnapshot
	for rows.Next() {
		var snap domain.InvestigationSnapshot
		if err := scanInvestigation(rows, &snap); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
