package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func orPending(s domain.ClaimStatus) domain.ClaimStatus {
	if s == "" {
		return domain.ClaimPending
	}
	return s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nullUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

type ClaimStore struct {
	db *pgxpool.Pool
}

func NewClaimStore(db *pgxpool.Pool) *ClaimStore {
	return &ClaimStore{db: db}
}

// Create inserts the claim and bumps the owning source's total_claims in the
// same transaction; a crash between the two writes must never leave the
// counter inconsistent with the recorded claims.
func (s *ClaimStore) Create(ctx context.Context, c *domain.Claim) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var eventID *string
	if c.EventID != "" {
		eventID = &c.EventID
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO claims (text, status, source_id, event_id, claim_type, verification_result, entities, metadata, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		 RETURNING id, status, timestamp, created_at`,
		c.Text, orPending(c.Status), c.SourceID, eventID, c.ClaimType,
		c.VerificationResult, c.Entities, c.Metadata, nullTime(c.Timestamp),
	).Scan(&c.ID, &c.Status, &c.Timestamp, &c.CreatedAt)
	if err != nil {
		return mapError(err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE sources SET total_claims = total_claims + 1, updated_at = NOW() WHERE id = $1`,
		c.SourceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("source %s: %w", c.SourceID, ErrNotFound)
	}

	return tx.Commit(ctx)
}

// Import inserts a claim exactly as recorded, preserving its id and status
// and leaving source counters alone. Bulk restore uses this so a snapshot
// whose counters were already consistent does not double count.
func (s *ClaimStore) Import(ctx context.Context, c *domain.Claim) error {
	var eventID *string
	if c.EventID != "" {
		eventID = &c.EventID
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO claims (id, text, status, source_id, event_id, claim_type, verification_result, entities, metadata, timestamp)
		 VALUES (COALESCE($1, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()))
		 RETURNING id, timestamp, created_at`,
		nullUUID(c.ID), c.Text, orPending(c.Status), c.SourceID, eventID, c.ClaimType,
		c.VerificationResult, c.Entities, c.Metadata, nullTime(c.Timestamp),
	).Scan(&c.ID, &c.Timestamp, &c.CreatedAt)
	if err != nil {
		return mapError(err)
	}
	return nil
}

const claimColumns = `id, text, status, source_id, event_id, claim_type, verification_result, entities, metadata, timestamp, created_at`

func scanClaim(row pgx.Row, c *domain.Claim) error {
	var eventID *string
	if err := row.Scan(&c.ID, &c.Text, &c.Status, &c.SourceID, &eventID, &c.ClaimType,
		&c.VerificationResult, &c.Entities, &c.Metadata, &c.Timestamp, &c.CreatedAt); err != nil {
		return err
	}
	if eventID != nil {
		c.EventID = *eventID
	}
	return nil
}

func (s *ClaimStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	c := &domain.Claim{}
	err := scanClaim(s.db.QueryRow(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE id = $1`, id), c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// UpdateStatus locks the claim row, compares old vs. new status, and
// increments the owning source's verified/refuted counter only on entry
// into that status. Repeated calls with the same target status are no-ops
// for the counters.
func (s *ClaimStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ClaimStatus, result map[string]any) (domain.StatusTransition, error) {
	var tr domain.StatusTransition

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return tr, err
	}
	defer tx.Rollback(ctx)

	var sourceID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT status, source_id FROM claims WHERE id = $1 FOR UPDATE`, id,
	).Scan(&tr.From, &sourceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tr, ErrNotFound
		}
		return tr, err
	}
	tr.To = status

	_, err = tx.Exec(ctx,
		`UPDATE claims
		 SET status = $2,
		     verification_result = COALESCE($3, verification_result)
		 WHERE id = $1`,
		id, status, result)
	if err != nil {
		return tr, mapError(err)
	}

	var counter string
	switch {
	case tr.Entered(domain.ClaimVerified):
		counter = "verified_claims"
	case tr.Entered(domain.ClaimRefuted):
		counter = "refuted_claims"
	}
	if counter != "" {
		_, err = tx.Exec(ctx,
			`UPDATE sources SET `+counter+` = `+counter+` + 1, updated_at = NOW() WHERE id = $1`,
			sourceID)
		if err != nil {
			return tr, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return tr, err
	}
	return tr, nil
}

func (s *ClaimStore) GetByEvent(ctx context.Context, eventID string) ([]domain.Claim, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE event_id = $1 ORDER BY timestamp ASC, id ASC`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClaims(rows)
}

func (s *ClaimStore) List(ctx context.Context) ([]domain.Claim, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+claimColumns+` FROM claims ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClaims(rows)
}

func collectClaims(rows pgx.Rows) ([]domain.Claim, error) {
	var claims []domain.Claim
	for rows.Next() {
		var c domain.Claim
		if err := scanClaim(rows, &c); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}
