package domain

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is a content-addressable record of the raw material behind a
// claim: a captured URL, tweet, document or image. Any association with a
// claim is informational and lives out-of-band.
type Artifact struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	URL         string         `json:"url,omitempty"`
	ContentHash string         `json:"content_hash,omitempty"`
	Content     string         `json:"content,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CapturedAt  time.Time      `json:"captured_at"`
	CreatedAt   time.Time      `json:"created_at"`
}
