package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityLocation     EntityType = "location"
)

func ValidEntityType(e string) bool {
	switch EntityType(e) {
	case EntityPerson, EntityOrganization, EntityLocation:
		return true
	}
	return false
}

// Entity is a dictionary entry for a real-world person, organization or
// location mentioned by claims. It is independent of any event and is never
// cascade-deleted.
type Entity struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Type        EntityType     `json:"type"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
