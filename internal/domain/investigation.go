package domain

import "time"

// InvestigationSnapshot is a write-once audit record of one completed
// investigation: the frozen report and the credibility score at that moment.
// It is never mutated after creation.
type InvestigationSnapshot struct {
	InvestigationID  string         `json:"investigation_id"`
	EventID          string         `json:"event_id,omitempty"`
	Report           map[string]any `json:"report"`
	CredibilityScore float64        `json:"credibility_score"`
	StartedAt        time.Time      `json:"started_at"`
	CompletedAt      time.Time      `json:"completed_at"`
}
