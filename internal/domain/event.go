package domain

import "time"

type EventStatus string

const (
	EventDeveloping   EventStatus = "developing"
	EventInvestigated EventStatus = "investigated"
	EventVerified     EventStatus = "verified"
	EventRefuted      EventStatus = "refuted"
)

func ValidEventStatus(s string) bool {
	switch EventStatus(s) {
	case EventDeveloping, EventInvestigated, EventVerified, EventRefuted:
		return true
	}
	return false
}

// Event groups the claims of one investigation. Its id is caller-supplied
// (the investigation pipeline mints them), its credibility score is derived
// from the claim graph or set explicitly when the investigation concludes.
type Event struct {
	ID               string         `json:"id"`
	Status           EventStatus    `json:"status"`
	Title            string         `json:"title,omitempty"`
	Description      string         `json:"description,omitempty"`
	CredibilityScore float64        `json:"credibility_score"`
	Tags             []string       `json:"tags,omitempty"`
	Category         string         `json:"category,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
