package domain

import (
	"time"

	"github.com/google/uuid"
)

type SourceType string

const (
	SourceOfficialMedia SourceType = "official_media"
	SourceSocialMedia   SourceType = "social_media"
	SourceNewsOutlet    SourceType = "news_outlet"
	SourceBlog          SourceType = "blog"
	SourceForum         SourceType = "forum"
	SourceAnonymous     SourceType = "anonymous"
	SourceUnknown       SourceType = "unknown"
)

func ValidSourceType(t string) bool {
	switch SourceType(t) {
	case SourceOfficialMedia, SourceSocialMedia, SourceNewsOutlet,
		SourceBlog, SourceForum, SourceAnonymous, SourceUnknown:
		return true
	}
	return false
}

const (
	// MinCreditScore and MaxCreditScore bound every source reputation.
	MinCreditScore = 0
	MaxCreditScore = 100
)

// ClampCreditScore keeps a credit score inside [MinCreditScore, MaxCreditScore].
func ClampCreditScore(score int) int {
	if score < MinCreditScore {
		return MinCreditScore
	}
	if score > MaxCreditScore {
		return MaxCreditScore
	}
	return score
}

// Source is a named originator of claims. Its credit score is the persistent
// reputation that makes repeated investigations compound: every verified or
// refuted claim permanently adjusts it.
type Source struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Type           SourceType     `json:"type"`
	CreditScore    int            `json:"credit_score"`
	URL            string         `json:"url,omitempty"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	TotalClaims    int            `json:"total_claims"`
	VerifiedClaims int            `json:"verified_claims"`
	RefutedClaims  int            `json:"refuted_claims"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SourceStatistics is the aggregate bundle behind both GetSourceStatistics
// and the reputation lookup.
type SourceStatistics struct {
	TotalClaims    int     `json:"total_claims"`
	VerifiedClaims int     `json:"verified_claims"`
	RefutedClaims  int     `json:"refuted_claims"`
	AccuracyRate   float64 `json:"accuracy_rate"`
	CreditScore    int     `json:"credit_score"`
}

// AccuracyRate is verified/total as a percentage, 0 when the source has no
// claims yet.
func (s *Source) AccuracyRate() float64 {
	if s.TotalClaims == 0 {
		return 0
	}
	return float64(s.VerifiedClaims) / float64(s.TotalClaims) * 100
}

func (s *Source) Statistics() SourceStatistics {
	return SourceStatistics{
		TotalClaims:    s.TotalClaims,
		VerifiedClaims: s.VerifiedClaims,
		RefutedClaims:  s.RefutedClaims,
		AccuracyRate:   s.AccuracyRate(),
		CreditScore:    s.CreditScore,
	}
}

// ReputationView is the flywheel read result for a source name.
type ReputationView struct {
	Name        string           `json:"name"`
	Type        SourceType       `json:"type"`
	CreditScore int              `json:"credit_score"`
	Statistics  SourceStatistics `json:"statistics"`
	LastUpdated time.Time        `json:"last_updated"`
}

// SourceSummary is the trending-sources projection.
type SourceSummary struct {
	Name        string     `json:"name"`
	Type        SourceType `json:"type"`
	CreditScore int        `json:"credit_score"`
	TotalClaims int        `json:"total_claims"`
}
