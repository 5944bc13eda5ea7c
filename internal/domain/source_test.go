package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampCreditScore(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"below floor", -10, 0},
		{"at floor", 0, 0},
		{"in range", 57, 57},
		{"at ceiling", 100, 100},
		{"above ceiling", 140, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClampCreditScore(tc.in))
		})
	}
}

func TestValidSourceType(t *testing.T) {
	assert.True(t, ValidSourceType("official_media"))
	assert.True(t, ValidSourceType("anonymous"))
	assert.False(t, ValidSourceType("tabloid"))
	assert.False(t, ValidSourceType(""))
}

func TestAccuracyRate(t *testing.T) {
	cases := []struct {
		name     string
		total    int
		verified int
		want     float64
	}{
		{"no claims", 0, 0, 0},
		{"all verified", 4, 4, 100},
		{"partial", 4, 3, 75},
		{"none verified", 3, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Source{TotalClaims: tc.total, VerifiedClaims: tc.verified}
			assert.Equal(t, tc.want, s.AccuracyRate())
		})
	}
}

func TestStatistics(t *testing.T) {
	s := Source{
		TotalClaims:    5,
		VerifiedClaims: 2,
		RefutedClaims:  3,
		CreditScore:    35,
	}
	stats := s.Statistics()
	assert.Equal(t, 5, stats.TotalClaims)
	assert.Equal(t, 2, stats.VerifiedClaims)
	assert.Equal(t, 3, stats.RefutedClaims)
	assert.Equal(t, float64(40), stats.AccuracyRate)
	assert.Equal(t, 35, stats.CreditScore)
}

func TestStatusTransitionEntered(t *testing.T) {
	cases := []struct {
		name   string
		tr     StatusTransition
		status ClaimStatus
		want   bool
	}{
		{"entry", StatusTransition{From: ClaimPending, To: ClaimVerified}, ClaimVerified, true},
		{"no-op repeat", StatusTransition{From: ClaimVerified, To: ClaimVerified}, ClaimVerified, false},
		{"different target", StatusTransition{From: ClaimPending, To: ClaimRefuted}, ClaimVerified, false},
		{"re-entry after flip", StatusTransition{From: ClaimRefuted, To: ClaimVerified}, ClaimVerified, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.tr.Entered(tc.status))
		})
	}
}
