package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/service"
	"github.com/go-chi/chi/v5"
)

type InvestigationHandler struct {
	repo *service.Repository
}

func NewInvestigationHandler(repo *service.Repository) *InvestigationHandler {
	return &InvestigationHandler{repo: repo}
}

type createInvestigationRequest struct {
	InvestigationID  string         `json:"investigation_id"`
	EventID          string         `json:"event_id,omitempty"`
	Report           map[string]any `json:"report,omitempty"`
	CredibilityScore float64        `json:"credibility_score"`
	StartedAt        *time.Time     `json:"started_at,omitempty"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// Create freezes an investigation report. Snapshots are write-once; a
// repeated id is rejected rather than overwritten.
func (h *InvestigationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvestigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap := &domain.InvestigationSnapshot{
		InvestigationID:  req.InvestigationID,
		EventID:          req.EventID,
		Report:           req.Report,
		CredibilityScore: req.CredibilityScore,
	}
	if req.StartedAt != nil {
		snap.StartedAt = *req.StartedAt
	}
	if req.CompletedAt != nil {
		snap.CompletedAt = *req.CompletedAt
	} else {
		snap.CompletedAt = time.Now().UTC()
	}

	if err := h.repo.SaveInvestigationSnapshot(r.Context(), snap); err != nil {
		switch {
		case errors.Is(err, service.ErrInvestigationIDEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventNotFound):
			writeError(w, http.StatusBadRequest, "event not found")
		case errors.Is(err, service.ErrDuplicateInvestigation):
			writeError(w, http.StatusConflict, "investigation already recorded")
		default:
			writeError(w, http.StatusInternalServerError, "failed to save investigation")
		}
		return
	}

	writeJSON(w, http.StatusCreated, snap)
}

func (h *InvestigationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	snap, err := h.repo.GetInvestigationSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrInvestigationNotFound) {
			writeError(w, http.StatusNotFound, "investigation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get investigation")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
