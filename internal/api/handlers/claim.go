package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ClaimHandler struct {
	repo  *service.Repository
	graph *service.GraphService
}

func NewClaimHandler(repo *service.Repository, graph *service.GraphService) *ClaimHandler {
	return &ClaimHandler{repo: repo, graph: graph}
}

type createClaimRequest struct {
	Text      string         `json:"text"`
	SourceID  string         `json:"source_id"`
	EventID   string         `json:"event_id,omitempty"`
	ClaimType string         `json:"claim_type,omitempty"`
	Entities  []string       `json:"entities,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
}

func (h *ClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source_id")
		return
	}

	in := service.ClaimInput{
		Text:      req.Text,
		SourceID:  sourceID,
		EventID:   req.EventID,
		ClaimType: req.ClaimType,
		Entities:  req.Entities,
		Metadata:  req.Metadata,
	}
	if req.Timestamp != nil {
		in.Timestamp = *req.Timestamp
	} else {
		in.Timestamp = time.Now().UTC()
	}

	claim, err := h.repo.CreateClaim(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimTextEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSourceNotFound):
			writeError(w, http.StatusBadRequest, "source not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create claim")
		}
		return
	}

	writeJSON(w, http.StatusCreated, claim)
}

func (h *ClaimHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, err := h.repo.GetClaim(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			writeError(w, http.StatusNotFound, "claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}

	writeJSON(w, http.StatusOK, claim)
}

type updateClaimStatusRequest struct {
	Status             string         `json:"status"`
	VerificationResult map[string]any `json:"verification_result,omitempty"`
}

type updateClaimStatusResponse struct {
	ClaimID uuid.UUID          `json:"claim_id"`
	From    domain.ClaimStatus `json:"from"`
	To      domain.ClaimStatus `json:"to"`
}

func (h *ClaimHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	var req updateClaimStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tr, err := h.repo.UpdateClaimStatus(r.Context(), id, domain.ClaimStatus(req.Status), req.VerificationResult)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClaimStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClaimNotFound):
			writeError(w, http.StatusNotFound, "claim not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update claim")
		}
		return
	}

	writeJSON(w, http.StatusOK, updateClaimStatusResponse{ClaimID: id, From: tr.From, To: tr.To})
}

func (h *ClaimHandler) RefutationChain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	chain, err := h.graph.FindRefutationChain(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			writeError(w, http.StatusNotFound, "claim not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to walk refutation chain")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"claim_id": id, "chain": chain})
}
