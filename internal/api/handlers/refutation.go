package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/credgraph/credgraph/internal/service"
	"github.com/google/uuid"
)

type RefutationHandler struct {
	repo *service.Repository
}

func NewRefutationHandler(repo *service.Repository) *RefutationHandler {
	return &RefutationHandler{repo: repo}
}

type createRefutationRequest struct {
	RefutingClaimID string  `json:"refuting_claim_id"`
	RefutedClaimID  string  `json:"refuted_claim_id"`
	Confidence      float64 `json:"confidence"`
	Evidence        []any   `json:"evidence,omitempty"`
}

func (h *RefutationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRefutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	refutingID, err := uuid.Parse(req.RefutingClaimID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid refuting_claim_id")
		return
	}
	refutedID, err := uuid.Parse(req.RefutedClaimID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid refuted_claim_id")
		return
	}

	ref, err := h.repo.CreateClaimRefutation(r.Context(), refutingID, refutedID, req.Confidence, req.Evidence)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConfidenceOutOfRange), errors.Is(err, service.ErrSelfRefutation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClaimNotFound):
			writeError(w, http.StatusBadRequest, "claim not found")
		case errors.Is(err, service.ErrDuplicateRefutation):
			writeError(w, http.StatusConflict, "refutation edge already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create refutation")
		}
		return
	}

	writeJSON(w, http.StatusCreated, ref)
}
