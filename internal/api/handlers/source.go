package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SourceHandler struct {
	repo *service.Repository
}

func NewSourceHandler(repo *service.Repository) *SourceHandler {
	return &SourceHandler{repo: repo}
}

type createSourceRequest struct {
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	URL         string         `json:"url,omitempty"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Create finds or creates the source by name. An existing name returns the
// stored record untouched, so the endpoint is safe to call repeatedly.
func (h *SourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	src, err := h.repo.FindOrCreateSource(r.Context(), req.Name, domain.SourceType(req.Type), service.SourceAttrs{
		URL:         req.URL,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSourceNameEmpty), errors.Is(err, service.ErrInvalidSourceType):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create source")
		}
		return
	}

	writeJSON(w, http.StatusCreated, src)
}

func (h *SourceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	src, err := h.repo.GetSource(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSourceNotFound) {
			writeError(w, http.StatusNotFound, "source not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get source")
		return
	}

	writeJSON(w, http.StatusOK, src)
}

func (h *SourceHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	stats, err := h.repo.GetSourceStatistics(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSourceNotFound) {
			writeError(w, http.StatusNotFound, "source not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type adjustScoreRequest struct {
	Delta int `json:"delta"`
}

type adjustScoreResponse struct {
	SourceID    uuid.UUID `json:"source_id"`
	CreditScore int       `json:"credit_score"`
}

func (h *SourceHandler) AdjustScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source id")
		return
	}

	var req adjustScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	score, err := h.repo.UpdateSourceCreditScore(r.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, service.ErrSourceNotFound) {
			writeError(w, http.StatusNotFound, "source not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to adjust score")
		return
	}

	writeJSON(w, http.StatusOK, adjustScoreResponse{SourceID: id, CreditScore: score})
}

// Reputation is the flywheel lookup. A name nobody has investigated yet is
// a 404, not an empty record.
func (h *SourceHandler) Reputation(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}

	view, err := h.repo.QueryReputationByName(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query reputation")
		return
	}
	if view == nil {
		writeError(w, http.StatusNotFound, "no reputation recorded for source")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

const defaultTrendingLimit = 10

func (h *SourceHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit := defaultTrendingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	sources, err := h.repo.GetTrendingSources(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trending sources")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sources": sources})
}
