package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/credgraph/credgraph/internal/domain"
	"github.com/credgraph/credgraph/internal/service"
	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	repo  *service.Repository
	graph *service.GraphService
}

func NewEventHandler(repo *service.Repository, graph *service.GraphService) *EventHandler {
	return &EventHandler{repo: repo, graph: graph}
}

type createEventRequest struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Category    string         `json:"category,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.repo.CreateEvent(r.Context(), req.ID, service.EventAttrs{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Category:    req.Category,
		Metadata:    req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventIDEmpty):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDuplicateEvent):
			writeError(w, http.StatusConflict, "event already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create event")
		}
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.repo.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

type updateEventStatusRequest struct {
	Status           string   `json:"status"`
	CredibilityScore *float64 `json:"credibility_score,omitempty"`
}

func (h *EventHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateEventStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.repo.UpdateEventStatus(r.Context(), id, domain.EventStatus(req.Status), req.CredibilityScore)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEventStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEventNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update event")
		}
		return
	}

	event, err := h.repo.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Credibility(w http.ResponseWriter, r *http.Request) {
	cred, err := h.graph.CalculateEventCredibility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to calculate credibility")
		return
	}

	writeJSON(w, http.StatusOK, cred)
}

func (h *EventHandler) Graph(w http.ResponseWriter, r *http.Request) {
	graph, err := h.graph.GenerateEventGraph(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to generate graph")
		return
	}

	writeJSON(w, http.StatusOK, graph)
}

func (h *EventHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.repo.GetEvent(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	timeline, err := h.graph.GeneratePropagationTimeline(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate timeline")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"timeline": timeline})
}
