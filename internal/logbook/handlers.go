package logbook

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hourlog/internal/api"
	"hourlog/internal/week"
	"hourlog/internal/workflow"
)

type Handlers struct {
	Logs   *Repository
	Logger *zap.Logger
}

type CreateRequest struct {
	WeekOf      string    `json:"weekOf"` // any date inside the week, YYYY-MM-DD
	Narrative   Narrative `json:"narrative"`
	Attachments []string  `json:"attachments,omitempty"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	if actor.Role != workflow.RoleStudent {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only students write logbook entries")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	weekOf, err := time.Parse("2006-01-02", req.WeekOf)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "weekOf must be YYYY-MM-DD")
		return
	}
	if err := req.Narrative.Validate(); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	created, err := h.Logs.Insert(r.Context(), &Log{
		StudentID:   actor.ID,
		WeekStart:   week.StartOf(weekOf),
		Narrative:   req.Narrative,
		Attachments: req.Attachments,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}

	studentID := r.URL.Query().Get("student")
	switch actor.Role {
	case workflow.RoleStudent:
		studentID = actor.ID
	case workflow.RoleAdministrator:
		// any student, or all when unfiltered
	default:
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "logbooks are reviewed by the administrator")
		return
	}

	items, err := h.Logs.List(r.Context(), studentID)
	if err != nil {
		h.Logger.Error("list logbooks failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	l, err := h.Logs.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if actor.Role == workflow.RoleStudent && l.StudentID != actor.ID {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "logbook entry belongs to someone else")
		return
	}
	if actor.Role == workflow.RoleCompany {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "logbooks are reviewed by the administrator")
		return
	}
	api.WriteJSON(w, http.StatusOK, l)
}

type ReviewRequest struct {
	Decision string `json:"decision"` // approved | declined
	Feedback string `json:"feedback,omitempty"`
}

func (h Handlers) Review(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	if actor.Role != workflow.RoleAdministrator {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only the administrator reviews logbooks")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	decision, err := ParseDecision(req.Decision)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	l, err := h.Logs.Review(r.Context(), id, decision, req.Feedback)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, l)
}

func (h Handlers) writeError(w http.ResponseWriter, err error) {
	var conflictErr *ConflictError
	switch {
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "logbook entry not found")
	case errors.Is(err, ErrAlreadyReviewed):
		api.WriteError(w, http.StatusConflict, "ALREADY_REVIEWED", "logbook entry has already been reviewed")
	case errors.As(err, &conflictErr):
		api.WriteError(w, http.StatusConflict, "CONFLICT", conflictErr.Error())
	default:
		h.Logger.Error("logbook operation failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
