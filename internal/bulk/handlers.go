package bulk

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hourlog/internal/api"
	"hourlog/internal/entry"
	"hourlog/internal/workflow"
)

type Handlers struct {
	Service *Service
}

type SubmitWeekRequest struct {
	WeekOf string `json:"weekOf"` // any date inside the week, YYYY-MM-DD
}

type CountResponse struct {
	AffectedCount int64 `json:"affectedCount"`
}

func (h Handlers) SubmitWeek(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}

	var req SubmitWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	weekOf, err := time.Parse(entry.DateLayout, req.WeekOf)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "weekOf must be YYYY-MM-DD")
		return
	}

	n, err := h.Service.SubmitWeek(r.Context(), *actor, actor.ID, weekOf)
	if err != nil {
		writeBulkError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, CountResponse{AffectedCount: n})
}

func (h Handlers) ApproveAll(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	studentID := chi.URLParam(r, "id")
	if studentID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing student id")
		return
	}

	n, err := h.Service.ApproveAll(r.Context(), *actor, studentID)
	if err != nil {
		writeBulkError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, CountResponse{AffectedCount: n})
}

func (h Handlers) SubmitToDean(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	studentID := chi.URLParam(r, "id")
	if studentID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing student id")
		return
	}

	n, err := h.Service.SubmitToDean(r.Context(), *actor, studentID)
	if err != nil {
		writeBulkError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, CountResponse{AffectedCount: n})
}

func writeBulkError(w http.ResponseWriter, err error) {
	var authErr *workflow.AuthorizationError
	switch {
	case errors.As(err, &authErr):
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", authErr.Error())
	case errors.Is(err, ErrNothingEligible):
		api.WriteError(w, http.StatusConflict, "NOTHING_ELIGIBLE", "no entries eligible for submission")
	default:
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
