package entry

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"hourlog/internal/api"
	"hourlog/internal/assignment"
	"hourlog/internal/audit"
	"hourlog/internal/events"
	"hourlog/internal/hours"
	"hourlog/internal/week"
	"hourlog/internal/workflow"
	"hourlog/pkg/db"
)

type Handlers struct {
	DB          *pgxpool.Pool
	Entries     *Repository
	Assignments *assignment.Repository
	Logger      *zap.Logger
}

type CreateRequest struct {
	Date         string `json:"date"`
	TimeIn       string `json:"timeIn"`
	TimeOut      string `json:"timeOut"`
	BreakMinutes int    `json:"breakMinutes"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	if actor.Role != workflow.RoleStudent {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only students create entries")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "date must be YYYY-MM-DD")
		return
	}
	if date.After(today()) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "entries cannot be created for future dates")
		return
	}
	timeIn, timeOut, total, err := deriveTimes(req.TimeIn, req.TimeOut, req.BreakMinutes)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	asg, err := h.Assignments.CompanyFor(r.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, assignment.ErrNoAssignment) {
			api.WriteError(w, http.StatusUnprocessableEntity, "NO_ASSIGNMENT", "student has no assigned reviewing company")
			return
		}
		h.internal(w, "assignment lookup failed", err)
		return
	}

	// One-per-day uniqueness makes seven the natural weekly ceiling; the
	// explicit check keeps the invariant visible and the error specific.
	win := week.WindowOf(date)
	n, err := h.Entries.CountInWindow(r.Context(), actor.ID, win)
	if err != nil {
		h.internal(w, "week count failed", err)
		return
	}
	if n >= week.MaxEntries {
		api.WriteError(w, http.StatusUnprocessableEntity, "WEEK_LIMIT", (&LimitError{StudentID: actor.ID, WeekStart: win.Start}).Error())
		return
	}

	created, err := h.Entries.Insert(r.Context(), &Entry{
		StudentID:    actor.ID,
		CompanyID:    asg.CompanyID,
		EntryDate:    date,
		TimeIn:       timeIn,
		TimeOut:      timeOut,
		BreakMinutes: req.BreakMinutes,
		TotalHours:   total,
		Status:       workflow.StatusPending,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created.View())
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}

	f := Filter{}
	q := r.URL.Query()
	switch actor.Role {
	case workflow.RoleStudent:
		f.StudentID = actor.ID
	case workflow.RoleCompany:
		f.CompanyID = actor.ID
		f.StudentID = q.Get("student")
	case workflow.RoleAdministrator:
		f.StudentID = q.Get("student")
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "from must be YYYY-MM-DD")
			return
		}
		f.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "to must be YYYY-MM-DD")
			return
		}
		f.To = &t
	}
	if v := q.Get("status"); v != "" {
		st, err := workflow.ParseStatus(v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown status filter")
			return
		}
		f.Status = &st
	}

	items, err := h.Entries.List(r.Context(), f)
	if err != nil {
		h.internal(w, "list entries failed", err)
		return
	}
	views := make([]View, 0, len(items))
	for i := range items {
		views = append(views, items[i].View())
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	e, ok := h.loadScoped(w, r, actor)
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, e.View())
}

type PatchTimeRequest struct {
	TimeIn       *string `json:"timeIn,omitempty"`
	TimeOut      *string `json:"timeOut,omitempty"`
	BreakMinutes *int    `json:"breakMinutes,omitempty"`
}

// PatchTime edits the time fields of one entry. totalHours is re-derived,
// never patched, and the status moves per the edit rules (a student edit of
// a declined entry resets it to pending, a company edit marks it edited).
func (h Handlers) PatchTime(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}

	var req PatchTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.TimeIn == nil && req.TimeOut == nil && req.BreakMinutes == nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "no fields to update")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var updated *Entry
	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		e, err := GetTx(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if !canTouch(*actor, e) {
			return &workflow.AuthorizationError{Role: actor.Role, Reason: "entry belongs to someone else"}
		}
		if err := workflow.CheckFieldEdit(actor.Role, e.Status, e.EntryDate, today()); err != nil {
			return err
		}

		timeIn, timeOut, breakMinutes := e.TimeIn, e.TimeOut, e.BreakMinutes
		if req.TimeIn != nil {
			if timeIn, err = hours.ParseClock(*req.TimeIn); err != nil {
				return err
			}
		}
		if req.TimeOut != nil {
			if timeOut, err = hours.ParseClock(*req.TimeOut); err != nil {
				return err
			}
		}
		if req.BreakMinutes != nil {
			breakMinutes = *req.BreakMinutes
		}
		total, err := hours.Total(timeIn, timeOut, breakMinutes)
		if err != nil {
			return err
		}

		next := workflow.StatusAfterEdit(actor.Role, e.Status)
		updated, err = UpdateTimeConditional(r.Context(), tx, id, e.Status,
			TimePatch{TimeIn: timeIn, TimeOut: timeOut, BreakMinutes: breakMinutes, TotalHours: total}, next)
		if err != nil {
			return err
		}

		entryID := updated.ID
		if err := audit.Insert(r.Context(), tx, actor.ID, string(actor.Role), "FIELDS_EDITED", &entryID,
			map[string]any{"from": e.Status, "to": next}); err != nil {
			return err
		}
		if next != e.Status {
			return events.Insert(r.Context(), tx, entryID, "STATUS_CHANGED", "Status changed after edit",
				string(actor.Role), time.Now(), map[string]any{"from": e.Status, "to": next})
		}
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated.View())
}

type PatchStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// PatchStatus applies a single-record review decision. The update is
// compare-and-set on the status the reviewer saw: if the record moved in the
// meantime the caller gets STATE_CHANGED instead of a silent overwrite.
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}

	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	requested, err := workflow.ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var updated *Entry
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		e, err := GetTx(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if !canTouch(*actor, e) {
			return &workflow.AuthorizationError{Role: actor.Role, Reason: "entry belongs to someone else"}
		}
		if err := workflow.CheckReview(actor.Role, e.Status, requested); err != nil {
			return err
		}

		var companyNotes, deanNotes *string
		if req.Notes != "" {
			switch actor.Role {
			case workflow.RoleCompany:
				companyNotes = &req.Notes
			case workflow.RoleAdministrator:
				deanNotes = &req.Notes
			}
		}

		updated, err = UpdateStatusConditional(r.Context(), tx, id, e.Status, requested, companyNotes, deanNotes)
		if err != nil {
			return err
		}

		entryID := updated.ID
		if err := audit.Insert(r.Context(), tx, actor.ID, string(actor.Role), "STATUS_CHANGED", &entryID,
			map[string]any{"from": e.Status, "to": requested}); err != nil {
			return err
		}
		return events.Insert(r.Context(), tx, entryID, "STATUS_CHANGED", "Status changed",
			string(actor.Role), time.Now(), map[string]any{"from": e.Status, "to": requested})
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated.View())
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}
	e, ok := h.loadScoped(w, r, actor)
	if !ok {
		return
	}

	evs, err := events.ListByEntry(r.Context(), h.DB, e.ID)
	if err != nil {
		h.internal(w, "list events failed", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": evs})
}

// WeekView is the derived weekly grouping; its state is recomputed from the
// member statuses on every read and never stored.
type WeekView struct {
	StudentID  string     `json:"studentId"`
	WeekStart  string     `json:"weekStart"`
	WeekEnd    string     `json:"weekEnd"`
	State      week.State `json:"state"`
	TotalHours string     `json:"totalHours"`
	Entries    []View     `json:"entries"`
}

func (h Handlers) Weekly(w http.ResponseWriter, r *http.Request) {
	actor := api.ActorFromContext(r.Context())
	if actor == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing actor identity")
		return
	}

	q := r.URL.Query()
	studentID := q.Get("student")
	if actor.Role == workflow.RoleStudent {
		studentID = actor.ID
	}
	if studentID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing student")
		return
	}
	if actor.Role == workflow.RoleCompany {
		assigned, err := h.Assignments.IsAssigned(r.Context(), studentID, actor.ID)
		if err != nil {
			h.internal(w, "assignment lookup failed", err)
			return
		}
		if !assigned {
			api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "company is not the student's assigned reviewer")
			return
		}
	}

	weekOf := today()
	if v := q.Get("weekOf"); v != "" {
		t, err := time.Parse(DateLayout, v)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "weekOf must be YYYY-MM-DD")
			return
		}
		weekOf = t
	}
	win := week.WindowOf(weekOf)

	items, err := h.Entries.ListWindow(r.Context(), studentID, win)
	if err != nil {
		h.internal(w, "weekly view failed", err)
		return
	}

	statuses := make([]workflow.Status, 0, len(items))
	views := make([]View, 0, len(items))
	total := decimal.Zero
	for i := range items {
		statuses = append(statuses, items[i].Status)
		views = append(views, items[i].View())
		total = total.Add(items[i].TotalHours)
	}

	api.WriteJSON(w, http.StatusOK, WeekView{
		StudentID:  studentID,
		WeekStart:  win.Start.Format(DateLayout),
		WeekEnd:    win.End.AddDate(0, 0, -1).Format(DateLayout),
		State:      week.AggregateState(statuses),
		TotalHours: total.StringFixed(hours.Scale),
		Entries:    views,
	})
}

func (h Handlers) loadScoped(w http.ResponseWriter, r *http.Request, actor *api.Actor) (*Entry, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return nil, false
	}
	e, err := h.Entries.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	if !canTouch(*actor, e) {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "entry belongs to someone else")
		return nil, false
	}
	return e, true
}

func canTouch(actor api.Actor, e *Entry) bool {
	switch actor.Role {
	case workflow.RoleStudent:
		return e.StudentID == actor.ID
	case workflow.RoleCompany:
		return e.CompanyID == actor.ID
	case workflow.RoleAdministrator:
		return true
	default:
		return false
	}
}

func deriveTimes(timeIn, timeOut string, breakMinutes int) (int, int, decimal.Decimal, error) {
	in, err := hours.ParseClock(timeIn)
	if err != nil {
		return 0, 0, decimal.Zero, err
	}
	out, err := hours.ParseClock(timeOut)
	if err != nil {
		return 0, 0, decimal.Zero, err
	}
	total, err := hours.Total(in, out, breakMinutes)
	if err != nil {
		return 0, 0, decimal.Zero, err
	}
	return in, out, total, nil
}

// today is the date-only "now" used by the future-date rules.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (h Handlers) internal(w http.ResponseWriter, msg string, err error) {
	h.Logger.Error(msg, zap.Error(err))
	api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
}

func (h Handlers) writeError(w http.ResponseWriter, err error) {
	var (
		stateErr    *workflow.StateError
		authErr     *workflow.AuthorizationError
		conflictErr *ConflictError
		limitErr    *LimitError
		valErr      hours.ValidationError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "entry not found")
	case errors.Is(err, ErrStatusChanged):
		api.WriteError(w, http.StatusConflict, "STATE_CHANGED", "entry changed since it was loaded; reload and retry")
	case errors.Is(err, workflow.ErrFutureDate):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.As(err, &conflictErr):
		api.WriteError(w, http.StatusConflict, "CONFLICT", conflictErr.Error())
	case errors.As(err, &limitErr):
		api.WriteError(w, http.StatusUnprocessableEntity, "WEEK_LIMIT", limitErr.Error())
	case errors.As(err, &stateErr):
		api.WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", stateErr.Error())
	case errors.As(err, &authErr):
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", authErr.Error())
	case errors.As(err, &valErr):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", valErr.Error())
	default:
		h.internal(w, "entry operation failed", err)
	}
}
