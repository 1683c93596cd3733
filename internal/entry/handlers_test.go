package entry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hourlog/internal/api"
	"hourlog/internal/hours"
	"hourlog/internal/workflow"
)

func TestCanTouch(t *testing.T) {
	e := &Entry{StudentID: "stu-1", CompanyID: "co-1"}

	cases := []struct {
		name  string
		actor api.Actor
		want  bool
	}{
		{"owning student", api.Actor{ID: "stu-1", Role: workflow.RoleStudent}, true},
		{"other student", api.Actor{ID: "stu-2", Role: workflow.RoleStudent}, false},
		{"assigned company", api.Actor{ID: "co-1", Role: workflow.RoleCompany}, true},
		{"other company", api.Actor{ID: "co-2", Role: workflow.RoleCompany}, false},
		{"administrator", api.Actor{ID: "admin-1", Role: workflow.RoleAdministrator}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, canTouch(tc.actor, e))
		})
	}
}

func TestDeriveTimes(t *testing.T) {
	in, out, total, err := deriveTimes("09:00", "17:00", 60)
	require.NoError(t, err)
	assert.Equal(t, 540, in)
	assert.Equal(t, 1020, out)
	assert.Equal(t, "7.00", total.StringFixed(2))

	// Overnight shift wraps past midnight.
	in, out, total, err = deriveTimes("22:00", "06:00", 30)
	require.NoError(t, err)
	assert.Equal(t, 1320, in)
	assert.Equal(t, 360, out)
	assert.Equal(t, "7.50", total.StringFixed(2))

	_, _, _, err = deriveTimes("25:00", "17:00", 0)
	require.Error(t, err)
}

func TestWriteErrorTaxonomy(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"lost race", ErrStatusChanged, http.StatusConflict, "STATE_CHANGED"},
		{"duplicate day", &ConflictError{StudentID: "stu-1", Date: day}, http.StatusConflict, "CONFLICT"},
		{"full week", &LimitError{StudentID: "stu-1", WeekStart: day}, http.StatusUnprocessableEntity, "WEEK_LIMIT"},
		{"bad transition", &workflow.StateError{Role: workflow.RoleCompany, Current: workflow.StatusPending}, http.StatusConflict, "INVALID_STATE_TRANSITION"},
		{"wrong role", &workflow.AuthorizationError{Role: workflow.RoleStudent}, http.StatusForbidden, "FORBIDDEN"},
		{"bad clock", hours.ValidationError{Code: "INVALID_TIME", Message: "bad clock"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"future date", workflow.ErrFutureDate, http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	h := Handlers{Logger: zap.NewNop()}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeError(rec, tc.err)
			assert.Equal(t, tc.wantCode, rec.Code)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantErr, body.Error.Code)
		})
	}
}
