package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hourlog/internal/api"
	"hourlog/internal/assignment"
	"hourlog/internal/bulk"
	"hourlog/internal/entry"
	"hourlog/internal/logbook"
	"hourlog/internal/workflow"
	"hourlog/pkg/config"
)

type Dependencies struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Logger *zap.Logger
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assignmentsRepo := assignment.NewRepository(deps.DB)
	entriesRepo := entry.NewRepository(deps.DB)
	entryHandlers := entry.Handlers{
		DB:          deps.DB,
		Entries:     entriesRepo,
		Assignments: assignmentsRepo,
		Logger:      deps.Logger,
	}
	bulkHandlers := bulk.Handlers{
		Service: bulk.NewService(&bulk.PGStore{DB: deps.DB}, assignmentsRepo, deps.Logger),
	}
	logbookHandlers := logbook.Handlers{
		Logs:   logbook.NewRepository(deps.DB),
		Logger: deps.Logger,
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.PortalAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAgeSeconds:  600,
		}))
		r.Use(api.SessionAuth(deps.Cfg))

		// Timesheet entries
		r.Post("/entries", entryHandlers.Create)
		r.Get("/entries", entryHandlers.List)
		r.Get("/entries/{id}", entryHandlers.Get)
		r.Patch("/entries/{id}", entryHandlers.PatchTime)
		r.Patch("/entries/{id}/status", entryHandlers.PatchStatus)
		r.Get("/entries/{id}/events", entryHandlers.Events)

		// Weekly grouping and bulk transitions
		r.Get("/weeks", entryHandlers.Weekly)
		r.Post("/weeks/submit", bulkHandlers.SubmitWeek)
		r.Post("/students/{id}/approve-all", bulkHandlers.ApproveAll)
		r.Post("/students/{id}/submit-to-dean", bulkHandlers.SubmitToDean)

		// Weekly logbook
		r.Post("/logbooks", logbookHandlers.Create)
		r.Get("/logbooks", logbookHandlers.List)
		r.Get("/logbooks/{id}", logbookHandlers.Get)
		r.With(api.RequireRole(workflow.RoleAdministrator)).
			Post("/logbooks/{id}/review", logbookHandlers.Review)
	})

	return r
}
