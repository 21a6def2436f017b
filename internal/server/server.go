package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/fittrack/internal/app"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  *app.Store
	log    *slog.Logger
	apiKey string
	router chi.Router
	whois  WhoIsClient
	// tick is the timer stream interval.
	tick time.Duration
}

// New creates a new Server with all routes configured.
func New(store *app.Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
		tick:   time.Second,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale resolves request identities through the tailnet. Must be
// called before serving.
func (s *Server) SetTailscale(whois WhoIsClient) {
	s.whois = whois
}

// Mount attaches an extra handler, such as the MCP endpoint, under pattern.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(s.identity)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/home", s.handleHome)
		r.Get("/stats", s.handleStats)
		r.Get("/timers/stream", s.handleTimerStream)

		r.Get("/data", s.handleGetData)
		// Bulk replace (API key required)
		r.With(APIKeyAuth(s.apiKey)).Put("/data", s.handleReplaceData)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleCreateTemplate)
			r.Patch("/{id}", s.handleUpdateTemplate)
			r.Delete("/{id}", s.handleDeleteTemplate)
			r.Get("/{id}/history", s.handleTemplateHistory)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/", s.handleListDays)
			r.Post("/", s.handleCreateDay)
			r.Patch("/{id}", s.handleUpdateDay)
			r.Delete("/{id}", s.handleDeleteDay)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", s.handleListWorkouts)
			r.Post("/", s.handleStartWorkout)
			r.Get("/{id}", s.handleGetWorkout)
			r.Delete("/{id}", s.handleDeleteWorkout)
			r.Post("/{id}/complete", s.handleCompleteWorkout)
			r.Post("/{id}/exercises", s.handleAddExercise)
			r.Delete("/{id}/exercises/{eid}", s.handleDeleteExercise)
			r.Post("/{id}/exercises/{eid}/timer/{action}", s.handleExerciseTimer)
			r.Post("/{id}/exercises/{eid}/sets", s.handleAddSet)
			r.Patch("/{id}/exercises/{eid}/sets/{sid}", s.handleUpdateSet)
			r.Delete("/{id}/exercises/{eid}/sets/{sid}", s.handleDeleteSet)
		})

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Post("/", s.handleStartRun)
			r.Patch("/{id}", s.handleUpdateRun)
			r.Delete("/{id}", s.handleDeleteRun)
			r.Post("/{id}/{action}", s.handleRunAction)
		})

		r.Route("/weight", func(r chi.Router) {
			r.Get("/", s.handleListWeight)
			r.Post("/", s.handleAddWeight)
			r.Get("/stats", s.handleWeightStats)
			r.Delete("/{id}", s.handleDeleteWeight)
		})

		r.Get("/profile", s.handleGetProfile)
		r.Patch("/profile", s.handleUpdateProfile)
	})
}

// SetFrontend mounts the SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
