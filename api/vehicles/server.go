// Package vehicles exposes the dispatch scheduler over HTTP. Vehicles poll
// for commands and post arrival reports; operators call vehicles to stations
// and read the diagnostic views.
package vehicles

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fleetops/ringrail/core/logger"
	"github.com/fleetops/ringrail/core/model"
)

// Dispatcher is the scheduler surface the API needs.
type Dispatcher interface {
	Initialize(positions map[string]int) error
	RequestMove(vehicle string, target int) error
	NextCommand(vehicle string) (model.Command, error)
	ReportArrival(vehicle string, rep model.ArrivalReport) error
	Reset()
	Snapshot() model.Snapshot
	Positions() (map[string]int, error)
	PlannedPaths() map[string][]int
	Dashboard() model.Dashboard
}

// Server routes HTTP requests to a Dispatcher.
type Server struct {
	router     chi.Router
	dispatcher Dispatcher
	log        logger.Logger
	startTime  time.Time
}

// NewServer creates a Server with all routes registered.
func NewServer(d Dispatcher, log logger.Logger) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		dispatcher: d,
		log:        log,
		startTime:  time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the underlying router.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/vehicles/{vehicle}", func(r chi.Router) {
			r.Get("/command", s.handleCommand)
			r.Post("/report", s.handleReport)
		})
		r.Post("/call", s.handleCall)
		r.Post("/initialize", s.handleInitialize)
		r.Post("/reset", s.handleReset)
		r.Get("/status", s.handleStatus)
		r.Get("/positions", s.handlePositions)
		r.Get("/sequences", s.handleSequences)
		r.Get("/dashboard", s.handleDashboard)
	})
}
