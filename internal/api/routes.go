package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yegors/flightplanner/internal/briefing"
	"github.com/yegors/flightplanner/internal/config"
	"github.com/yegors/flightplanner/internal/metrics"
	"github.com/yegors/flightplanner/internal/planner"
	"github.com/yegors/flightplanner/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	metrics    *metrics.Registry
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router. A nil registry disables /metrics.
func NewRouter(plannerService *planner.Service, briefs *briefing.Generator, reg *metrics.Registry, cfg *config.Config, log *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(plannerService, briefs, reg, cfg, log),
		middleware: NewMiddleware(log),
		metrics:    reg,
		config:     cfg,
		logger:     log.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	if r.metrics != nil {
		router.Use(r.middleware.Metrics(r.metrics))
		router.Method(http.MethodGet, "/metrics", r.metrics.Handler())
	}

	router.Route("/api/v1", func(router chi.Router) {
		router.Get("/health", r.handler.GetHealth)
		router.Get("/config", r.handler.GetConfig)
		router.Get("/isochrones", r.handler.GetIsochrones)

		// Open routes
		router.Get("/routes", r.handler.ListRoutes)
		router.Post("/routes", r.handler.CreateRoute)
		router.Post("/routes/import", r.handler.ImportRoute)

		router.Route("/routes/{id}", func(router chi.Router) {
			router.Get("/", r.handler.GetRoute)
			router.Delete("/", r.handler.CloseRoute)

			// Waypoint edits
			router.Post("/waypoints", r.handler.AppendWaypoint)
			router.Post("/waypoints/{index}/insert", r.handler.InsertWaypoint)
			router.Delete("/waypoints/{index}", r.handler.DeleteWaypoint)

			// Dragging
			router.Post("/drag/start", r.handler.StartDrag)
			router.Post("/drag/move", r.handler.MoveDrag)
			router.Post("/drag/altitude", r.handler.DragAltitude)
			router.Post("/drag/end", r.handler.EndDrag)

			router.Post("/relabel", r.handler.Relabel)
			router.Post("/clear", r.handler.ClearRoute)
			router.Put("/aircraft", r.handler.SetAircraft)
			router.Put("/name", r.handler.RenameRoute)
			router.Put("/content", r.handler.ReplaceContent)

			// Outputs
			router.Get("/export", r.handler.ExportRoute)
			router.Get("/summary", r.handler.GetSummary)
			router.Get("/geojson", r.handler.GetGeoJSON)
			router.Post("/brief", r.handler.GenerateBrief)

			router.Post("/save", r.handler.SaveRoute)
		})

		// Saved routes
		router.Get("/saved", r.handler.ListSaved)
		router.Post("/saved/{id}/open", r.handler.OpenSaved)
		router.Delete("/saved/{id}", r.handler.DeleteSaved)
	})

	return router
}
