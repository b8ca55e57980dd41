// Package api exposes the decision pipeline over a JSON HTTP surface. The
// dashboard and the COA generator are external collaborators; this package
// only translates between their records and the typed core.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"coarank/adapters/resources"
	"coarank/internal"
	"coarank/ports"
)

// App represents the HTTP application
type App struct {
	router    *chi.Mux
	ranker    ports.Ranker
	ledger    ports.DecisionLedger
	relevance ports.RelevanceSource
	parser    *resources.Parser
	logger    *internal.Logger
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates the HTTP application over the given core components.
func NewApp(ranker ports.Ranker, ledger ports.DecisionLedger, relevance ports.RelevanceSource) *App {
	app := &App{
		router:    chi.NewRouter(),
		ranker:    ranker,
		ledger:    ledger,
		relevance: relevance,
		parser:    resources.NewParser(),
		logger:    internal.DefaultLogger,
	}
	app.routes()
	return app
}

func (a *App) routes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Post("/rank", a.handleRank)
		r.Get("/rankings", a.handleListRankings)
		r.Get("/rankings/{runID}", a.handleGetRanking)
		r.Get("/rankings/{runID}/briefing", a.handleBriefing)
		r.Get("/relevance/stats", a.handleRelevanceStats)
	})
}

// Router exposes the configured router, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server; blocks until the listener fails.
func (a *App) Start(cfg Config) error {
	addr := ":" + cfg.Port
	a.logger.Info("coa ranking api listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleRelevanceStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.relevance.Stats())
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%v", err)})
}
