package api

import (
	"net/http"

	"load-planning-service/internal/api/handlers"
	"load-planning-service/internal/ports"
	"load-planning-service/internal/services"
)

type RouterConfig struct {
	DefaultLanguage string
	DefaultCapacity float64
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.MatchRepository, planner *services.ShipmentPlanner, runs *services.RunRegistry, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	matchHandler := &handlers.MatchHandler{Repo: repo}
	planHandler := &handlers.PlanHandler{
		Planner:         planner,
		Runs:            runs,
		DefaultLanguage: cfg.DefaultLanguage,
		DefaultCapacity: cfg.DefaultCapacity,
	}
	layoutHandler := &handlers.LayoutHandler{DefaultCapacity: cfg.DefaultCapacity}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/matches", matchHandler.ListMatches)
	mux.HandleFunc("/companies", matchHandler.ListCompanies)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/layouts", layoutHandler.Layout)

	return loggingMiddleware(handlers.Recover(mux))
}
