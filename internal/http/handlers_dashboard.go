package http

import (
	"context"
	"fmt"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// getDashboard serves the dashboard from cache when possible. Results
// computed while a write invalidated the cache are not stored.
func (s *Server) getDashboard(ctx context.Context) (core.Dashboard, error) {
	key := s.svc.Aggregator.CurrentMonth()
	if s.dashboardCache != nil {
		if d, ok := s.dashboardCache.Get(key); ok {
			applog.FromContext(ctx).DebugContext(ctx, "Dashboard cache hit", applog.FieldComponent, applog.ComponentCache, "month", key)
			return d, nil
		}
	}

	gen := s.cacheGen.Load()
	d, err := s.svc.Aggregator.Dashboard(ctx)
	if err != nil {
		return core.Dashboard{}, fmt.Errorf("build dashboard: %w", err)
	}
	if s.dashboardCache != nil && s.cacheGen.Load() == gen {
		s.dashboardCache.Set(key, d)
	}
	return d, nil
}

func (s *Server) invalidateDashboard() {
	s.cacheGen.Add(1)
	if s.dashboardCache != nil {
		s.dashboardCache.Clear()
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.getDashboard(r.Context())
	if err != nil {
		writeError(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d, err := s.getDashboard(r.Context())
	if err != nil {
		writeError(w, r, "monthly_summary", err)
		return
	}
	writeJSON(w, http.StatusOK, d.Summary)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	d, err := s.getDashboard(r.Context())
	if err != nil {
		writeError(w, r, "recent_activity", err)
		return
	}
	writeJSON(w, http.StatusOK, d.Activity)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	d, err := s.getDashboard(r.Context())
	if err != nil {
		writeError(w, r, "category_breakdown", err)
		return
	}
	writeJSON(w, http.StatusOK, d.Categories)
}
