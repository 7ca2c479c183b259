package agent

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ritual-app/ritual/internal/logger"
	"github.com/ritual-app/ritual/internal/notify"
)

// Server exposes the agent's scheduling API on loopback. The ritual CLI is its
// only client; requests authenticate with the shared secret header.
type Server struct {
	engine    *Engine
	deliverer Deliverer
	secret    string
}

func NewServer(engine *Engine, deliverer Deliverer, secret string) *Server {
	return &Server{engine: engine, deliverer: deliverer, secret: secret}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.secretMiddleware)
		r.Put("/notifications/{external_id}", s.submitNotification)
		r.Delete("/notifications", s.cancelNotifications)
		r.Get("/notifications", s.pendingNotifications)
		r.Get("/status", s.authorizationStatus)
		r.Post("/authorize", s.requestAuthorization)
	})
	return r
}

func (s *Server) secretMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Ritual-Secret") != s.secret {
			logger.Warn("Rejected agent request with bad secret", "path", r.URL.Path)
			http.Error(w, `{"error":"invalid secret"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) submitNotification(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "external_id")
	if externalID == "" {
		http.Error(w, `{"error":"external id is required"}`, http.StatusBadRequest)
		return
	}

	var req notify.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	req.ID = externalID

	if err := s.engine.Schedule(req); err != nil {
		logger.Error("Failed to schedule reminder", "external_id", externalID, "error", err)
		http.Error(w, `{"error":"failed to schedule"}`, http.StatusUnprocessableEntity)
		return
	}

	remindersScheduled.Inc()
	remindersPending.Set(float64(len(s.engine.Pending())))
	logger.Debug("Scheduled reminder", "external_id", externalID, "fire_at", req.FireAt)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) cancelNotifications(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	// Cancel-of-absent is a no-op, not an error.
	s.engine.Cancel(payload.IDs)
	remindersCanceled.Add(float64(len(payload.IDs)))
	remindersPending.Set(float64(len(s.engine.Pending())))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pendingNotifications(w http.ResponseWriter, _ *http.Request) {
	ids := s.engine.Pending()
	if err := writeJSON(w, http.StatusOK, map[string][]string{"ids": ids}); err != nil {
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
	}
}

func (s *Server) authorizationStatus(w http.ResponseWriter, _ *http.Request) {
	status := map[string]bool{"authorized": s.deliverer.Available()}
	if err := writeJSON(w, http.StatusOK, status); err != nil {
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
	}
}

func (s *Server) requestAuthorization(w http.ResponseWriter, _ *http.Request) {
	// The tray channel has no permission dialog; authorization is simply
	// whether the channel is reachable right now.
	granted := map[string]bool{"granted": s.deliverer.Available()}
	if err := writeJSON(w, http.StatusOK, granted); err != nil {
		http.Error(w, `{"error":"failed to serialize response"}`, http.StatusInternalServerError)
	}
}
