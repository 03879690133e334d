package server

import (
	"net/http"
	"os"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
)

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logMiddleware)

	r.HandleFunc("/ws/{roomID}/{clientID}", s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/ws/{roomID}", s.handleWebSocket).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)
	api.HandleFunc("", s.handleInfo).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{roomID}/exists", s.handleRoomExists).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/rooms/{roomID}", s.handleRoomCreate).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Serve the built frontend when one is configured and present.
	if dir := s.cfg.HTTP.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
		} else {
			s.logger.Warn("static dir not found, skipping", "dir", dir)
		}
	}

	return r
}

// logMiddleware emits one access log line per request, WebSocket
// upgrades included.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"status", m.Code,
			"duration", m.Duration,
		)
	})
}

// corsMiddleware mirrors the original server's permissive CORS policy
// on the admin API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
