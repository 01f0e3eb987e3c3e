package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/partywire/partywire/internal/middleware"
	"github.com/partywire/partywire/internal/registry"
	"github.com/partywire/partywire/internal/transport/ws"
)

// RouterConfig holds configuration for the HTTP router
type RouterConfig struct {
	Logger   *slog.Logger
	Hub      *ws.Hub
	Registry *registry.Registry
}

// NewRouter creates the HTTP router. The websocket endpoint is mounted
// without the middleware chain: wrapping the ResponseWriter would hide
// http.Hijacker from the upgrader, and the hub does its own logging.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ws", cfg.Hub.ServeWS)

	plain := r.NewRoute().Subrouter()
	plain.Use(middleware.Recovery(cfg.Logger))
	plain.Use(middleware.Logging(cfg.Logger))
	plain.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	plain.HandleFunc("/stats", statsHandler(cfg)).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// statsHandler reports coordinator occupancy: registry counts plus live
// websocket connections (which can exceed players before a first join)
func statsHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, rooms, err := cfg.Registry.Stats(r.Context())
		if err != nil {
			http.Error(w, "stats unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int{
			"players":     players,
			"rooms":       rooms,
			"connections": cfg.Hub.ClientCount(),
		})
	}
}
