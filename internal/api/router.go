/*
Package api
File: router.go
Description:
    Route table for the REST API and the websocket endpoint.
*/

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/everforgeworks/galaxies-pirates/internal/encounter"
)

// NewRouter wires every endpoint. hub may be nil to run without push.
func NewRouter(engine *encounter.Engine, auth *Auth, hub *Hub) http.Handler {
	h := &Handler{engine: engine, auth: auth}
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/catalog/captains", h.HandleGetCaptains)
		api.Get("/catalog/ships", h.HandleGetShips)
		api.Post("/players", h.HandleCreatePlayer)

		api.Route("/players/{playerID}", func(pr chi.Router) {
			pr.Use(auth.requirePlayer)
			pr.Get("/", h.HandleGetPlayer)
			pr.Post("/repair", h.HandleRepair)
			pr.Post("/salvage/check", h.HandleCheckSpace)
			pr.Post("/encounters", h.HandleBeginEncounter)
			pr.Get("/encounters/{encounterID}", h.HandleGetEncounter)
			pr.Post("/encounters/{encounterID}/resolve", h.HandleResolve)
			pr.Post("/encounters/{encounterID}/salvage", h.HandleClaimSalvage)
		})
	})

	if hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(hub, auth, w, r)
		})
	}
	return r
}

// corsMiddleware lets browser and desktop clients call the API across domains.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
