package api

import (
	"net/http"
	"time"
)

// healthHandler reports liveness and uptime.
func healthHandler(startupTime time.Time, responder Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, map[string]interface{}{
			"status": "ok",
			"uptime": time.Since(startupTime).String(),
		})
	}
}
