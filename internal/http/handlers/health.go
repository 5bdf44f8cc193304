package handlers

import (
	"net/http"
)

// Health reports liveness and the phase of the current fitting.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	phase := a.Session.Snapshot().Lifecycle.Phase()
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "phase": string(phase)})
}
