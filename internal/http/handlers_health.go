package http

import "net/http"

// handleHealthz: liveness plano, responde siempre que el proceso esté vivo.
func (a *API) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz: readiness, pinguea el storage si hay pinger configurado.
func (a *API) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	if a.ReadyPinger != nil {
		if err := a.ReadyPinger(); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"reason": "storage unreachable",
			})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
