// Package handler provides the operational HTTP endpoints.
package handler

import (
	"net/http"
)

// ConnChecker reports whether a long-lived connection is currently up.
type ConnChecker interface {
	IsConnected() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	transport   ConnChecker
	natsClient  ConnChecker
	hasAPIToken bool
}

// NewHealthHandler creates a new health handler. natsClient may be nil when
// the audit stream is not configured.
func NewHealthHandler(transport ConnChecker, natsClient ConnChecker, hasAPIToken bool) *HealthHandler {
	return &HealthHandler{
		transport:   transport,
		natsClient:  natsClient,
		hasAPIToken: hasAPIToken,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mattermost-clickup-bot",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.hasAPIToken {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "ClickUp API token not configured",
		})
		return
	}

	if h.transport == nil || !h.transport.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "Mattermost not connected",
		})
		return
	}

	if h.natsClient != nil && !h.natsClient.IsConnected() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "NATS not connected",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
