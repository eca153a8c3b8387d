package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/divcast/internal/common"
)

// StatusHandler handles HTTP requests for application health
type StatusHandler struct {
	startedAt    time.Time
	cacheEnabled func() bool
	logger       arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(cacheEnabled func() bool, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		startedAt:    time.Now(),
		cacheEnabled: cacheEnabled,
		logger:       logger,
	}
}

// HealthHandler handles GET /api/health
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cacheEnabled := false
	if h.cacheEnabled != nil {
		cacheEnabled = h.cacheEnabled()
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"version":       common.GetVersion(),
		"uptime":        time.Since(h.startedAt).Round(time.Second).String(),
		"cache_enabled": cacheEnabled,
	})
}
