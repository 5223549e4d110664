package http

import "net/http"

// HealthReporter сообщает, доступны ли зависимости сервиса.
type HealthReporter interface {
	Serving() bool
}

type HealthHandler struct {
	health HealthReporter
}

func NewHealthHandler(health HealthReporter) *HealthHandler {
	return &HealthHandler{health: health}
}

// healthz
//
//	@Summary	Состояние сервиса
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Failure	503	{object}	HealthResponse
//	@Router		/healthz [get]
func (h *HealthHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil && !h.health.Serving() {
		WriteSuccess(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
		return
	}
	WriteSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
}
