package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
)

type HealthHandler struct {
	ping     func() error
	realtime string
}

// NewHealthHandler reports database reachability through ping. realtime names
// the notification backplane in use ("local" or "redis").
func NewHealthHandler(ping func() error, realtime string) *HealthHandler {
	return &HealthHandler{ping: ping, realtime: realtime}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "ok"
	dbStatus := "ok"
	if err := h.ping(); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Realtime:  h.realtime,
	})
}
