package handlers

import (
	"time"

	"loanflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        *gorm.DB
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, startedAt: time.Now()}
}

// Check reports service and database health
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	status := fiber.Map{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(h.startedAt).String(),
	}

	if dbStatus != "up" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response.Response{
			Success: false,
			Error:   "database unreachable",
			Data:    status,
		})
	}
	return response.Success(c, "Service healthy", status)
}
