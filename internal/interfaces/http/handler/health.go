package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/chamanguitech/backend/internal/infrastructure/logger"
	"github.com/chamanguitech/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(name, version string, db Pinger) *HealthHandler {
	return &HealthHandler{
		name:      name,
		version:   version,
		db:        db,
		startTime: time.Now(),
	}
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// ReadyResponse is the readiness payload
type ReadyResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health answers as long as the process serves requests
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready answers 503 until the database responds
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := pingWithTimeout(c.Request.Context(), h.db, 2*time.Second); err != nil {
		logger.L(c.Request.Context()).Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    ReadyResponse{Status: "unavailable", Database: "down"},
			Error: &dto.ErrorInfo{
				Code:    "UNAVAILABLE",
				Message: "database is not reachable",
			},
		})
		return
	}
	h.Success(c, ReadyResponse{Status: "ready", Database: "up"})
}

func pingWithTimeout(ctx context.Context, p Pinger, timeout time.Duration) error {
	if p == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Ping() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
