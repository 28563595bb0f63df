package handler

import (
	logisticsapp "github.com/chamanguitech/backend/internal/application/logistics"
	"github.com/gin-gonic/gin"
)

// LogisticsHandler handles logistics sheet endpoints
type LogisticsHandler struct {
	BaseHandler
	service LogisticsService
}

// NewLogisticsHandler creates a new LogisticsHandler
func NewLogisticsHandler(service LogisticsService) *LogisticsHandler {
	return &LogisticsHandler{service: service}
}

// Create records a logistics sheet for a purchase
func (h *LogisticsHandler) Create(c *gin.Context) {
	var req logisticsapp.CreateLogisticsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sheet, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sheet)
}

// Get returns a logistics sheet with its items and payments
func (h *LogisticsHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	sheet, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sheet)
}

// Update replaces the items and payments of a sheet
func (h *LogisticsHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req logisticsapp.UpdateLogisticsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sheet, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sheet)
}

// UpdateStatus closes a sheet or returns it to its derived status
func (h *LogisticsHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req logisticsapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sheet, err := h.service.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sheet)
}

// Delete soft-deletes a sheet with its items and payments
func (h *LogisticsHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.service.Remove(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
