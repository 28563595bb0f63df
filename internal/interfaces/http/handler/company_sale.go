package handler

import (
	saleapp "github.com/chamanguitech/backend/internal/application/sale"
	"github.com/gin-gonic/gin"
)

// CompanySaleHandler handles company sale endpoints
type CompanySaleHandler struct {
	BaseHandler
	service CompanySaleService
}

// NewCompanySaleHandler creates a new CompanySaleHandler
func NewCompanySaleHandler(service CompanySaleService) *CompanySaleHandler {
	return &CompanySaleHandler{service: service}
}

// Create records the company sale of a purchase
func (h *CompanySaleHandler) Create(c *gin.Context) {
	var req saleapp.CreateCompanySaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sale, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// Get returns a company sale with its details
func (h *CompanySaleHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	sale, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Update replaces the header and details of a company sale
func (h *CompanySaleHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req saleapp.UpdateCompanySaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sale, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// UpdateStatus closes a company sale or returns it to its derived status
func (h *CompanySaleHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req saleapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sale, err := h.service.ChangeStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete soft-deletes a company sale and its details
func (h *CompanySaleHandler) Delete(c *gin.Context) {
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
