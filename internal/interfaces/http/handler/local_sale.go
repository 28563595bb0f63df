package handler

import (
	saleapp "github.com/chamanguitech/backend/internal/application/sale"
	"github.com/gin-gonic/gin"
)

// LocalSaleHandler handles local sale endpoints
type LocalSaleHandler struct {
	BaseHandler
	service LocalSaleService
}

// NewLocalSaleHandler creates a new LocalSaleHandler
func NewLocalSaleHandler(service LocalSaleService) *LocalSaleHandler {
	return &LocalSaleHandler{service: service}
}

// Create records the local sale of a purchase
func (h *LocalSaleHandler) Create(c *gin.Context) {
	var req saleapp.CreateLocalSaleRequest
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

// Get returns a local sale with its details and company detail
func (h *LocalSaleHandler) Get(c *gin.Context) {
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

// Update replaces the details of a local sale
func (h *LocalSaleHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req saleapp.UpdateLocalSaleRequest
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

// UpdateStatus marks a local sale as draft or returns it to its derived status
func (h *LocalSaleHandler) UpdateStatus(c *gin.Context) {
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

// Delete soft-deletes a local sale and its details
func (h *LocalSaleHandler) Delete(c *gin.Context) {
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
