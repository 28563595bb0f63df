package handler

import (
	ledgerapp "github.com/chamanguitech/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// PaymentMethodHandler handles payment method endpoints
type PaymentMethodHandler struct {
	BaseHandler
	service PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler
func NewPaymentMethodHandler(service PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{service: service}
}

// Create registers a payment method
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req ledgerapp.CreatePaymentMethodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	method, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, method)
}

// List returns every payment method sorted by name
func (h *PaymentMethodHandler) List(c *gin.Context) {
	methods, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, methods)
}
