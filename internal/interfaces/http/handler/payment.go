package handler

import (
	ledgerapp "github.com/chamanguitech/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// PaymentHandler serves the payment endpoints of one capped ledger. The
// router mounts one instance per ledger.
type PaymentHandler struct {
	BaseHandler
	service LedgerService
}

// NewPaymentHandler creates a PaymentHandler for the ledger behind service
func NewPaymentHandler(service LedgerService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create records a payment against the parent named in the body
func (h *PaymentHandler) Create(c *gin.Context) {
	var req ledgerapp.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	in, err := req.Input(h.service.Kind())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	payment, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ledgerapp.ToPaymentResponse(payment))
}

// Update changes the supplied fields of a payment
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req ledgerapp.UpdatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payment, err := h.service.Update(c.Request.Context(), id, req.Input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledgerapp.ToPaymentResponse(payment))
}

// Delete removes a payment permanently
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id})
}

// Summary returns the ledger of the :id parent
func (h *PaymentHandler) Summary(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledgerapp.ToSummaryResponse(summary))
}
