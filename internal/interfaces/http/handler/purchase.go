package handler

import (
	ledgerapp "github.com/chamanguitech/backend/internal/application/ledger"
	purchaseapp "github.com/chamanguitech/backend/internal/application/purchase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseHandler handles purchase endpoints, including the purchase
// payment summary and the logistics sheets of a purchase
type PurchaseHandler struct {
	BaseHandler
	purchases PurchaseService
	payments  LedgerService
	logistics LogisticsService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchases PurchaseService, payments LedgerService, logistics LogisticsService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases, payments: payments, logistics: logistics}
}

// Create creates a purchase. The buyer defaults to the caller.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req purchaseapp.CreatePurchaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.BuyerID == uuid.Nil {
		req.BuyerID = getUserID(c)
	}

	purchase, err := h.purchases.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// Get returns one purchase with its paid total
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	purchase, err := h.purchases.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// List returns a filtered page of purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var query purchaseapp.ListPurchasesQuery
	if !h.bindQuery(c, &query) {
		return
	}
	page, err := h.purchases.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Update replaces the commercial terms of a purchase
func (h *PurchaseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req purchaseapp.UpdatePurchaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	purchase, err := h.purchases.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// UpdateStatus sets or releases a manual purchase status
func (h *PurchaseHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req purchaseapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	purchase, err := h.purchases.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// Delete removes a purchase and everything hanging off it
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	result, err := h.purchases.Remove(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Payments returns the purchase ledger
func (h *PurchaseHandler) Payments(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	summary, err := h.payments.Summary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ledgerapp.ToSummaryResponse(summary))
}

// Logistics returns the live logistics sheets of the purchase
func (h *PurchaseHandler) Logistics(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	sheets, err := h.logistics.ListByPurchase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sheets)
}
