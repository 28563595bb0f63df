package logistics

import (
	"time"

	"github.com/chamanguitech/backend/internal/domain/ledger"
	"github.com/chamanguitech/backend/internal/domain/logistics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LogisticsItemRequest is one cost line
type LogisticsItemRequest struct {
	Category    string          `json:"category" binding:"required,max=50"`
	Description string          `json:"description" binding:"max=255"`
	Unit        string          `json:"unit" binding:"max=20"`
	Quantity    decimal.Decimal `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
}

// LogisticsPaymentRequest is one payment row of a cost sheet
type LogisticsPaymentRequest struct {
	Title           string          `json:"title" binding:"max=100"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     *time.Time      `json:"payment_date"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id"`
	PaymentStatus   string          `json:"payment_status" binding:"required,payment_status"`
}

// LogisticsContentRequest is the replaceable body shared by create and update
type LogisticsContentRequest struct {
	Type          string                    `json:"type" binding:"required,oneof=SHIPMENT LOCAL_PROCESSING"`
	LogisticsDate time.Time                 `json:"logistics_date"`
	Items         []LogisticsItemRequest    `json:"items" binding:"required,min=1,dive"`
	Payments      []LogisticsPaymentRequest `json:"payments" binding:"dive"`
}

// Content converts the request to the domain payload
func (r LogisticsContentRequest) Content() logistics.Content {
	c := logistics.Content{
		Type:          logistics.Type(r.Type),
		LogisticsDate: r.LogisticsDate,
		Items:         make([]logistics.ItemInput, len(r.Items)),
		Payments:      make([]logistics.PaymentInput, len(r.Payments)),
	}
	for i, it := range r.Items {
		c.Items[i] = logistics.ItemInput{
			Category:    it.Category,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			Cost:        it.Cost,
		}
	}
	for i, p := range r.Payments {
		c.Payments[i] = logistics.PaymentInput{
			Title:           p.Title,
			Amount:          p.Amount,
			PaymentDate:     p.PaymentDate,
			PaymentMethodID: p.PaymentMethodID,
			PaymentStatus:   ledger.PaymentStatus(p.PaymentStatus),
		}
	}
	return c
}

func (r LogisticsContentRequest) methodIDs() []*uuid.UUID {
	out := make([]*uuid.UUID, 0, len(r.Payments))
	for _, p := range r.Payments {
		out = append(out, p.PaymentMethodID)
	}
	return out
}

// CreateLogisticsRequest represents a request to attach a cost sheet to a purchase
type CreateLogisticsRequest struct {
	PurchaseID uuid.UUID `json:"purchase_id" binding:"required"`
	LogisticsContentRequest
}

// UpdateLogisticsRequest replaces the type, date, items and payments of a sheet
type UpdateLogisticsRequest struct {
	LogisticsContentRequest
}

// UpdateStatusRequest is a status-only update
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CREATED IN_PROGRESS COMPLETED CLOSED"`
}

// LogisticsItemResponse represents a cost line in API responses
type LogisticsItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Position    int             `json:"position"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	Total       decimal.Decimal `json:"total"`
}

// LogisticsPaymentResponse represents a payment row in API responses
type LogisticsPaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	Position        int             `json:"position"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     *time.Time      `json:"payment_date"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id"`
	PaymentStatus   string          `json:"payment_status"`
}

// LogisticsResponse represents a cost sheet in API responses
type LogisticsResponse struct {
	ID            uuid.UUID                  `json:"id"`
	PurchaseID    uuid.UUID                  `json:"purchase_id"`
	Type          string                     `json:"type"`
	LogisticsDate time.Time                  `json:"logistics_date"`
	GrandTotal    decimal.Decimal            `json:"grand_total"`
	Status        string                     `json:"status"`
	Items         []LogisticsItemResponse    `json:"items"`
	Payments      []LogisticsPaymentResponse `json:"payments"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ToLogisticsResponse converts a loaded cost sheet to a response
func ToLogisticsResponse(l *logistics.Logistics) LogisticsResponse {
	resp := LogisticsResponse{
		ID:            l.ID,
		PurchaseID:    l.PurchaseID,
		Type:          string(l.Type),
		LogisticsDate: l.LogisticsDate,
		GrandTotal:    l.GrandTotal,
		Status:        string(l.Status),
		Items:         make([]LogisticsItemResponse, len(l.Items)),
		Payments:      make([]LogisticsPaymentResponse, len(l.Payments)),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	for i, it := range l.Items {
		resp.Items[i] = LogisticsItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			Category:    it.Category,
			Description: it.Description,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			Cost:        it.Cost,
			Total:       it.Total,
		}
	}
	for i, p := range l.Payments {
		resp.Payments[i] = LogisticsPaymentResponse{
			ID:              p.ID,
			Position:        p.Position,
			Title:           p.Title,
			Amount:          p.Amount,
			PaymentDate:     p.PaymentDate,
			PaymentMethodID: p.PaymentMethodID,
			PaymentStatus:   string(p.PaymentStatus),
		}
	}
	return resp
}

// ToLogisticsResponses converts a list of cost sheets
func ToLogisticsResponses(sheets []logistics.Logistics) []LogisticsResponse {
	out := make([]LogisticsResponse, len(sheets))
	for i := range sheets {
		out[i] = ToLogisticsResponse(&sheets[i])
	}
	return out
}
