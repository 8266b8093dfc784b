package trade

import (
	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeSellOrder     = "SellOrder"
)

// Event type constants
const (
	EventTypePurchaseOrderReceived        = "PurchaseOrderReceived"
	EventTypePurchaseOrderReceiptReverted = "PurchaseOrderReceiptReverted"
	EventTypeSellOrderShipped             = "SellOrderShipped"
)

// PurchaseOrderReceivedEvent is raised on the transition into Received.
// It triggers the cost valuation fold.
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		WarehouseID:     order.WarehouseID,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceivedEvent) EventType() string {
	return EventTypePurchaseOrderReceived
}

// PurchaseOrderReceiptRevertedEvent is raised when an order leaves the
// Received status, so the valuation fold can be undone.
type PurchaseOrderReceiptRevertedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewPurchaseOrderReceiptRevertedEvent creates a new PurchaseOrderReceiptRevertedEvent
func NewPurchaseOrderReceiptRevertedEvent(order *PurchaseOrder) *PurchaseOrderReceiptRevertedEvent {
	return &PurchaseOrderReceiptRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceiptReverted, AggregateTypePurchaseOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
	}
}

// EventType returns the event type name
func (e *PurchaseOrderReceiptRevertedEvent) EventType() string {
	return EventTypePurchaseOrderReceiptReverted
}

// SellOrderShippedEvent is raised on the transition into Shipped
type SellOrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewSellOrderShippedEvent creates a new SellOrderShippedEvent
func NewSellOrderShippedEvent(order *SellOrder) *SellOrderShippedEvent {
	return &SellOrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSellOrderShipped, AggregateTypeSellOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		WarehouseID:     order.WarehouseID,
		CustomerID:      order.CustomerID,
	}
}

// EventType returns the event type name
func (e *SellOrderShippedEvent) EventType() string {
	return EventTypeSellOrderShipped
}
