package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// OrderItemRequest es una línea solicitada al crear o ampliar un pedido.
type OrderItemRequest struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// CreateOrderRequest alta de un pedido de compras de una sección.
type CreateOrderRequest struct {
	SectionID string             `json:"section_id"`
	Items     []OrderItemRequest `json:"items"`
	Note      string             `json:"note"`
}

// AddOrderItemsRequest amplía un pedido existente (pending o sent).
type AddOrderItemsRequest struct {
	Items []OrderItemRequest `json:"items"`
	Note  string             `json:"note"`
}

// ActualQuantity fija la cantidad realmente recibida de una línea, por índice.
type ActualQuantity struct {
	Index          int             `json:"index"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
}

// DeliverOrderRequest marca la entrega con cantidades reales opcionales.
type DeliverOrderRequest struct {
	Actuals []ActualQuantity `json:"actuals"`
}

// SupplyItemPrice asigna precio a una línea del pedido entregado, por índice.
type SupplyItemPrice struct {
	Index int             `json:"index"`
	Price decimal.Decimal `json:"price"`
}

// SubmitSupplyRequest registra la mercancía recibida en el POS upstream.
type SubmitSupplyRequest struct {
	SupplierID string            `json:"supplier_id"`
	Prices     []SupplyItemPrice `json:"prices"`
}

// OrderResponse representación de un pedido.
type OrderResponse struct {
	ID            string             `json:"id"`
	SectionID     string             `json:"section_id"`
	Status        string             `json:"status"`
	Items         []entity.OrderItem `json:"items"`
	TotalItems    int                `json:"total_items"`
	TotalQuantity decimal.Decimal    `json:"total_quantity"`
	Modified      bool               `json:"modified"`
	Note          string             `json:"note,omitempty"`
	CreatedByRole string             `json:"created_by_role,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	SentAt        *time.Time         `json:"sent_at,omitempty"`
	DeliveredAt   *time.Time         `json:"delivered_at,omitempty"`
}

// NewOrderResponse convierte la entidad a su representación HTTP.
func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		SectionID:     o.SectionID,
		Status:        o.Status,
		Items:         o.Items,
		TotalItems:    o.TotalItems,
		TotalQuantity: o.TotalQuantity,
		Modified:      o.Modified,
		Note:          o.Note,
		CreatedByRole: o.CreatedByRole,
		CreatedAt:     o.CreatedAt,
		SentAt:        o.SentAt,
		DeliveredAt:   o.DeliveredAt,
	}
}

// SupplierOrderResponse representación de un pedido consolidado por proveedor.
type SupplierOrderResponse struct {
	ID             string             `json:"id"`
	SupplierID     string             `json:"supplier_id,omitempty"`
	SupplierName   string             `json:"supplier_name"`
	Items          []entity.OrderItem `json:"items"`
	SourceOrderIDs []string           `json:"source_order_ids"`
	CreatedAt      time.Time          `json:"created_at"`
}

// NewSupplierOrderResponse convierte la entidad a su representación HTTP.
func NewSupplierOrderResponse(o *entity.SupplierOrder) SupplierOrderResponse {
	return SupplierOrderResponse{
		ID:             o.ID,
		SupplierID:     o.SupplierID,
		SupplierName:   o.SupplierName,
		Items:          o.Items,
		SourceOrderIDs: o.SourceOrderIDs,
		CreatedAt:      o.CreatedAt,
	}
}

// DispatchResponse resume un despacho.
type DispatchResponse struct {
	DispatchedOrders int                     `json:"dispatched_orders"`
	SupplierOrders   []SupplierOrderResponse `json:"supplier_orders"`
}

// SupplyResponse confirma el registro de mercancía en el POS.
type SupplyResponse struct {
	SupplyID int64 `json:"supply_id"`
}
