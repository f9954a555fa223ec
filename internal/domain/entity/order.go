package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido. El avance es estrictamente
// pending → sent → delivered; delivered es terminal. El borrado es una
// operación administrativa fuera del ciclo, no un estado.
const (
	OrderStatusPending   = "pending"
	OrderStatusSent      = "sent"
	OrderStatusDelivered = "delivered"
)

// OrderItem es una línea del pedido. ActualQuantity se fija solo al entregar
// y nunca existe antes que la cantidad solicitada.
type OrderItem struct {
	Name           string           `json:"name"`
	Quantity       decimal.Decimal  `json:"quantity"`
	Unit           string           `json:"unit"`
	ActualQuantity *decimal.Decimal `json:"actual_quantity,omitempty"`
}

// Valid verifica nombre, unidad y cantidad positiva.
func (i OrderItem) Valid() bool {
	return i.Name != "" && i.Unit != "" && i.Quantity.GreaterThan(decimal.Zero)
}

// Order representa un pedido de compras de un departamento.
// Items es una lista ordenada embebida (JSONB), no una relación aparte.
// TotalItems y TotalQuantity son derivados: se recalculan en cada mutación
// para que nunca diverjan de la lista.
type Order struct {
	ID            string
	TenantID      string
	SectionID     string
	Status        string
	Items         []OrderItem
	TotalItems    int
	TotalQuantity decimal.Decimal
	Modified      bool
	Note          string
	CreatedByRole string
	CreatedAt     time.Time
	SentAt        *time.Time
	DeliveredAt   *time.Time
	UpdatedAt     time.Time
}

// RecomputeTotals recalcula TotalItems y TotalQuantity desde Items.
func (o *Order) RecomputeTotals() {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Quantity)
	}
	o.TotalItems = len(o.Items)
	o.TotalQuantity = total
}

// CanTransition valida el avance del estado (monotonía del ciclo de vida).
func (o *Order) CanTransition(to string) bool {
	switch o.Status {
	case OrderStatusPending:
		return to == OrderStatusSent || to == OrderStatusDelivered
	case OrderStatusSent:
		return to == OrderStatusDelivered
	default:
		return false
	}
}

// AppendItems agrega líneas al pedido y recalcula totales.
// Permitido solo en pending o sent.
func (o *Order) AppendItems(items []OrderItem, note string) bool {
	if o.Status != OrderStatusPending && o.Status != OrderStatusSent {
		return false
	}
	o.Items = append(o.Items, items...)
	o.Modified = true
	if note != "" {
		o.Note = note
	}
	o.RecomputeTotals()
	return true
}

// MarkSent marca el pedido como enviado.
func (o *Order) MarkSent(now time.Time) bool {
	if !o.CanTransition(OrderStatusSent) {
		return false
	}
	o.Status = OrderStatusSent
	o.SentAt = &now
	o.UpdatedAt = now
	return true
}

// MarkDelivered marca el pedido como entregado aplicando cantidades reales por
// índice de línea. Un índice fuera de rango o una cantidad negativa invalida la
// operación completa sin tocar el pedido.
func (o *Order) MarkDelivered(now time.Time, actuals map[int]decimal.Decimal) bool {
	if !o.CanTransition(OrderStatusDelivered) {
		return false
	}
	for idx, qty := range actuals {
		if idx < 0 || idx >= len(o.Items) || qty.LessThan(decimal.Zero) {
			return false
		}
	}
	for idx, qty := range actuals {
		q := qty
		o.Items[idx].ActualQuantity = &q
	}
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	return true
}
