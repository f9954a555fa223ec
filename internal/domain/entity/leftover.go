package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Leftover representa la existencia de un producto en una sección al último sync.
// Antes de aplicar un sync la fila se pone en cero y luego se repuebla: lo que el
// POS ya no reporta queda en 0 en vez de conservar un valor positivo viejo.
// La fila nunca se borra, para conservar historial.
type Leftover struct {
	SectionID string
	ProductID string
	Quantity  decimal.Decimal
	SyncedAt  time.Time
}
