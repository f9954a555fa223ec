package entity

import "time"

// Category representa una categoría de productos. La asignación de proveedor
// por defecto (SupplierID) decide el enrutamiento de pedidos al despachar.
// ExternalID es el category_id del POS; 0 si es una categoría creada a mano.
type Category struct {
	ID         string
	TenantID   string
	ExternalID int64
	Name       string
	SupplierID string // vacío = sin proveedor asignado
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Synced indica si la categoría proviene del POS upstream.
func (c *Category) Synced() bool {
	return c.ExternalID != 0
}
