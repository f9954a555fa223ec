package entity

import "time"

// Supplier representa un proveedor de insumos.
// ExternalID es el supplier_id del POS; 0 si fue creado manualmente.
type Supplier struct {
	ID         string
	TenantID   string
	ExternalID int64
	Name       string
	Phone      string
	Address    string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
