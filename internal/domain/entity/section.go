package entity

import "time"

// Section representa un departamento o almacén físico (cocina, barra, bodega).
// ExternalID es el storage_id del POS upstream; 0 si la sección fue creada a mano.
type Section struct {
	ID         string
	TenantID   string
	ExternalID int64
	Name       string
	Emoji      string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Synced indica si la sección está mapeada a un storage del POS.
func (s *Section) Synced() bool {
	return s.ExternalID != 0
}
