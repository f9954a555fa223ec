package entity

import "time"

// Product representa un producto sincronizado desde el POS upstream
// (ingrediente del catálogo). Nombre y unidad autoritativos vienen del POS.
// ExternalID (ingredient_id) es único por tenant; el mismo id puede repetirse
// en tenants distintos sin colisión (vocabulario POS compartido, instancias aisladas).
type Product struct {
	ID         string
	TenantID   string
	SectionID  string // sección donde el stock actual lo referencia
	ExternalID int64
	Name       string
	Unit       string
	CategoryID string // vacío = sin categoría
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
