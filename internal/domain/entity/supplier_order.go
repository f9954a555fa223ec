package entity

import "time"

// SupplierOrder es el pedido consolidado por proveedor que crea el despacho:
// agrupa las líneas de varios pedidos pending y referencia sus ids de origen.
// SupplierID vacío agrupa las líneas que no pudieron atribuirse a ningún
// proveedor ("sin asignar"); nunca se descartan en silencio.
type SupplierOrder struct {
	ID             string
	TenantID       string
	SupplierID     string
	SupplierName   string
	Items          []OrderItem
	SourceOrderIDs []string
	CreatedAt      time.Time
}
