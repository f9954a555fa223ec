package entity

import "time"

// Tenant representa un restaurante aislado dentro del despliegue compartido.
// POSToken es la credencial por tenant contra el proveedor POS upstream.
type Tenant struct {
	ID        string
	Name      string
	POSToken  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
