package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CustomProduct representa un producto creado por el staff, desconocido para el
// POS upstream. Seq es su identificador secuencial local; en las vistas se
// presenta con prefijo ("c15") para no colisionar con los ids numéricos del POS.
type CustomProduct struct {
	Seq         int64
	TenantID    string
	SectionID   string
	CategoryID  string // vacío = sin categoría
	Name        string
	Unit        string
	MinQuantity decimal.Decimal
	Quantity    decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayID devuelve el identificador con namespace para listas visibles al cliente.
func (p *CustomProduct) DisplayID() string {
	return "c" + strconv.FormatInt(p.Seq, 10)
}
