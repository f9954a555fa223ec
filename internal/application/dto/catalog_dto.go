package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// ── Secciones ─────────────────────────────────────────────────────────────────

// CreateSectionRequest alta manual de una sección (sin storage upstream).
type CreateSectionRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// UpdateSectionRequest edición de nombre/emoji.
type UpdateSectionRequest struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// SectionResponse representación de una sección.
type SectionResponse struct {
	ID         string `json:"id"`
	ExternalID int64  `json:"external_id,omitempty"`
	Name       string `json:"name"`
	Emoji      string `json:"emoji"`
	Active     bool   `json:"active"`
	Synced     bool   `json:"synced"`
}

// NewSectionResponse convierte la entidad a su representación HTTP.
func NewSectionResponse(s *entity.Section) SectionResponse {
	return SectionResponse{
		ID:         s.ID,
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Emoji:      s.Emoji,
		Active:     s.Active,
		Synced:     s.Synced(),
	}
}

// ── Categorías ────────────────────────────────────────────────────────────────

// CreateCategoryRequest alta manual de categoría; SupplierID opcional.
type CreateCategoryRequest struct {
	Name       string `json:"name"`
	SupplierID string `json:"supplier_id"`
}

// UpdateCategoryRequest edición de nombre y proveedor asignado.
type UpdateCategoryRequest struct {
	Name       string `json:"name"`
	SupplierID string `json:"supplier_id"`
}

// CategoryResponse representación de una categoría.
type CategoryResponse struct {
	ID         string `json:"id"`
	ExternalID int64  `json:"external_id,omitempty"`
	Name       string `json:"name"`
	SupplierID string `json:"supplier_id,omitempty"`
	Active     bool   `json:"active"`
}

// NewCategoryResponse convierte la entidad a su representación HTTP.
func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:         c.ID,
		ExternalID: c.ExternalID,
		Name:       c.Name,
		SupplierID: c.SupplierID,
		Active:     c.Active,
	}
}

// ── Proveedores ───────────────────────────────────────────────────────────────

// CreateSupplierRequest alta manual de proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateSupplierRequest edición de datos de contacto.
type UpdateSupplierRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// SupplierResponse representación de un proveedor.
type SupplierResponse struct {
	ID         string `json:"id"`
	ExternalID int64  `json:"external_id,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Active     bool   `json:"active"`
}

// NewSupplierResponse convierte la entidad a su representación HTTP.
func NewSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:         s.ID,
		ExternalID: s.ExternalID,
		Name:       s.Name,
		Phone:      s.Phone,
		Address:    s.Address,
		Active:     s.Active,
	}
}

// ── Productos custom ──────────────────────────────────────────────────────────

// CreateCustomProductRequest alta de un producto propio del tenant.
type CreateCustomProductRequest struct {
	SectionID   string          `json:"section_id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// UpdateCustomProductRequest edición de un producto custom.
type UpdateCustomProductRequest struct {
	SectionID   string          `json:"section_id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// CustomProductResponse representación de un producto custom. El ID lleva el
// prefijo de namespace ("c15") para no colisionar con ids numéricos del POS.
type CustomProductResponse struct {
	ID          string          `json:"id"`
	SectionID   string          `json:"section_id"`
	CategoryID  string          `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Quantity    decimal.Decimal `json:"quantity"`
	Active      bool            `json:"active"`
}

// NewCustomProductResponse convierte la entidad a su representación HTTP.
func NewCustomProductResponse(p *entity.CustomProduct) CustomProductResponse {
	return CustomProductResponse{
		ID:          p.DisplayID(),
		SectionID:   p.SectionID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Unit:        p.Unit,
		MinQuantity: p.MinQuantity,
		Quantity:    p.Quantity,
		Active:      p.Active,
	}
}
