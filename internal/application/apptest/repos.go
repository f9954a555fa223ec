package apptest

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// ── Secciones ─────────────────────────────────────────────────────────────────

type sectionRepo struct{ s *Store }

func (r *sectionRepo) Create(_ context.Context, section *entity.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Sections = append(r.s.Sections, *section)
	return nil
}

func (r *sectionRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Sections {
		if r.s.Sections[i].TenantID == tenantID && r.s.Sections[i].ID == id {
			out := r.s.Sections[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *sectionRepo) GetByExternalID(_ context.Context, tenantID string, externalID int64) (*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Sections {
		if r.s.Sections[i].TenantID == tenantID && r.s.Sections[i].ExternalID == externalID && externalID != 0 {
			out := r.s.Sections[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *sectionRepo) GetByName(_ context.Context, tenantID, name string) (*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Sections {
		if r.s.Sections[i].TenantID == tenantID && strings.EqualFold(r.s.Sections[i].Name, name) {
			out := r.s.Sections[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *sectionRepo) ListByTenant(_ context.Context, tenantID string, includeInactive bool) ([]*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Section
	for i := range r.s.Sections {
		if r.s.Sections[i].TenantID != tenantID {
			continue
		}
		if !includeInactive && !r.s.Sections[i].Active {
			continue
		}
		s := r.s.Sections[i]
		out = append(out, &s)
	}
	return out, nil
}

func (r *sectionRepo) Update(_ context.Context, section *entity.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Sections {
		if r.s.Sections[i].TenantID == section.TenantID && r.s.Sections[i].ID == section.ID {
			r.s.Sections[i] = *section
			return nil
		}
	}
	return nil
}

func (r *sectionRepo) Deactivate(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Sections {
		if r.s.Sections[i].TenantID == tenantID && r.s.Sections[i].ID == id {
			r.s.Sections[i].Active = false
		}
	}
	return nil
}

func (r *sectionRepo) UpsertSynced(_ context.Context, section *entity.Section) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Sections {
		if r.s.Sections[i].TenantID == section.TenantID && r.s.Sections[i].ExternalID == section.ExternalID {
			r.s.Sections[i].Name = section.Name
			r.s.Sections[i].Emoji = section.Emoji
			r.s.Sections[i].Active = section.Active
			section.ID = r.s.Sections[i].ID
			return false, nil
		}
	}
	r.s.Sections = append(r.s.Sections, *section)
	return true, nil
}

// ── Categorías ────────────────────────────────────────────────────────────────

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Categories = append(r.s.Categories, *category)
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Categories {
		if r.s.Categories[i].TenantID == tenantID && r.s.Categories[i].ID == id {
			out := r.s.Categories[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) ListByTenant(_ context.Context, tenantID string, includeInactive bool) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for i := range r.s.Categories {
		if r.s.Categories[i].TenantID != tenantID {
			continue
		}
		if !includeInactive && !r.s.Categories[i].Active {
			continue
		}
		c := r.s.Categories[i]
		out = append(out, &c)
	}
	return out, nil
}

func (r *categoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Categories {
		if r.s.Categories[i].TenantID == category.TenantID && r.s.Categories[i].ID == category.ID {
			r.s.Categories[i] = *category
		}
	}
	return nil
}

func (r *categoryRepo) Deactivate(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Categories {
		if r.s.Categories[i].TenantID == tenantID && r.s.Categories[i].ID == id {
			r.s.Categories[i].Active = false
		}
	}
	return nil
}

// UpsertSynced no pisa SupplierID: la asignación de proveedor es local y debe
// sobrevivir a los re-sync.
func (r *categoryRepo) UpsertSynced(_ context.Context, category *entity.Category) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Categories {
		if r.s.Categories[i].TenantID == category.TenantID && r.s.Categories[i].ExternalID == category.ExternalID {
			r.s.Categories[i].Name = category.Name
			r.s.Categories[i].Active = category.Active
			category.ID = r.s.Categories[i].ID
			category.SupplierID = r.s.Categories[i].SupplierID
			return false, nil
		}
	}
	r.s.Categories = append(r.s.Categories, *category)
	return true, nil
}

// ── Proveedores ───────────────────────────────────────────────────────────────

type supplierRepo struct{ s *Store }

func (r *supplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.Suppliers = append(r.s.Suppliers, *supplier)
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Suppliers {
		if r.s.Suppliers[i].TenantID == tenantID && r.s.Suppliers[i].ID == id {
			out := r.s.Suppliers[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *supplierRepo) ListByTenant(_ context.Context, tenantID string, includeInactive bool) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supplier
	for i := range r.s.Suppliers {
		if r.s.Suppliers[i].TenantID != tenantID {
			continue
		}
		if !includeInactive && !r.s.Suppliers[i].Active {
			continue
		}
		s := r.s.Suppliers[i]
		out = append(out, &s)
	}
	return out, nil
}

func (r *supplierRepo) Update(_ context.Context, supplier *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Suppliers {
		if r.s.Suppliers[i].TenantID == supplier.TenantID && r.s.Suppliers[i].ID == supplier.ID {
			r.s.Suppliers[i] = *supplier
		}
	}
	return nil
}

func (r *supplierRepo) Deactivate(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Suppliers {
		if r.s.Suppliers[i].TenantID == tenantID && r.s.Suppliers[i].ID == id {
			r.s.Suppliers[i].Active = false
		}
	}
	return nil
}

func (r *supplierRepo) UpsertSynced(_ context.Context, supplier *entity.Supplier) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Suppliers {
		if r.s.Suppliers[i].TenantID == supplier.TenantID && r.s.Suppliers[i].ExternalID == supplier.ExternalID {
			r.s.Suppliers[i].Name = supplier.Name
			r.s.Suppliers[i].Phone = supplier.Phone
			r.s.Suppliers[i].Address = supplier.Address
			r.s.Suppliers[i].Active = supplier.Active
			supplier.ID = r.s.Suppliers[i].ID
			return false, nil
		}
	}
	r.s.Suppliers = append(r.s.Suppliers, *supplier)
	return true, nil
}

// ── Productos sincronizados ───────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Products {
		if r.s.Products[i].TenantID == tenantID && r.s.Products[i].ID == id {
			out := r.s.Products[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *productRepo) GetByExternalID(_ context.Context, tenantID string, externalID int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Products {
		if r.s.Products[i].TenantID == tenantID && r.s.Products[i].ExternalID == externalID {
			out := r.s.Products[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *productRepo) ListBySection(_ context.Context, tenantID, sectionID string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for i := range r.s.Products {
		if r.s.Products[i].TenantID == tenantID && r.s.Products[i].SectionID == sectionID && r.s.Products[i].Active {
			p := r.s.Products[i]
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *productRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for i := range r.s.Products {
		if r.s.Products[i].TenantID == tenantID && r.s.Products[i].Active {
			p := r.s.Products[i]
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *productRepo) Deactivate(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Products {
		if r.s.Products[i].TenantID == tenantID && r.s.Products[i].ID == id {
			r.s.Products[i].Active = false
		}
	}
	return nil
}

func (r *productRepo) UpsertSynced(_ context.Context, product *entity.Product) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Products {
		if r.s.Products[i].TenantID == product.TenantID && r.s.Products[i].ExternalID == product.ExternalID {
			r.s.Products[i].SectionID = product.SectionID
			r.s.Products[i].Name = product.Name
			r.s.Products[i].Unit = product.Unit
			r.s.Products[i].CategoryID = product.CategoryID
			r.s.Products[i].Active = product.Active
			product.ID = r.s.Products[i].ID
			return false, nil
		}
	}
	r.s.Products = append(r.s.Products, *product)
	return true, nil
}

// ── Productos custom ──────────────────────────────────────────────────────────

type customProductRepo struct{ s *Store }

func (r *customProductRepo) Create(_ context.Context, product *entity.CustomProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextSeq++
	product.Seq = r.s.nextSeq
	r.s.Customs = append(r.s.Customs, *product)
	return nil
}

func (r *customProductRepo) GetBySeq(_ context.Context, tenantID string, seq int64) (*entity.CustomProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Customs {
		if r.s.Customs[i].TenantID == tenantID && r.s.Customs[i].Seq == seq {
			out := r.s.Customs[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (r *customProductRepo) ListBySection(_ context.Context, tenantID, sectionID string) ([]*entity.CustomProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CustomProduct
	for i := range r.s.Customs {
		if r.s.Customs[i].TenantID == tenantID && r.s.Customs[i].SectionID == sectionID && r.s.Customs[i].Active {
			c := r.s.Customs[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *customProductRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.CustomProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CustomProduct
	for i := range r.s.Customs {
		if r.s.Customs[i].TenantID == tenantID && r.s.Customs[i].Active {
			c := r.s.Customs[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *customProductRepo) Update(_ context.Context, product *entity.CustomProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Customs {
		if r.s.Customs[i].TenantID == product.TenantID && r.s.Customs[i].Seq == product.Seq {
			r.s.Customs[i] = *product
		}
	}
	return nil
}

func (r *customProductRepo) Deactivate(_ context.Context, tenantID string, seq int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Customs {
		if r.s.Customs[i].TenantID == tenantID && r.s.Customs[i].Seq == seq {
			r.s.Customs[i].Active = false
		}
	}
	return nil
}

// ── Existencias ───────────────────────────────────────────────────────────────

type leftoverRepo struct{ s *Store }

func (r *leftoverRepo) ZeroSection(_ context.Context, tenantID, sectionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Leftovers {
		if r.s.Leftovers[i].TenantID == tenantID && r.s.Leftovers[i].Row.SectionID == sectionID {
			r.s.Leftovers[i].Row.Quantity = decimal.Zero
		}
	}
	return nil
}

func (r *leftoverRepo) Upsert(_ context.Context, tenantID string, leftover *entity.Leftover) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Leftovers {
		if r.s.Leftovers[i].TenantID == tenantID &&
			r.s.Leftovers[i].Row.SectionID == leftover.SectionID &&
			r.s.Leftovers[i].Row.ProductID == leftover.ProductID {
			r.s.Leftovers[i].Row = *leftover
			return nil
		}
	}
	r.s.Leftovers = append(r.s.Leftovers, LeftoverRow{TenantID: tenantID, Row: *leftover})
	return nil
}

func (r *leftoverRepo) ListBySection(_ context.Context, tenantID, sectionID string) ([]*entity.Leftover, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Leftover
	for i := range r.s.Leftovers {
		if r.s.Leftovers[i].TenantID == tenantID && r.s.Leftovers[i].Row.SectionID == sectionID {
			row := r.s.Leftovers[i].Row
			out = append(out, &row)
		}
	}
	return out, nil
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *order
	stored.Items = copyItems(order.Items)
	r.s.Orders = append(r.s.Orders, stored)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Orders {
		if r.s.Orders[i].TenantID == tenantID && r.s.Orders[i].ID == id {
			out := r.s.Orders[i]
			out.Items = copyItems(r.s.Orders[i].Items)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *orderRepo) Update(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Orders {
		if r.s.Orders[i].TenantID == order.TenantID && r.s.Orders[i].ID == order.ID {
			stored := *order
			stored.Items = copyItems(order.Items)
			r.s.Orders[i] = stored
		}
	}
	return nil
}

func (r *orderRepo) ListByTenant(_ context.Context, tenantID, status string) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for i := range r.s.Orders {
		if r.s.Orders[i].TenantID != tenantID {
			continue
		}
		if status != "" && r.s.Orders[i].Status != status {
			continue
		}
		o := r.s.Orders[i]
		o.Items = copyItems(r.s.Orders[i].Items)
		out = append(out, &o)
	}
	return out, nil
}

func (r *orderRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.Orders {
		if r.s.Orders[i].TenantID == tenantID && r.s.Orders[i].ID == id {
			r.s.Orders = append(r.s.Orders[:i], r.s.Orders[i+1:]...)
			return nil
		}
	}
	return nil
}

// ── Pedidos por proveedor ─────────────────────────────────────────────────────

type supplierOrderRepo struct{ s *Store }

func (r *supplierOrderRepo) Create(_ context.Context, order *entity.SupplierOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *order
	stored.Items = copyItems(order.Items)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.s.SupplierOrders = append(r.s.SupplierOrders, stored)
	return nil
}

func (r *supplierOrderRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.SupplierOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SupplierOrder
	for i := range r.s.SupplierOrders {
		if r.s.SupplierOrders[i].TenantID == tenantID {
			o := r.s.SupplierOrders[i]
			o.Items = copyItems(r.s.SupplierOrders[i].Items)
			out = append(out, &o)
		}
	}
	return out, nil
}
