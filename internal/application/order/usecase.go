package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/domain"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
	"github.com/jhoicas/Despensa-api/internal/domain/repository"
	"github.com/jhoicas/Despensa-api/internal/domain/routing"
	"github.com/jhoicas/Despensa-api/internal/infrastructure/poster"
	"github.com/jhoicas/Despensa-api/pkg/logger"
)

// Rol con permiso para borrar pedidos. El borrado es administrativo y queda
// fuera del ciclo de vida normal.
const RoleAdmin = "admin"

// Nombre del grupo de despacho para líneas sin proveedor atribuible.
// Nunca se descartan en silencio.
const UnassignedGroup = "sin asignar"

// UseCase orquesta el ciclo de vida de pedidos: creación, ampliación, despacho
// agrupado por proveedor, entrega y registro de mercancía en el POS.
type UseCase struct {
	tx  TxRunner
	pos poster.Provider
	log *logger.Logger
}

// NewUseCase construye el caso de uso de pedidos.
func NewUseCase(tx TxRunner, pos poster.Provider, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, pos: pos, log: log}
}

// validateItems convierte las líneas del request validando cada una; un ítem
// inválido rechaza la operación completa nombrándolo.
func validateItems(in []dto.OrderItemRequest) ([]entity.OrderItem, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el pedido necesita al menos un ítem", domain.ErrInvalidInput)
	}
	items := make([]entity.OrderItem, 0, len(in))
	for i, it := range in {
		item := entity.OrderItem{Name: it.Name, Quantity: it.Quantity, Unit: it.Unit}
		if !item.Valid() {
			return nil, fmt.Errorf("%w: ítem %d (%q): nombre, unidad y cantidad positiva son obligatorios",
				domain.ErrInvalidInput, i+1, it.Name)
		}
		items = append(items, item)
	}
	return items, nil
}

// Create da de alta un pedido pending con totales derivados de las líneas.
func (uc *UseCase) Create(ctx context.Context, tenantID string, in dto.CreateOrderRequest, role string) (*entity.Order, error) {
	items, err := validateItems(in.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	order := &entity.Order{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		SectionID:     in.SectionID,
		Status:        entity.OrderStatusPending,
		Items:         items,
		Note:          in.Note,
		CreatedByRole: role,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.RecomputeTotals()

	err = uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		section, err := repos.Sections.GetByID(ctx, tenantID, in.SectionID)
		if err != nil {
			return err
		}
		if section == nil {
			return fmt.Errorf("%w: sección %s", domain.ErrNotFound, in.SectionID)
		}
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("order_id", order.ID).
		Int("items", order.TotalItems).Msg("pedido creado")
	return order, nil
}

// AddItems amplía un pedido en pending o sent; recalcula totales y lo marca
// como modificado.
func (uc *UseCase) AddItems(ctx context.Context, tenantID, orderID string, in dto.AddOrderItemsRequest) (*entity.Order, error) {
	items, err := validateItems(in.Items)
	if err != nil {
		return nil, err
	}
	var order *entity.Order
	err = uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		order, err = repos.Orders.GetByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		if !order.AppendItems(items, in.Note) {
			return fmt.Errorf("%w: un pedido entregado ya no se puede modificar", domain.ErrConflict)
		}
		order.UpdatedAt = time.Now()
		return repos.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get devuelve un pedido por id.
func (uc *UseCase) Get(ctx context.Context, tenantID, orderID string) (*entity.Order, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		order, err = repos.Orders.GetByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List devuelve los pedidos del tenant, opcionalmente filtrados por estado.
func (uc *UseCase) List(ctx context.Context, tenantID, status string) ([]*entity.Order, error) {
	switch status {
	case "", entity.OrderStatusPending, entity.OrderStatusSent, entity.OrderStatusDelivered:
	default:
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, status)
	}
	var orders []*entity.Order
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		orders, err = repos.Orders.ListByTenant(ctx, tenantID, status)
		return err
	})
	return orders, err
}

// DispatchResult resume un despacho: cuántos pedidos pasaron a sent y qué
// pedidos consolidados por proveedor se crearon.
type DispatchResult struct {
	DispatchedOrders int
	SupplierOrders   []*entity.SupplierOrder
}

// Dispatch consolida los pedidos pending en un pedido por proveedor y los marca
// como enviados, todo en una transacción. La atribución sigue
// línea → producto → categoría → proveedor con emparejamiento de nombre
// insensible a mayúsculas y acentos; lo no atribuible va al grupo "sin asignar".
// Re-ejecutar sin pendientes es un no-op (los sent se saltan).
// Despachar compromete pedidos frente a proveedores: exige rol admin.
func (uc *UseCase) Dispatch(ctx context.Context, tenantID, role string) (*DispatchResult, error) {
	if role != RoleAdmin {
		return nil, fmt.Errorf("%w: despachar pedidos requiere rol admin", domain.ErrForbidden)
	}
	result := &DispatchResult{}
	now := time.Now()

	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		pending, err := repos.Orders.ListByTenant(ctx, tenantID, entity.OrderStatusPending)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		products, err := repos.Products.ListByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		customs, err := repos.CustomProducts.ListByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		categories, err := repos.Categories.ListByTenant(ctx, tenantID, true)
		if err != nil {
			return err
		}
		suppliers, err := repos.Suppliers.ListByTenant(ctx, tenantID, true)
		if err != nil {
			return err
		}

		categoryByID := make(map[string]*entity.Category, len(categories))
		for _, c := range categories {
			categoryByID[c.ID] = c
		}
		supplierByID := make(map[string]*entity.Supplier, len(suppliers))
		for _, s := range suppliers {
			supplierByID[s.ID] = s
		}
		matcher := routing.NewMatcher(products, customs)

		// Agrupación determinista: los grupos aparecen en el orden en que su
		// primera línea los referencia.
		groups := make(map[string]*entity.SupplierOrder)
		var groupOrder []string
		seenSource := make(map[string]map[string]bool)

		for _, o := range pending {
			for _, item := range o.Items {
				supplierID := ""
				if match, ok := matcher.Match(item.Name); ok && match.CategoryID != "" {
					if category, ok := categoryByID[match.CategoryID]; ok {
						supplierID = category.SupplierID
					}
				}
				group, ok := groups[supplierID]
				if !ok {
					name := UnassignedGroup
					if supplier, found := supplierByID[supplierID]; supplierID != "" && found {
						name = supplier.Name
					}
					group = &entity.SupplierOrder{
						ID:           uuid.NewString(),
						TenantID:     tenantID,
						SupplierID:   supplierID,
						SupplierName: name,
						CreatedAt:    now,
					}
					groups[supplierID] = group
					groupOrder = append(groupOrder, supplierID)
					seenSource[supplierID] = make(map[string]bool)
				}
				group.Items = append(group.Items, entity.OrderItem{
					Name:     item.Name,
					Quantity: item.Quantity,
					Unit:     item.Unit,
				})
				if !seenSource[supplierID][o.ID] {
					group.SourceOrderIDs = append(group.SourceOrderIDs, o.ID)
					seenSource[supplierID][o.ID] = true
				}
			}
		}

		for _, key := range groupOrder {
			group := groups[key]
			if err := repos.SupplierOrders.Create(ctx, group); err != nil {
				return fmt.Errorf("crear pedido del proveedor %q: %w", group.SupplierName, err)
			}
			result.SupplierOrders = append(result.SupplierOrders, group)
		}
		for _, o := range pending {
			if !o.MarkSent(now) {
				// No debería pasar: la lista ya filtró por pending.
				continue
			}
			if err := repos.Orders.Update(ctx, o); err != nil {
				return err
			}
			result.DispatchedOrders++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("tenant_id", tenantID).
		Int("orders", result.DispatchedOrders).Int("supplier_orders", len(result.SupplierOrders)).
		Msg("despacho ejecutado")
	return result, nil
}

// Deliver marca el pedido como entregado aplicando cantidades reales por línea.
// Re-entregar un pedido ya entregado devuelve el pedido tal cual (idempotente).
func (uc *UseCase) Deliver(ctx context.Context, tenantID, orderID string, in dto.DeliverOrderRequest) (*entity.Order, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		order, err = repos.Orders.GetByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		if order.Status == entity.OrderStatusDelivered {
			return nil
		}

		actuals := make(map[int]decimal.Decimal, len(in.Actuals))
		for _, a := range in.Actuals {
			if a.Index < 0 || a.Index >= len(order.Items) {
				return fmt.Errorf("%w: índice de ítem %d fuera de rango", domain.ErrInvalidInput, a.Index)
			}
			if a.ActualQuantity.LessThan(decimal.Zero) {
				return fmt.Errorf("%w: la cantidad recibida del ítem %d no puede ser negativa", domain.ErrInvalidInput, a.Index)
			}
			actuals[a.Index] = a.ActualQuantity
		}
		if !order.MarkDelivered(time.Now(), actuals) {
			return fmt.Errorf("%w: el pedido no admite la transición a entregado", domain.ErrConflict)
		}
		return repos.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Delete borra un pedido. Operación administrativa: exige rol admin.
func (uc *UseCase) Delete(ctx context.Context, tenantID, orderID, role string) error {
	if role != RoleAdmin {
		return fmt.Errorf("%w: borrar pedidos requiere rol admin", domain.ErrForbidden)
	}
	return uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		order, err := repos.Orders.GetByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		return repos.Orders.Delete(ctx, tenantID, orderID)
	})
}

// ListSupplierOrders devuelve los pedidos consolidados creados por despachos.
func (uc *UseCase) ListSupplierOrders(ctx context.Context, tenantID string) ([]*entity.SupplierOrder, error) {
	var orders []*entity.SupplierOrder
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		var err error
		orders, err = repos.SupplierOrders.ListByTenant(ctx, tenantID)
		return err
	})
	return orders, err
}

// Group es un agrupamiento de líneas pendientes para previsualizar el despacho.
type Group struct {
	Name  string             `json:"name"`
	Items []entity.OrderItem `json:"items"`
}

// ListGrouped agrupa las líneas de los pedidos pending por categoría o por
// proveedor, con las mismas etiquetas de relleno que la vista de inventario.
func (uc *UseCase) ListGrouped(ctx context.Context, tenantID, groupBy string) ([]Group, error) {
	if groupBy != "category" && groupBy != "supplier" {
		return nil, fmt.Errorf("%w: agrupamiento desconocido %q (category|supplier)", domain.ErrInvalidInput, groupBy)
	}

	var groups []Group
	err := uc.tx.Run(ctx, tenantID, func(repos repository.Repos) error {
		pending, err := repos.Orders.ListByTenant(ctx, tenantID, entity.OrderStatusPending)
		if err != nil {
			return err
		}
		products, err := repos.Products.ListByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		customs, err := repos.CustomProducts.ListByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		categories, err := repos.Categories.ListByTenant(ctx, tenantID, true)
		if err != nil {
			return err
		}
		suppliers, err := repos.Suppliers.ListByTenant(ctx, tenantID, true)
		if err != nil {
			return err
		}

		categoryByID := make(map[string]*entity.Category, len(categories))
		for _, c := range categories {
			categoryByID[c.ID] = c
		}
		supplierByID := make(map[string]*entity.Supplier, len(suppliers))
		for _, s := range suppliers {
			supplierByID[s.ID] = s
		}
		matcher := routing.NewMatcher(products, customs)

		index := make(map[string]int)
		for _, o := range pending {
			for _, item := range o.Items {
				label := uc.groupLabel(matcher, categoryByID, supplierByID, item.Name, groupBy)
				pos, ok := index[label]
				if !ok {
					pos = len(groups)
					index[label] = pos
					groups = append(groups, Group{Name: label})
				}
				groups[pos].Items = append(groups[pos].Items, item)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (uc *UseCase) groupLabel(matcher *routing.Matcher, categories map[string]*entity.Category, suppliers map[string]*entity.Supplier, name, groupBy string) string {
	match, ok := matcher.Match(name)
	if !ok || match.CategoryID == "" {
		if groupBy == "category" {
			return "sin categoría"
		}
		return "sin proveedor"
	}
	category, found := categories[match.CategoryID]
	if groupBy == "category" {
		if found && category.Name != "" {
			return category.Name
		}
		return "sin categoría"
	}
	if found && category.SupplierID != "" {
		if supplier, ok := suppliers[category.SupplierID]; ok && supplier.Name != "" {
			return supplier.Name
		}
	}
	return "sin proveedor"
}

// SubmitSupply registra en el POS la mercancía de un pedido entregado. Valida
// todas las líneas antes de cualquier llamada upstream: una línea inválida
// rechaza el registro completo nombrándola. Las líneas con cantidad recibida 0
// se omiten (no llegó nada de eso).
func (uc *UseCase) SubmitSupply(ctx context.Context, tenant *entity.Tenant, orderID string, in dto.SubmitSupplyRequest) (int64, error) {
	if in.SupplierID == "" {
		return 0, fmt.Errorf("%w: el proveedor es obligatorio", domain.ErrInvalidInput)
	}

	var (
		order    *entity.Order
		section  *entity.Section
		supplier *entity.Supplier
		matcher  *routing.Matcher
	)
	err := uc.tx.Run(ctx, tenant.ID, func(repos repository.Repos) error {
		var err error
		order, err = repos.Orders.GetByID(ctx, tenant.ID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		if order.Status != entity.OrderStatusDelivered {
			return fmt.Errorf("%w: solo un pedido entregado genera registro de mercancía", domain.ErrConflict)
		}
		section, err = repos.Sections.GetByID(ctx, tenant.ID, order.SectionID)
		if err != nil {
			return err
		}
		if section == nil || !section.Synced() {
			return fmt.Errorf("%w: la sección del pedido no está mapeada a un storage del POS", domain.ErrInvalidInput)
		}
		supplier, err = repos.Suppliers.GetByID(ctx, tenant.ID, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
		}
		if supplier.ExternalID == 0 {
			return fmt.Errorf("%w: el proveedor %q no existe en el POS", domain.ErrInvalidInput, supplier.Name)
		}
		products, err := repos.Products.ListByTenant(ctx, tenant.ID)
		if err != nil {
			return err
		}
		customs, err := repos.CustomProducts.ListByTenant(ctx, tenant.ID)
		if err != nil {
			return err
		}
		matcher = routing.NewMatcher(products, customs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	prices := make(map[int]decimal.Decimal, len(in.Prices))
	for _, p := range in.Prices {
		if p.Index < 0 || p.Index >= len(order.Items) {
			return 0, fmt.Errorf("%w: índice de precio %d fuera de rango", domain.ErrInvalidInput, p.Index)
		}
		if p.Price.LessThan(decimal.Zero) {
			return 0, fmt.Errorf("%w: el precio del ítem %d no puede ser negativo", domain.ErrInvalidInput, p.Index)
		}
		prices[p.Index] = p.Price
	}

	var lines []poster.SupplyIngredient
	for i, item := range order.Items {
		qty := item.Quantity
		if item.ActualQuantity != nil {
			qty = *item.ActualQuantity
		}
		if qty.IsZero() {
			continue
		}
		match, ok := matcher.Match(item.Name)
		if !ok || match.ExternalID == 0 {
			return 0, fmt.Errorf("%w: el ítem %q no corresponde a un producto del POS", domain.ErrInvalidInput, item.Name)
		}
		lines = append(lines, poster.SupplyIngredient{
			ID:  match.ExternalID,
			Num: qty,
			Sum: prices[i],
		})
	}
	if len(lines) == 0 {
		return 0, fmt.Errorf("%w: el pedido no tiene líneas con cantidad recibida", domain.ErrInvalidInput)
	}

	supplyID, err := uc.pos.CreateSupply(ctx, tenant.POSToken, poster.Supply{
		SupplierID:  supplier.ExternalID,
		StorageID:   section.ExternalID,
		Date:        time.Now().Format("2006-01-02 15:04:05"),
		Ingredients: lines,
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Str("tenant_id", tenant.ID).Str("order_id", orderID).
		Int64("supply_id", supplyID).Int("lines", len(lines)).
		Msg("mercancía registrada en el POS")
	return supplyID, nil
}
