package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/order"
)

// OrderHandler maneja el ciclo de vida de pedidos: alta, ampliación, despacho,
// entrega, registro de mercancía y borrado administrativo.
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Líneas del pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	o, err := h.uc.Create(c.Context(), GetTenantID(c), in, GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(o))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | sent | delivered"
// @Success      200  {array}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.uc.List(c.Context(), GetTenantID(c), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, dto.NewOrderResponse(o))
	}
	return c.JSON(out)
}

// ListGrouped godoc
// @Summary      Líneas pendientes agrupadas por categoría o proveedor
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        by  query  string  true  "category | supplier"
// @Success      200  {array}  order.Group
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/grouped [get]
func (h *OrderHandler) ListGrouped(c *fiber.Ctx) error {
	groups, err := h.uc.ListGrouped(c.Context(), GetTenantID(c), c.Query("by"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(groups)
}

// GetByID godoc
// @Summary      Obtener pedido por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// AddItems godoc
// @Summary      Ampliar pedido (pending o sent)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.AddOrderItemsRequest  true  "Líneas a agregar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items [post]
func (h *OrderHandler) AddItems(c *fiber.Ctx) error {
	var in dto.AddOrderItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	o, err := h.uc.AddItems(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// Dispatch godoc
// @Summary      Despachar: consolidar pendientes por proveedor y marcarlos enviados (solo rol admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DispatchResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/orders/dispatch [post]
func (h *OrderHandler) Dispatch(c *fiber.Ctx) error {
	result, err := h.uc.Dispatch(c.Context(), GetTenantID(c), GetRole(c))
	if err != nil {
		return respondError(c, err)
	}
	out := dto.DispatchResponse{DispatchedOrders: result.DispatchedOrders}
	for _, so := range result.SupplierOrders {
		out.SupplierOrders = append(out.SupplierOrders, dto.NewSupplierOrderResponse(so))
	}
	return c.JSON(out)
}

// Deliver godoc
// @Summary      Marcar entregado con cantidades reales opcionales (idempotente)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.DeliverOrderRequest  false  "Cantidades recibidas por línea"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliverOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	o, err := h.uc.Deliver(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewOrderResponse(o))
}

// SubmitSupply godoc
// @Summary      Registrar en el POS la mercancía de un pedido entregado
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.SubmitSupplyRequest  true  "Proveedor y precios por línea"
// @Success      200   {object}  dto.SupplyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/supply [post]
func (h *OrderHandler) SubmitSupply(c *fiber.Ctx) error {
	var in dto.SubmitSupplyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	supplyID, err := h.uc.SubmitSupply(c.Context(), GetTenant(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SupplyResponse{SupplyID: supplyID})
}

// Delete godoc
// @Summary      Borrar pedido (solo rol admin)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetTenantID(c), c.Params("id"), GetRole(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "pedido borrado"})
}

// ListSupplierOrders godoc
// @Summary      Listar pedidos consolidados por proveedor
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SupplierOrderResponse
// @Router       /api/supplier-orders [get]
func (h *OrderHandler) ListSupplierOrders(c *fiber.Ctx) error {
	orders, err := h.uc.ListSupplierOrders(c.Context(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SupplierOrderResponse, 0, len(orders))
	for _, so := range orders {
		out = append(out, dto.NewSupplierOrderResponse(so))
	}
	return c.JSON(out)
}
