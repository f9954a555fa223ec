package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
	"github.com/jhoicas/Despensa-api/internal/domain/entity"
)

// CustomProductHandler maneja las peticiones HTTP para productos custom.
// En las rutas el id viaja con namespace ("c15").
type CustomProductHandler struct {
	uc *usecase.CustomProductUseCase
}

// NewCustomProductHandler construye el handler.
func NewCustomProductHandler(uc *usecase.CustomProductUseCase) *CustomProductHandler {
	return &CustomProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto custom
// @Tags         custom-products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.CustomProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/custom-products [post]
func (h *CustomProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Create(c.Context(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCustomProductResponse(product))
}

// List godoc
// @Summary      Listar productos custom
// @Tags         custom-products
// @Security     Bearer
// @Produce      json
// @Param        section_id  query  string  false  "Filtrar por sección"
// @Success      200  {array}  dto.CustomProductResponse
// @Router       /api/custom-products [get]
func (h *CustomProductHandler) List(c *fiber.Ctx) error {
	var (
		entities []*entity.CustomProduct
		err      error
	)
	if sectionID := c.Query("section_id"); sectionID != "" {
		entities, err = h.uc.ListBySection(c.Context(), GetTenantID(c), sectionID)
	} else {
		entities, err = h.uc.List(c.Context(), GetTenantID(c))
	}
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CustomProductResponse, 0, len(entities))
	for _, p := range entities {
		out = append(out, dto.NewCustomProductResponse(p))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar producto custom
// @Tags         custom-products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID con namespace (c15)"
// @Param        body  body  dto.UpdateCustomProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.CustomProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/custom-products/{id} [put]
func (h *CustomProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.Update(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewCustomProductResponse(product))
}

// Deactivate godoc
// @Summary      Desactivar producto custom
// @Tags         custom-products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID con namespace (c15)"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/custom-products/{id} [delete]
func (h *CustomProductHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "producto custom desactivado"})
}
