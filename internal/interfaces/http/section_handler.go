package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Despensa-api/internal/application/dto"
	"github.com/jhoicas/Despensa-api/internal/application/usecase"
)

// SectionHandler maneja las peticiones HTTP para secciones.
type SectionHandler struct {
	uc *usecase.SectionUseCase
}

// NewSectionHandler construye el handler.
func NewSectionHandler(uc *usecase.SectionUseCase) *SectionHandler {
	return &SectionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear sección manual
// @Tags         sections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSectionRequest  true  "Datos de la sección"
// @Success      201   {object}  dto.SectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sections [post]
func (h *SectionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	section, err := h.uc.Create(c.Context(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSectionResponse(section))
}

// List godoc
// @Summary      Listar secciones
// @Tags         sections
// @Security     Bearer
// @Produce      json
// @Param        include_inactive  query  bool  false  "Incluir desactivadas"
// @Success      200  {array}  dto.SectionResponse
// @Router       /api/sections [get]
func (h *SectionHandler) List(c *fiber.Ctx) error {
	sections, err := h.uc.List(c.Context(), GetTenantID(c), c.QueryBool("include_inactive"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SectionResponse, 0, len(sections))
	for _, s := range sections {
		out = append(out, dto.NewSectionResponse(s))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener sección por ID
// @Tags         sections
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sección"
// @Success      200  {object}  dto.SectionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sections/{id} [get]
func (h *SectionHandler) GetByID(c *fiber.Ctx) error {
	section, err := h.uc.Get(c.Context(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSectionResponse(section))
}

// Update godoc
// @Summary      Editar sección
// @Tags         sections
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sección"
// @Param        body  body  dto.UpdateSectionRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.SectionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sections/{id} [put]
func (h *SectionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSectionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	section, err := h.uc.Update(c.Context(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSectionResponse(section))
}

// Deactivate godoc
// @Summary      Desactivar sección
// @Tags         sections
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sección"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sections/{id} [delete]
func (h *SectionHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "sección desactivada"})
}
