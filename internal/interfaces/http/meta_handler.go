package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/domain/catalog"
)

// MetaHandler endpoints de solo lectura: identidad, catálogo y salud.
type MetaHandler struct {
	cat     *catalog.Catalog
	service string
}

// NewMetaHandler construye el handler.
func NewMetaHandler(cat *catalog.Catalog, service string) *MetaHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &MetaHandler{cat: cat, service: service}
}

// Me godoc
// @Summary      Identidad resuelta
// @Tags         meta
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *MetaHandler) Me(c *fiber.Ctx) error {
	id := GetIdentity(c)
	if id.IsZero() {
		return unauthorized(c)
	}
	return c.JSON(dto.MeResponse{Email: id.Email, Name: id.Name, Provider: id.Provider})
}

// Catalog godoc
// @Summary      Catálogo de sitios, materiales, unidades y métricas
// @Tags         meta
// @Produce      json
// @Success      200  {object}  catalog.Catalog
// @Router       /api/catalog [get]
func (h *MetaHandler) Catalog(c *fiber.Ctx) error {
	return c.JSON(h.cat)
}

// Health godoc
// @Summary  Liveness
// @Tags     meta
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *MetaHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": h.service})
}
