package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/application/suggest"
)

// AIHandler autocompletado de nombres de material.
type AIHandler struct {
	uc *suggest.UseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *suggest.UseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// SuggestMaterials godoc
// @Summary      Sugerir nombres de material
// @Description  Devuelve hasta 5 nombres que completan el texto parcial. Con menos de 2 caracteres,
//               sin proveedor configurado o ante cualquier fallo del modelo responde una lista vacía.
//               Siempre 200.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SuggestMaterialsRequest  true  "partialMaterialName, industry"
// @Success      200   {object}  dto.SuggestMaterialsResponse
// @Router       /api/ai/suggest-materials [post]
func (h *AIHandler) SuggestMaterials(c *fiber.Ctx) error {
	var req dto.SuggestMaterialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.JSON(dto.SuggestMaterialsResponse{Suggestions: []string{}})
	}
	out := h.uc.SuggestMaterials(c.UserContext(), req.PartialMaterialName, req.Industry)
	return c.JSON(dto.SuggestMaterialsResponse{Suggestions: out})
}
