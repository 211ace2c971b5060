package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// SaveHandler endpoints de guardado por lotes.
type SaveHandler struct {
	uc        *inventory.SaveBatchUseCase
	allowBody bool
}

// NewSaveHandler construye el handler. allowBodyEmail acepta userEmail del cuerpo
// cuando no hay identidad del proveedor.
func NewSaveHandler(uc *inventory.SaveBatchUseCase, allowBodyEmail bool) *SaveHandler {
	return &SaveHandler{uc: uc, allowBody: allowBodyEmail}
}

// SaveInventory godoc
// @Summary      Guardar lote de inventario
// @Description  Registra todas las filas con la misma marca de tiempo o ninguna. Requiere identidad del proveedor (X-MS-CLIENT-PRINCIPAL o Bearer); userEmail del cuerpo solo se usa sin principal y con AUTH_ALLOW_BODY_EMAIL=true.
// @Tags         save
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveInventoryRequest  true  "userEmail, items[] (location, weekEnding, material, quantity, unit), notify"
// @Success      201   {object}  dto.SaveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      405   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/save-inventory [post]
func (h *SaveHandler) SaveInventory(c *fiber.Ctx) error {
	var in dto.SaveInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	by := submitter(c, in.UserEmail, h.allowBody)
	if by == "" {
		return unauthorized(c)
	}
	receipt, err := h.uc.SaveInventory(c.UserContext(), inventory.SaveInventoryInput{
		SubmittedBy: by,
		Items:       dto.InventoryForms(in.Items),
		Notify:      in.Notify,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved(receipt))
}

// SaveSystemHours godoc
// @Summary      Guardar lote de horas de sistema
// @Description  Registra todas las filas con la misma marca de tiempo o ninguna. Requiere identidad del proveedor (X-MS-CLIENT-PRINCIPAL o Bearer); userEmail del cuerpo solo se usa sin principal y con AUTH_ALLOW_BODY_EMAIL=true.
// @Tags         save
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveSystemHoursRequest  true  "userEmail, items[] (location, date, metric, hours), notify"
// @Success      201   {object}  dto.SaveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      405   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/save-system-hours [post]
func (h *SaveHandler) SaveSystemHours(c *fiber.Ctx) error {
	var in dto.SaveSystemHoursRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido: "+err.Error())
	}
	by := submitter(c, in.UserEmail, h.allowBody)
	if by == "" {
		return unauthorized(c)
	}
	receipt, err := h.uc.SaveSystemHours(c.UserContext(), inventory.SaveHoursInput{
		SubmittedBy: by,
		Items:       dto.HoursForms(in.Items),
		Notify:      in.Notify,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved(receipt))
}

func saved(r *entity.BatchReceipt) dto.SaveResponse {
	return dto.SaveResponse{
		Ok:        true,
		BatchID:   r.BatchID,
		Inserted:  r.Count,
		CreatedAt: r.CreatedAt,
		Message:   "lote guardado",
	}
}
