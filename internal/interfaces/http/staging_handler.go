package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/site-logger/internal/application/dto"
	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/application/validation"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// StagingHandler área de preparación del lado del servidor: una sesión por identidad.
type StagingHandler struct {
	validator *validation.Validator
	inventory stagingRoutes[entity.InventoryEntry]
	hours     stagingRoutes[entity.HoursEntry]
}

// NewStagingHandler construye el handler sobre los registros de sesiones.
func NewStagingHandler(v *validation.Validator, inv *submission.Registry[entity.InventoryEntry], hrs *submission.Registry[entity.HoursEntry]) *StagingHandler {
	h := &StagingHandler{validator: v}
	h.inventory = stagingRoutes[entity.InventoryEntry]{
		reg: inv,
		parse: func(c *fiber.Ctx) (entity.InventoryEntry, error) {
			var in dto.InventoryItemJSON
			if err := c.BodyParser(&in); err != nil {
				return entity.InventoryEntry{}, fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
			}
			return h.validator.Inventory(in.Form())
		},
	}
	h.hours = stagingRoutes[entity.HoursEntry]{
		reg: hrs,
		parse: func(c *fiber.Ctx) (entity.HoursEntry, error) {
			var in dto.HoursItemJSON
			if err := c.BodyParser(&in); err != nil {
				return entity.HoursEntry{}, fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")
			}
			return h.validator.Hours(in.Form())
		},
	}
	return h
}

// Register monta las rutas bajo el grupo recibido (ya protegido por RequireIdentity).
func (h *StagingHandler) Register(r fiber.Router) {
	h.inventory.mount(r.Group("/inventory"))
	h.hours.mount(r.Group("/system-hours"))
}

type stagingRoutes[T any] struct {
	reg   *submission.Registry[T]
	parse func(*fiber.Ctx) (T, error)
}

func (s stagingRoutes[T]) mount(g fiber.Router) {
	g.Get("/", s.list)
	g.Post("/", s.stage)
	g.Post("/submit", s.submit)
	g.Delete("/:id", s.unstage)
}

func (s stagingRoutes[T]) session(c *fiber.Ctx) *submission.Session[T] {
	return s.reg.Get(GetIdentity(c).Email)
}

// list godoc
// @Summary      Ver lista de preparación
// @Tags         staging
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "inventory | system-hours"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/staging/{kind} [get]
func (s stagingRoutes[T]) list(c *fiber.Ctx) error {
	return c.JSON(dto.StagingResponseOf(s.session(c).Snapshot()))
}

// stage godoc
// @Summary      Agregar entrada a la lista de preparación
// @Description  La entrada se valida antes de agregarse; una entrada inválida nunca entra a la lista.
// @Tags         staging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string  true  "inventory | system-hours"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/staging/{kind} [post]
func (s stagingRoutes[T]) stage(c *fiber.Ctx) error {
	entry, err := s.parse(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return badRequest(c, fe.Message)
		}
		return writeError(c, err)
	}
	sess := s.session(c)
	if _, err := sess.Stage(entry); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StagingResponseOf(sess.Snapshot()))
}

// unstage godoc
// @Summary      Quitar entrada de la lista de preparación
// @Tags         staging
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "inventory | system-hours"
// @Param        id    path  string  true  "id de la entrada"
// @Success      200   {object}  map[string]interface{}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/staging/{kind}/{id} [delete]
func (s stagingRoutes[T]) unstage(c *fiber.Ctx) error {
	sess := s.session(c)
	// Quitar un id inexistente no es error; la lista queda igual.
	if _, err := sess.Unstage(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StagingResponseOf(sess.Snapshot()))
}

// submit godoc
// @Summary      Enviar la lista de preparación como un lote
// @Description  Con notify=true (cuerpo o query) se encola el recibo por correo, igual que en /api/save-*.
// @Tags         staging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind    path   string                    true   "inventory | system-hours"
// @Param        notify  query  bool                      false  "encolar recibo por correo"
// @Param        body    body   dto.StagingSubmitRequest  false  "notify"
// @Success      201   {object}  dto.SaveResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/staging/{kind}/submit [post]
func (s stagingRoutes[T]) submit(c *fiber.Ctx) error {
	var in dto.StagingSubmitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "cuerpo inválido")
		}
	}
	notify := in.Notify || c.QueryBool("notify")

	receipt, err := s.session(c).Submit(c.UserContext(), submission.WithNotify(notify))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved(receipt))
}
