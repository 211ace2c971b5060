package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/application/suggest"
	"github.com/jhoicas/site-logger/internal/application/validation"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaveBatch         *inventory.SaveBatchUseCase
	Validator         *validation.Validator
	Suggest           *suggest.UseCase
	InventorySessions *submission.Registry[entity.InventoryEntry]
	HoursSessions     *submission.Registry[entity.HoursEntry]
	JWTSecret         string
	AllowBodyEmail    bool
	ServiceName       string
	Log               zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Validator == nil {
		deps.Validator = validation.New(nil)
	}
	meta := NewMetaHandler(deps.Validator.Catalog(), deps.ServiceName)
	app.Get("/health", meta.Health)

	api := app.Group("/api", IdentityMiddleware(deps.JWTSecret, deps.Log))
	api.Get("/me", meta.Me)
	api.Get("/catalog", meta.Catalog)

	// Guardado por lotes: solo POST; cualquier otro método recibe 405.
	save := NewSaveHandler(deps.SaveBatch, deps.AllowBodyEmail)
	api.Post("/save-inventory", save.SaveInventory)
	api.All("/save-inventory", methodNotAllowed)
	api.Post("/save-system-hours", save.SaveSystemHours)
	api.All("/save-system-hours", methodNotAllowed)

	if deps.Suggest != nil {
		ai := NewAIHandler(deps.Suggest)
		api.Post("/ai/suggest-materials", ai.SuggestMaterials)
	}

	if deps.InventorySessions != nil && deps.HoursSessions != nil {
		staging := NewStagingHandler(deps.Validator, deps.InventorySessions, deps.HoursSessions)
		staging.Register(api.Group("/staging", RequireIdentity()))
	}
}
