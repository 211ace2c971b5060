// @title           Site Logger API
// @version         1.0
// @description     Registro por lotes de tonelaje de inventario y horas de sistema por sitio.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	_ "github.com/jhoicas/site-logger/docs"
	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/application/notify"
	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/application/suggest"
	"github.com/jhoicas/site-logger/internal/application/validation"
	"github.com/jhoicas/site-logger/internal/domain/catalog"
	"github.com/jhoicas/site-logger/internal/domain/entity"
	infrapdf "github.com/jhoicas/site-logger/internal/infrastructure/pdf"
	"github.com/jhoicas/site-logger/internal/infrastructure/mail"
	httpRouter "github.com/jhoicas/site-logger/internal/interfaces/http"
	"github.com/jhoicas/site-logger/pkg/config"
	"github.com/jhoicas/site-logger/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación detenida con error")
	}
	log.Info().Msg("aplicación detenida")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	guard, closeGuard := newGuard(ctx, cfg.Redis, log)
	defer closeGuard()

	cat := catalog.Default()
	validator := validation.New(cat)
	saveUC := inventory.NewSaveBatchUseCase(st.runner, guard, validator, log.Component("save_batch"))

	industry := cfg.AI.Industry
	if industry == "" {
		industry = cat.Industry
	}
	suggestUC := suggest.NewUseCase(newSuggester(ctx, cfg.AI, log), industry, log.Component("suggest"))

	sessionOpts := []submission.Option{submission.WithDisplayWindow(cfg.Staging.DisplayWindow)}
	invSessions := submission.NewRegistry(saveUC.InventoryBoundary(), sessionOpts...)
	hrsSessions := submission.NewRegistry(saveUC.HoursBoundary(), sessionOpts...)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Site Logger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		SaveBatch:         saveUC,
		Validator:         validator,
		Suggest:           suggestUC,
		InventorySessions: invSessions,
		HoursSessions:     hrsSessions,
		JWTSecret:         cfg.JWT.Secret,
		AllowBodyEmail:    cfg.Auth.AllowBodyEmail,
		ServiceName:       cfg.App.Name,
		Log:               log.Component("identity"),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	g.Go(func() error {
		return sweepSessions(gctx, cfg.Staging, log, invSessions, hrsSessions)
	})

	switch {
	case st.outbox == nil:
		log.Info().Msg("backend sin bandeja de salida: recibos por correo deshabilitados")
	case !cfg.SMTP.Enabled():
		log.Info().Msg("SMTP_HOST vacío: los recibos quedan pendientes en la bandeja de salida")
	default:
		dispatcher := notify.NewDispatcher(
			st.outbox,
			infrapdf.NewReceiptGenerator(cfg.App.Name),
			mail.NewSMTPSender(cfg.SMTP),
			notify.Config{
				Interval:    cfg.Notify.Interval,
				BatchSize:   cfg.Notify.BatchSize,
				MaxAttempts: cfg.Notify.MaxAttempts,
			},
			log.Component("notify"),
		)
		g.Go(func() error { return dispatcher.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// sweepSessions elimina periódicamente las sesiones de preparación inactivas.
func sweepSessions(ctx context.Context, cfg config.StagingConfig, log *logger.Logger,
	inv *submission.Registry[entity.InventoryEntry], hrs *submission.Registry[entity.HoursEntry],
) error {
	if cfg.SweepInterval <= 0 || cfg.IdleTimeout <= 0 {
		return nil
	}
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n := inv.Sweep(cfg.IdleTimeout) + hrs.Sweep(cfg.IdleTimeout)
			if n > 0 {
				log.Debug().Int("removed", n).Msg("sesiones de preparación expiradas")
			}
		}
	}
}
