package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/application/ports"
	"github.com/jhoicas/site-logger/internal/domain/repository"
	infraai "github.com/jhoicas/site-logger/internal/infrastructure/ai"
	"github.com/jhoicas/site-logger/internal/infrastructure/lock"
	"github.com/jhoicas/site-logger/internal/infrastructure/logstore"
	"github.com/jhoicas/site-logger/internal/infrastructure/postgres"
	"github.com/jhoicas/site-logger/internal/infrastructure/sqlstore"
	"github.com/jhoicas/site-logger/pkg/config"
	"github.com/jhoicas/site-logger/pkg/logger"
)

// store backend de persistencia elegido por STORE_BACKEND.
type store struct {
	runner inventory.TxRunner
	outbox repository.NotificationOutboxReader // nil si el backend no guarda recibos
	close  func()
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.Store.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrar PostgreSQL: %w", err)
			}
		}
		log.Info().Str("dsn", postgres.Redact(cfg.DB.ConnectionString())).Msg("conectado a PostgreSQL")
		return &store{
			runner: postgres.NewTxRunner(pool),
			outbox: postgres.NewNotificationRepository(pool),
			close:  pool.Close,
		}, nil

	case config.BackendMySQL, config.BackendSQLite:
		var (
			s   *sqlstore.Store
			err error
		)
		if cfg.Store.Backend == config.BackendMySQL {
			s, err = sqlstore.OpenMySQL(ctx, cfg.Store.MySQLDSN)
		} else {
			s, err = sqlstore.OpenSQLite(ctx, cfg.Store.SQLitePath)
		}
		if err != nil {
			return nil, err
		}
		// SQLite siempre se migra: el archivo puede ser nuevo.
		if cfg.Store.AutoMigrate || cfg.Store.Backend == config.BackendSQLite {
			if err := s.EnsureSchema(ctx); err != nil {
				_ = s.Close()
				return nil, fmt.Errorf("migrar %s: %w", cfg.Store.Backend, err)
			}
		}
		log.Info().Str("backend", cfg.Store.Backend).Msg("base de datos lista")
		return &store{runner: s, outbox: s, close: func() { _ = s.Close() }}, nil

	case config.BackendLog:
		log.Warn().Msg("STORE_BACKEND=log: los lotes solo se registran en el log")
		return &store{runner: logstore.New(log.Component("logstore")), close: func() {}}, nil
	}
	return nil, fmt.Errorf("STORE_BACKEND desconocido: %q", cfg.Store.Backend)
}

// newGuard usa Redis si está configurado y responde; si no, un guard en memoria del proceso.
func newGuard(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (inventory.SubmissionGuard, func()) {
	if cfg.Addr == "" {
		return inventory.NewMemoryGuard(), func() {}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no disponible, guard de envío en memoria")
		_ = rdb.Close()
		return inventory.NewMemoryGuard(), func() {}
	}
	log.Info().Str("addr", cfg.Addr).Msg("conectado a Redis")
	return lock.NewRedisGuard(rdb), func() { _ = rdb.Close() }
}

// newSuggester elige el proveedor de IA. nil deshabilita las sugerencias.
func newSuggester(ctx context.Context, cfg config.AIConfig, log *logger.Logger) ports.MaterialSuggester {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Warn().Msg("AI_PROVIDER=gemini sin GEMINI_API_KEY: sugerencias deshabilitadas")
			return nil
		}
		s, err := infraai.NewGeminiSuggester(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("cliente Gemini: sugerencias deshabilitadas")
			return nil
		}
		return s
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Warn().Msg("AI_PROVIDER=anthropic sin ANTHROPIC_API_KEY: sugerencias deshabilitadas")
			return nil
		}
		return infraai.NewAnthropicSuggester(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	case "":
		return nil
	}
	log.Warn().Str("provider", cfg.Provider).Msg("AI_PROVIDER desconocido: sugerencias deshabilitadas")
	return nil
}
