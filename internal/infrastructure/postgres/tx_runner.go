package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// maxTxAttempts intentos ante conflictos de serialización o deadlock.
const maxTxAttempts = 3

// TxRunner ejecuta un lote completo dentro de una única transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run ejecuta fn con el registro y la bandeja de salida atados a la tx. Si la tx aborta por
// conflicto (40001/40P01) se repite fn desde cero; fn no debe tener efectos fuera de la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	logRepo repository.EntryLogRepository,
	outbox repository.NotificationOutbox,
) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return fmt.Errorf("transacción abortada tras %d intentos: %w", maxTxAttempts, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repository.EntryLogRepository, repository.NotificationOutbox) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewEntryLogRepository(tx), NewNotificationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
