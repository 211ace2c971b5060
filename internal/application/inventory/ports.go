package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/site-logger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: ninguna fila del intento queda registrada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		logRepo repository.EntryLogRepository,
		outbox repository.NotificationOutbox,
	) error) error
}

// SubmissionGuard evita dos envíos simultáneos del mismo usuario y tipo de lote.
// Acquire devuelve domain.ErrSubmissionInProgress si la clave ya está tomada.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}
