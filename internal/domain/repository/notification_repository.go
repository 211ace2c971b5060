package repository

import (
	"context"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// NotificationOutbox encola recibos dentro de la transacción del lote.
// Enqueue debe aislar su propio fallo (savepoint) para no abortar la transacción externa.
type NotificationOutbox interface {
	Enqueue(ctx context.Context, n *entity.Notification) error
}

// NotificationOutboxReader lectura y marcado de notificaciones para el despachador.
type NotificationOutboxReader interface {
	ListPending(ctx context.Context, maxAttempts, limit int) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
