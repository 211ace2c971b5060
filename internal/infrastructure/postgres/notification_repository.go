package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

var (
	_ repository.NotificationOutbox       = (*NotificationRepo)(nil)
	_ repository.NotificationOutboxReader = (*NotificationRepo)(nil)
)

// NotificationRepo bandeja de salida de recibos.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Enqueue inserta la notificación bajo un savepoint: si falla, la transacción externa sigue viva.
func (r *NotificationRepo) Enqueue(ctx context.Context, n *entity.Notification) error {
	lines, err := json.Marshal(n.Lines)
	if err != nil {
		return fmt.Errorf("serializar líneas: %w", err)
	}
	sp, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("savepoint outbox: %w", err)
	}
	defer func() { _ = sp.Rollback(ctx) }()

	query := `
		INSERT INTO notification_outbox (id, batch_id, kind, recipient, subject, body, lines, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)`
	if _, err := sp.Exec(ctx, query,
		n.ID, n.BatchID, n.Kind, n.Recipient, n.Subject, n.Body, lines, n.Status, n.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("enqueue: lote %s ya tiene recibo: %w", n.BatchID, err)
		}
		return fmt.Errorf("enqueue: %w", err)
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

// ListPending devuelve pendientes y fallidas con intentos disponibles, las más antiguas primero.
func (r *NotificationRepo) ListPending(ctx context.Context, maxAttempts, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT id, batch_id, kind, recipient, subject, body, lines, status, attempts, COALESCE(last_error, ''), created_at, sent_at
		FROM notification_outbox
		WHERE status <> 'SENT' AND attempts < $1
		ORDER BY created_at
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var lines []byte
		if err := rows.Scan(&n.ID, &n.BatchID, &n.Kind, &n.Recipient, &n.Subject, &n.Body, &lines,
			&n.Status, &n.Attempts, &n.LastError, &n.CreatedAt, &n.SentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if len(lines) > 0 {
			if err := json.Unmarshal(lines, &n.Lines); err != nil {
				return nil, fmt.Errorf("líneas de %s: %w", n.ID, err)
			}
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkSent marca la notificación como enviada.
func (r *NotificationRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE notification_outbox
		SET status = 'SENT', attempts = attempts + 1, last_error = NULL, sent_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}

// MarkFailed registra el intento fallido.
func (r *NotificationRepo) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE notification_outbox
		SET status = 'FAILED', attempts = attempts + 1, last_error = $2
		WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}
