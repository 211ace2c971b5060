package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// ListPending devuelve pendientes y fallidas con intentos disponibles, las más antiguas primero.
func (s *Store) ListPending(ctx context.Context, maxAttempts, limit int) ([]*entity.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, kind, recipient, subject, body, receipt_lines, status, attempts, COALESCE(last_error, ''), created_at, sent_at
		FROM notification_outbox
		WHERE status <> 'SENT' AND attempts < ?
		ORDER BY created_at
		LIMIT ?`, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var lines string
		var sentAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.BatchID, &n.Kind, &n.Recipient, &n.Subject, &n.Body, &lines,
			&n.Status, &n.Attempts, &n.LastError, &n.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		if lines != "" {
			if err := json.Unmarshal([]byte(lines), &n.Lines); err != nil {
				return nil, fmt.Errorf("líneas de %s: %w", n.ID, err)
			}
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkSent marca la notificación como enviada.
func (s *Store) MarkSent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = 'SENT', attempts = attempts + 1, last_error = NULL, sent_at = ?
		WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}

// MarkFailed registra el intento fallido.
func (s *Store) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notification_outbox
		SET status = 'FAILED', attempts = attempts + 1, last_error = ?
		WHERE id = ?`, reason, id)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// CountRows número de filas de una tabla del esquema; lo usan las verificaciones de salud y las pruebas.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	switch table {
	case "inventory_log", "system_hours_log", "notification_outbox":
	default:
		return 0, fmt.Errorf("tabla desconocida %q", table)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
