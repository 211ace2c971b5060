package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

var (
	_ repository.EntryLogRepository = (*txRepo)(nil)
	_ repository.NotificationOutbox = (*txRepo)(nil)
)

const (
	insertInventorySQL = `
		INSERT INTO inventory_log (id, batch_id, location, week_ending, material, quantity, unit, created_by, created_at, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertHoursSQL = `
		INSERT INTO system_hours_log (id, batch_id, location, reading_date, metric, hours, created_by, created_at, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertOutboxSQL = `
		INSERT INTO notification_outbox (id, batch_id, kind, recipient, subject, body, receipt_lines, status, attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`
)

// txRepo repos atados a una transacción. La sentencia de inserción se prepara una vez por lote.
type txRepo struct {
	tx        *sql.Tx
	invStmt   *sql.Stmt
	hoursStmt *sql.Stmt
}

func (r *txRepo) prepare(ctx context.Context, stmt **sql.Stmt, query string) (*sql.Stmt, error) {
	if *stmt == nil {
		s, err := r.tx.PrepareContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("prepare: %w", err)
		}
		*stmt = s
	}
	return *stmt, nil
}

func (r *txRepo) close() {
	for _, s := range []*sql.Stmt{r.invStmt, r.hoursStmt} {
		if s != nil {
			_ = s.Close()
		}
	}
}

// InsertInventory persiste una fila de tonelaje.
func (r *txRepo) InsertInventory(ctx context.Context, rec *entity.InventoryRecord) error {
	stmt, err := r.prepare(ctx, &r.invStmt, insertInventorySQL)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx,
		rec.ID, rec.BatchID, rec.Location, rec.WeekEnding, rec.Material,
		rec.Quantity, rec.Unit, rec.CreatedBy, rec.CreatedAt, rec.Source,
	)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// InsertSystemHours persiste una lectura de horas.
func (r *txRepo) InsertSystemHours(ctx context.Context, rec *entity.SystemHoursRecord) error {
	stmt, err := r.prepare(ctx, &r.hoursStmt, insertHoursSQL)
	if err != nil {
		return err
	}
	_, err = stmt.ExecContext(ctx,
		rec.ID, rec.BatchID, rec.Location, rec.Date, rec.Metric,
		rec.Hours, rec.CreatedBy, rec.CreatedAt, rec.Source,
	)
	if err != nil {
		return fmt.Errorf("insert system hours: %w", err)
	}
	return nil
}

// Enqueue inserta la notificación bajo un SAVEPOINT para no abortar la transacción del lote.
func (r *txRepo) Enqueue(ctx context.Context, n *entity.Notification) error {
	lines, err := json.Marshal(n.Lines)
	if err != nil {
		return fmt.Errorf("serializar líneas: %w", err)
	}
	if _, err := r.tx.ExecContext(ctx, "SAVEPOINT outbox"); err != nil {
		return fmt.Errorf("savepoint outbox: %w", err)
	}
	_, err = r.tx.ExecContext(ctx, insertOutboxSQL,
		n.ID, n.BatchID, n.Kind, n.Recipient, n.Subject, n.Body, string(lines), n.Status, n.CreatedAt,
	)
	if err != nil {
		if _, rbErr := r.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT outbox"); rbErr != nil {
			return fmt.Errorf("enqueue: %w (rollback to savepoint: %v)", err, rbErr)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("enqueue: lote %s ya tiene recibo: %w", n.BatchID, err)
		}
		return fmt.Errorf("enqueue: %w", err)
	}
	if _, err := r.tx.ExecContext(ctx, "RELEASE SAVEPOINT outbox"); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
