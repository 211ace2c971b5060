package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

var _ repository.EntryLogRepository = (*EntryLogRepo)(nil)

// EntryLogRepo inserta filas de inventario y horas (usable con pool o tx).
type EntryLogRepo struct {
	q Querier
}

// NewEntryLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntryLogRepository(q Querier) *EntryLogRepo {
	return &EntryLogRepo{q: q}
}

// InsertInventory persiste una fila de tonelaje.
func (r *EntryLogRepo) InsertInventory(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory_log (id, batch_id, location, week_ending, material, quantity, unit, created_by, created_at, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.BatchID, rec.Location, rec.WeekEnding, rec.Material,
		rec.Quantity, rec.Unit, rec.CreatedBy, rec.CreatedAt, rec.Source,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert inventory %s: id duplicado: %w", rec.ID, err)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// InsertSystemHours persiste una lectura de horas.
func (r *EntryLogRepo) InsertSystemHours(ctx context.Context, rec *entity.SystemHoursRecord) error {
	query := `
		INSERT INTO system_hours_log (id, batch_id, location, reading_date, metric, hours, created_by, created_at, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.BatchID, rec.Location, rec.Date, rec.Metric,
		rec.Hours, rec.CreatedBy, rec.CreatedAt, rec.Source,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert system hours %s: id duplicado: %w", rec.ID, err)
		}
		return fmt.Errorf("insert system hours: %w", err)
	}
	return nil
}
