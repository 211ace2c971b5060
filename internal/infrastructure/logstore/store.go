// Package logstore límite de persistencia que solo registra los lotes en el log.
// Sirve para entornos sin base de datos; las filas se emiten únicamente si el lote completo
// se confirma.
package logstore

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/domain/entity"
	"github.com/jhoicas/site-logger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store acumula filas por transacción y las registra al confirmar.
type Store struct {
	log       zerolog.Logger
	committed atomic.Int64
}

// New construye el store.
func New(log zerolog.Logger) *Store {
	return &Store{log: log}
}

// Committed filas registradas desde el arranque.
func (s *Store) Committed() int64 { return s.committed.Load() }

type pending struct {
	inventory []entity.InventoryRecord
	hours     []entity.SystemHoursRecord
	notes     []entity.Notification
}

func (p *pending) InsertInventory(_ context.Context, rec *entity.InventoryRecord) error {
	p.inventory = append(p.inventory, *rec)
	return nil
}

func (p *pending) InsertSystemHours(_ context.Context, rec *entity.SystemHoursRecord) error {
	p.hours = append(p.hours, *rec)
	return nil
}

func (p *pending) Enqueue(_ context.Context, n *entity.Notification) error {
	p.notes = append(p.notes, *n)
	return nil
}

// Run ejecuta fn; si devuelve error nada se registra.
func (s *Store) Run(ctx context.Context, fn func(
	logRepo repository.EntryLogRepository,
	outbox repository.NotificationOutbox,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := &pending{}
	if err := fn(p, p); err != nil {
		return err
	}

	for _, r := range p.inventory {
		s.log.Info().
			Str("batch_id", r.BatchID).
			Str("location", r.Location).
			Time("week_ending", r.WeekEnding).
			Str("material", r.Material).
			Str("quantity", r.Quantity.String()).
			Str("unit", r.Unit).
			Str("created_by", r.CreatedBy).
			Str("source", r.Source).
			Msg("inventory_log")
	}
	for _, r := range p.hours {
		s.log.Info().
			Str("batch_id", r.BatchID).
			Str("location", r.Location).
			Time("date", r.Date).
			Str("metric", r.Metric).
			Str("hours", r.Hours.String()).
			Str("created_by", r.CreatedBy).
			Str("source", r.Source).
			Msg("system_hours_log")
	}
	for _, n := range p.notes {
		s.log.Info().Str("batch_id", n.BatchID).Str("recipient", n.Recipient).Msg("recibo omitido: backend sin bandeja de salida")
	}
	s.committed.Add(int64(len(p.inventory) + len(p.hours)))
	return nil
}
