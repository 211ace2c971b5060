package repository

import (
	"context"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// EntryLogRepository puerto de persistencia de filas de inventario y horas de sistema.
// Las implementaciones se atan a una transacción: no confirman por su cuenta.
type EntryLogRepository interface {
	InsertInventory(ctx context.Context, rec *entity.InventoryRecord) error
	InsertSystemHours(ctx context.Context, rec *entity.SystemHoursRecord) error
}
