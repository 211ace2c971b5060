package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de lote.
const (
	KindInventory   = "inventory"
	KindSystemHours = "system_hours"
)

// SourceApp identifica las filas registradas desde esta aplicación.
const SourceApp = "App"

// InventoryEntry lectura de tonelaje/volumen de un material en un sitio para una semana.
type InventoryEntry struct {
	Location   string          `json:"location"`
	WeekEnding time.Time       `json:"weekEnding"`
	Material   string          `json:"material"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"` // TN | YD
}

// InventoryRecord fila persistida de inventario.
type InventoryRecord struct {
	ID        string
	BatchID   string
	InventoryEntry
	CreatedBy string
	CreatedAt time.Time // asignado por el servidor al confirmar el lote
	Source    string
}
