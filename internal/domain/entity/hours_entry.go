package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoursEntry lectura de horas de operación (o parada) de un sitio en un día.
type HoursEntry struct {
	Location string          `json:"location"`
	Date     time.Time       `json:"date"`
	Metric   string          `json:"metric"`
	Hours    decimal.Decimal `json:"hours"`
}

// SystemHoursRecord fila persistida de horas de sistema.
type SystemHoursRecord struct {
	ID      string
	BatchID string
	HoursEntry
	CreatedBy string
	CreatedAt time.Time
	Source    string
}
