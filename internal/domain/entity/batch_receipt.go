package entity

import "time"

// BatchReceipt confirmación de un lote guardado de forma atómica.
// Rows contiene las filas aceptadas con su marca de tiempo del servidor.
type BatchReceipt struct {
	BatchID     string
	Kind        string
	SubmittedBy string
	Count       int
	CreatedAt   time.Time
	Inventory   []InventoryRecord
	SystemHours []SystemHoursRecord
}
