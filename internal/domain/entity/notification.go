package entity

import "time"

// Estados de una notificación en la bandeja de salida (outbox).
const (
	NotificationPending = "PENDING"
	NotificationSent    = "SENT"
	NotificationFailed  = "FAILED"
)

// Notification recibo por correo encolado junto con el lote.
type Notification struct {
	ID        string
	BatchID   string
	Kind      string
	Recipient string
	Subject   string
	Body      string
	Lines     []ReceiptLine
	Status    string
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}

// ReceiptLine fila del recibo: material o métrica con su cantidad.
type ReceiptLine struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}
