package dto

import (
	"time"

	"github.com/jhoicas/site-logger/internal/application/staging"
	"github.com/jhoicas/site-logger/internal/application/submission"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

// StagingResponse estado de la sesión de preparación del usuario.
type StagingResponse[T any] struct {
	State     string            `json:"state"`
	Items     []staging.Item[T] `json:"items"`
	Count     int               `json:"count"`
	CanSubmit bool              `json:"canSubmit"`
	LastError string            `json:"lastError,omitempty"`
	Receipt   *ReceiptSummary   `json:"receipt,omitempty"`
}

// StagingSubmitRequest cuerpo opcional de POST /api/staging/{kind}/submit.
type StagingSubmitRequest struct {
	Notify bool `json:"notify" example:"true"`
}

// ReceiptSummary resumen del último lote confirmado.
type ReceiptSummary struct {
	BatchID   string    `json:"batchId"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"createdAt"`
}

// StagingResponseOf construye la respuesta desde una instantánea de la sesión.
func StagingResponseOf[T any](s submission.Snapshot[T]) StagingResponse[T] {
	resp := StagingResponse[T]{
		State:     s.State.String(),
		Items:     s.Items,
		Count:     len(s.Items),
		CanSubmit: s.CanSubmit,
	}
	if resp.Items == nil {
		resp.Items = []staging.Item[T]{}
	}
	if s.LastError != nil {
		resp.LastError = s.LastError.Error()
	}
	if s.LastReceipt != nil {
		resp.Receipt = ReceiptSummaryOf(s.LastReceipt)
	}
	return resp
}

// ReceiptSummaryOf resume un recibo de lote.
func ReceiptSummaryOf(r *entity.BatchReceipt) *ReceiptSummary {
	return &ReceiptSummary{BatchID: r.BatchID, Count: r.Count, CreatedAt: r.CreatedAt}
}
