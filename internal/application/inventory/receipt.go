package inventory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

func receiptSubject(kind string, n int) string {
	switch kind {
	case entity.KindSystemHours:
		return fmt.Sprintf("Recibo: %d lecturas de horas de sistema registradas", n)
	default:
		return fmt.Sprintf("Recibo: %d entradas de inventario registradas", n)
	}
}

// receiptBody texto plano del correo; el PDF adjunto usa las mismas líneas.
func receiptBody(receipt *entity.BatchReceipt, lines []entity.ReceiptLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lote %s\n", receipt.BatchID)
	fmt.Fprintf(&b, "Enviado por: %s\n", receipt.SubmittedBy)
	fmt.Fprintf(&b, "Fecha de registro: %s UTC\n\n", receipt.CreatedAt.Format("2006-01-02 15:04:05"))
	for i, l := range lines {
		fmt.Fprintf(&b, "%2d. Sitio %s | %s | %s | %s %s\n", i+1, l.Location, l.Date, l.Item, l.Quantity, l.Unit)
	}
	return b.String()
}

func inventoryLines(recs []entity.InventoryRecord) []entity.ReceiptLine {
	lines := make([]entity.ReceiptLine, len(recs))
	for i, r := range recs {
		lines[i] = entity.ReceiptLine{
			Location: r.Location,
			Date:     dateString(r.WeekEnding),
			Item:     r.Material,
			Quantity: r.Quantity.String(),
			Unit:     r.Unit,
		}
	}
	return lines
}

func hoursLines(recs []entity.SystemHoursRecord) []entity.ReceiptLine {
	lines := make([]entity.ReceiptLine, len(recs))
	for i, r := range recs {
		lines[i] = entity.ReceiptLine{
			Location: r.Location,
			Date:     dateString(r.Date),
			Item:     r.Metric,
			Quantity: r.Hours.String(),
			Unit:     "h",
		}
	}
	return lines
}
