package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/site-logger/internal/domain/entity"
)

func TestRender_GeneraPDF(t *testing.T) {
	g := NewReceiptGenerator("site-logger")
	n := &entity.Notification{
		BatchID:   "3f1c2a4e-0000-4000-8000-000000000001",
		Kind:      entity.KindInventory,
		Recipient: "a@b.com",
		Subject:   "Recibo: 2 entradas de inventario registradas",
		CreatedAt: time.Date(2024, 6, 8, 15, 4, 0, 0, time.UTC),
		Lines: []entity.ReceiptLine{
			{Location: "1004", Date: "2024-06-08", Item: "Wood", Quantity: "12.5", Unit: "TN"},
			{Location: "3021", Date: "2024-06-08", Item: "Mulch", Quantity: "40", Unit: "YD"},
		},
	}

	out, err := g.Render(n)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestKindTitle(t *testing.T) {
	assert.Equal(t, "HORAS DE SISTEMA", kindTitle(entity.KindSystemHours))
	assert.Equal(t, "INVENTARIO DE MATERIALES", kindTitle(entity.KindInventory))
}
