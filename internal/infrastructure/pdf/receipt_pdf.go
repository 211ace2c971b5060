// Package pdf genera el recibo PDF de un lote confirmado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de lote          │  Lote + Fecha de registro   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Enviado por                                                │
//	│  TABLA: # | Sitio | Fecha | Material/Métrica | Cant. | Und.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de filas + QR con el id del lote             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/site-logger/internal/application/ports"
	"github.com/jhoicas/site-logger/internal/domain/entity"
)

var _ ports.ReceiptRenderer = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReceiptGenerator implementa ports.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct {
	appName string
}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator(appName string) *ReceiptGenerator {
	return &ReceiptGenerator{appName: appName}
}

// Render genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Render(n *entity.Notification) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(n.Subject, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(n))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(submitterRow(n))
	m.AddRows(tableHeaderRow(n.Kind))
	m.AddRows(tableRows(n.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(n))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

func kindTitle(kind string) string {
	if kind == entity.KindSystemHours {
		return "HORAS DE SISTEMA"
	}
	return "INVENTARIO DE MATERIALES"
}

func headerRow(n *entity.Notification) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("RECIBO DE REGISTRO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(kindTitle(n.Kind), props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Lote "+n.BatchID, props.Text{
				Style: fontstyle.Bold, Size: 7, Align: align.Right, Top: 2,
			}),
			text.New("Registrado: "+n.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func submitterRow(n *entity.Notification) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New("Enviado por: "+n.Recipient, props.Text{Size: 9, Top: 3}),
	))
}

func tableHeaderRow(kind string) core.Row {
	item := "Material"
	if kind == entity.KindSystemHours {
		item = "Métrica"
	}
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Sitio", 2, align.Left),
		h("Fecha", 2, align.Left),
		h(item, 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Und.", 1, align.Center),
	)
}

func tableRows(lines []entity.ReceiptLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for i, l := range lines {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1}))
		}
		rows = append(rows, row.New(6).Add(
			cell(strconv.Itoa(i+1), 1, align.Center),
			cell(l.Location, 2, align.Left),
			cell(l.Date, 2, align.Left),
			cell(l.Item, 4, align.Left),
			cell(l.Quantity, 2, align.Right),
			cell(l.Unit, 1, align.Center),
		))
	}
	return rows
}

func footerRow(n *entity.Notification) core.Row {
	return row.New(35).Add(
		col.New(8).Add(
			text.New(fmt.Sprintf("Total de filas registradas: %d", len(n.Lines)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 4, Color: colorPrimary,
			}),
			text.New("Conserve este recibo como constancia del envío.", props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr(n.BatchID, props.Rect{Percent: 90, Center: true})),
	)
}
