// Package pdf genera el acta de recepción de mercancía en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Acta de recepción  │  N° Recepción + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SESIÓN: nombre, tienda, responsable, notas                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Antes | Recibido | Rechazado | Después    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: unidades recibidas / rechazadas / para exhibir     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
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

	appsession "github.com/jhoicas/conteo-api/internal/application/session"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ appsession.ReportGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa session.ReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// ReceivingReport genera el acta de recepción y devuelve sus bytes.
func (g *MarotoPDFGenerator) ReceivingReport(recv *entity.Receiving, session *entity.Session) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Recepción "+recv.ReceivingNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(recv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sessionRow(recv, session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(recv.Snapshot) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(recv, session))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y número + fecha de recepción (der).
func headerRow(recv *entity.Receiving) core.Row {
	fecha := recv.ReceivedAt.Format("02/01/2006 15:04")
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ACTA DE RECEPCIÓN DE MERCANCÍA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(recv.ReceivingNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

// sessionRow: datos de la sesión que originó la recepción.
func sessionRow(recv *entity.Receiving, session *entity.Session) core.Row {
	notes := recv.Notes
	if notes == "" {
		notes = "—"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("SESIÓN DE RECEPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(session.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tienda: %s   |   Participantes: %d   |   Notas: %s",
				session.StoreID, len(session.Members), notes,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Antes", 1, align.Right),
		h("Recibido", 2, align.Right),
		h("Rechazado", 2, align.Right),
		h("Después", 1, align.Right),
		h("Exhibir", 1, align.Center),
	)
}

// tableLineRows: una fila por línea del snapshot.
func tableLineRows(snapshot []entity.StockSnapshotLine) []core.Row {
	qty := func(n int64, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(
			strconv.FormatInt(n, 10),
			props.Text{Size: 8, Align: a, Top: 1, Right: 1},
		))
	}
	result := make([]core.Row, 0, len(snapshot))
	for _, l := range snapshot {
		name := l.DisplayName
		if l.SKU != "" {
			name = fmt.Sprintf("%s (%s)", l.DisplayName, l.SKU)
		}
		exhibir := ""
		if l.NeedsDisplay {
			exhibir = "SÍ"
		}
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			qty(l.QuantityBefore, 1, align.Right),
			qty(l.QuantityReceived, 2, align.Right),
			qty(l.QuantityRejected, 2, align.Right),
			qty(l.QuantityAfter, 1, align.Right),
			col.New(1).Add(text.New(exhibir, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: colorPrimary,
			})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(recv *entity.Receiving, session *entity.Session) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(n int64) core.Component {
		return text.New(strconv.FormatInt(n, 10), props.Text{
			Size: 9, Align: align.Right, Right: 1,
		})
	}
	return row.New(22).Add(
		col.New(4),
		col.New(4).Add(
			label("Unidades recibidas:"),
			label("Unidades rechazadas:"),
			label("Productos para exhibir:"),
		),
		col.New(3).Add(
			value(session.TotalAccepted()),
			value(session.TotalRejected()),
			value(int64(recv.NewDisplayCount())),
		),
		col.New(1),
	)
}

// footerRow: leyenda de cierre.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento generado al finalizar la sesión de recepción. Las cantidades "+
				"rechazadas se registran para auditoría y no afectan el stock.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
