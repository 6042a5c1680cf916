// Package pdf implementa la exportación del trail de auditoría a PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa  │  "Trail de auditoría" + fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Actor | Sujeto | Acción | Afectados          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de inmutabilidad del libro                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/gastos-pro/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Exporter ──────────────────────────────────────────────────────────────────

// Asegura que MarotoAuditExporter implementa usecase.AuditPDFExporter.
var _ usecase.AuditPDFExporter = (*MarotoAuditExporter)(nil)

// MarotoAuditExporter implementa usecase.AuditPDFExporter usando Maroto v2.
type MarotoAuditExporter struct{}

// NewMarotoAuditExporter construye el exportador.
func NewMarotoAuditExporter() *MarotoAuditExporter { return &MarotoAuditExporter{} }

// ExportAuditTrail genera el PDF del trail y devuelve sus bytes.
func (g *MarotoAuditExporter) ExportAuditTrail(
	_ context.Context,
	companyName string,
	entries []usecase.AuditTrailRow,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Trail de auditoría", true).
		WithAuthor(companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(companyName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, e := range entries {
		m.AddRows(entryRow(e))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(entries)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y título + fecha de emisión (der).
func headerRow(companyName string) core.Row {
	emitida := time.Now().Format("02/01/2006 15:04")
	return row.New(16).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("TRAIL DE AUDITORÍA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+emitida, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de entradas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Actor", 3, align.Left),
		h("Sujeto", 3, align.Left),
		h("Acción", 3, align.Left),
		h("Afect.", 1, align.Center),
	)
}

// entryRow: una fila por entrada del libro.
func entryRow(e usecase.AuditTrailRow) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	affected := ""
	if e.AffectedUsers > 0 {
		affected = strconv.Itoa(e.AffectedUsers)
	}
	return row.New(6).Add(
		cell(e.When, 2, align.Left),
		cell(shorten(e.ActorID, 18), 3, align.Left),
		cell(shorten(e.SubjectUserID, 18), 3, align.Left),
		cell(e.Action, 3, align.Left),
		cell(affected, 1, align.Center),
	)
}

// footerRow: leyenda de inmutabilidad.
func footerRow(total int) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf(
			"%d entradas. El libro de auditoría es append-only: las entradas "+
				"se escriben en la misma transacción que el cambio que describen "+
				"y nunca se modifican ni se eliminan.", total,
		), props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// shorten recorta identificadores largos (UUIDs) para que quepan en la celda.
func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
