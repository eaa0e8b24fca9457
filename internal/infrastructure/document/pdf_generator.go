package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shelter-registry/internal/domain/entity"

	"github.com/go-pdf/fpdf"
)

const (
	reportTimestampLayout = "2006-01-02 15:04:05"
	admissionDateLayout   = "2006-01-02"
)

// Rules a resident signs on admission
var shelterRules = []string{
	"1. Respeto: Tratar con dignidad a todos los presentes.",
	"2. Limpieza: Mantener limpias las áreas comunes.",
	"3. Horarios: Respetar horas de silencio y salidas.",
	"4. Seguridad: Cuidar sus pertenencias personales.",
	"5. Convivencia: Resolver conflictos pacíficamente.",
}

// Generator renders shelter documents: PDFs with fpdf and the register workbook with excelize
type Generator struct {
	shelterName string
	loc         *time.Location
	now         func() time.Time
}

func NewGenerator(shelterName string, loc *time.Location, now func() time.Time) *Generator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{shelterName: shelterName, loc: loc, now: now}
}

// MovementReport renders the daily and monthly Altas/Bajas tables
func (g *Generator) MovementReport(daily, monthly []entity.MovementRow) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Reporte de Movimientos - "+g.shelterName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 10, "Generado el: "+g.now().In(g.loc).Format(reportTimestampLayout), "", 1, "R", false, 0, "")
	pdf.Ln(10)

	g.movementTable(pdf, tr, "1. Movimientos Diarios (Altas y Bajas)", "Fecha", daily, "No hay movimientos registrados.")
	pdf.Ln(10)
	g.movementTable(pdf, tr, "2. Movimientos Mensuales", "Mes", monthly, "No hay movimientos mensuales.")

	return output(pdf)
}

func (g *Generator) movementTable(pdf *fpdf.Fpdf, tr func(string) string, title, periodHeader string, rows []entity.MovementRow, empty string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, tr(title), "", 1, "", false, 0, "")

	pdf.SetFont("Courier", "B", 10)
	pdf.CellFormat(60, 8, periodHeader, "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Altas", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Bajas", "1", 1, "", false, 0, "")

	pdf.SetFont("Courier", "", 10)
	if len(rows) == 0 {
		pdf.CellFormat(0, 8, tr(empty), "1", 1, "", false, 0, "")
		return
	}
	for _, row := range rows {
		pdf.CellFormat(60, 8, row.Period, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 8, strconv.Itoa(row.Admissions), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 8, strconv.Itoa(row.Discharges), "1", 1, "", false, 0, "")
	}
}

// RulesAgreement renders the house rules with a signature line for name
func (g *Generator) RulesAgreement(name string, admittedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	admitted := admittedAt
	if admitted.IsZero() {
		admitted = g.now()
	}

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 10, tr("REGLAMENTO DEL "+strings.ToUpper(g.shelterName)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, "Fecha de Ingreso: "+admitted.In(g.loc).Format(admissionDateLayout), "", 1, "R", false, 0, "")
	pdf.Ln(20)

	body := "REGLAMENTO INTERNO\n\n" + strings.Join(shelterRules, "\n") +
		"\n\nAl firmar hago constar que he leído y acepto estas normas."
	pdf.MultiCell(0, 10, tr(body), "", "", false)
	pdf.Ln(50)

	pdf.CellFormat(0, 10, strings.Repeat("_", 40), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 10, tr("Firma: "+name), "", 1, "C", false, 0, "")

	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
