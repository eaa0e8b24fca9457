package document

import (
	"bytes"
	"fmt"

	"shelter-registry/internal/domain/entity"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Registro"

var registerHeaders = []string{
	"Folio",
	"Nombre",
	"Identificación",
	"Edad",
	"Fecha de nacimiento",
	"Nacionalidad",
	"Género",
	"Tipo",
	"Folio titular",
	"Fecha de ingreso",
	"Acompañantes",
	"Fecha de salida",
	"Motivo de salida",
}

var registerColumnWidths = []float64{12, 30, 18, 8, 18, 16, 12, 14, 14, 20, 14, 20, 30}

// RegisterWorkbook exports the person table as a styled workbook with a frozen header
func (g *Generator) RegisterWorkbook(persons []entity.Person) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range registerHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(registerSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(registerSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(registerSheet, name, name, registerColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i := range persons {
		row := g.registerRow(&persons[i])
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(registerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func (g *Generator) registerRow(p *entity.Person) []interface{} {
	kind := "Titular"
	if p.IsDependent() {
		kind = "Acompañante"
	}

	birthDate := ""
	if !p.BirthDate.IsZero() {
		birthDate = p.BirthDate.Format(admissionDateLayout)
	}
	admittedAt := ""
	if !p.AdmittedAt.IsZero() {
		admittedAt = p.AdmittedAt.In(g.loc).Format(reportTimestampLayout)
	}
	dischargedAt := ""
	if p.DischargedAt != nil && !p.DischargedAt.IsZero() {
		dischargedAt = p.DischargedAt.In(g.loc).Format(reportTimestampLayout)
	}

	return []interface{}{
		p.Folio,
		p.Name,
		p.IdentificationDocument,
		p.Age,
		birthDate,
		p.Nationality,
		p.Gender,
		kind,
		p.SponsorFolio,
		admittedAt,
		p.DependentCapacity,
		dischargedAt,
		p.DischargeReason,
	}
}
