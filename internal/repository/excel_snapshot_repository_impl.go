package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"shelter-registry/internal/domain/entity"
	domainRepo "shelter-registry/internal/domain/repository"
	"shelter-registry/pkg/folio"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names, shared with workbooks written by the earlier desk application
const (
	SheetUsers   = "Usuarios"
	SheetPersons = "Personas"
	SheetSurveys = "Encuestas"
)

const (
	excelTimestampLayout = "2006-01-02 15:04:05"
	excelDateLayout      = "2006-01-02"

	kindLabelSponsor   = "Titular"
	kindLabelDependent = "Acompañante"
)

var userColumns = []string{"usuario", "pass", "rol"}

var personColumns = []string{
	"folio",
	"nombre",
	"identificacion",
	"edad",
	"fecha_nacimiento",
	"nacionalidad",
	"genero",
	"tipo",
	"tutor_folio",
	"fecha_ingreso",
	"num_acompanantes",
	"fecha_salida",
	"motivo_salida",
}

var surveyColumns = []string{
	"folio_persona",
	"estado_civil",
	"escolaridad",
	"ocupacion",
	"enfermedad_cronica",
	"estado_migratorio",
	"motivo_salida",
	"destino",
	"redes_apoyo",
	"observaciones",
}

// sheetData holds the raw rows of one worksheet, header included
type sheetData struct {
	name string
	rows [][]string
}

type excelSnapshotRepository struct {
	path string
	loc  *time.Location
	log  *logrus.Logger

	// Serializes file replacement within this process
	mu sync.RWMutex
}

// NewExcelSnapshotRepository opens the register workbook at path, creating it
// with empty Usuarios, Personas and Encuestas sheets when it does not exist.
//
// Every store rewrites the complete workbook into a temporary file in the same
// directory and renames it over path, so readers see either the old or the
// new workbook and a failed write leaves the old one in place.
func NewExcelSnapshotRepository(path string, loc *time.Location, log *logrus.Logger) (domainRepo.SnapshotRepository, error) {
	if loc == nil {
		loc = time.Local
	}
	r := &excelSnapshotRepository{path: path, loc: loc, log: log}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		sheets := []sheetData{
			{name: SheetUsers, rows: [][]string{userColumns}},
			{name: SheetPersons, rows: [][]string{personColumns}},
			{name: SheetSurveys, rows: [][]string{surveyColumns}},
		}
		if err := r.writeWorkbook(sheets); err != nil {
			return nil, fmt.Errorf("failed to create workbook %s: %w", path, err)
		}
		log.Infof("Created register workbook %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat workbook %s: %w", path, err)
	}

	return r, nil
}

func (r *excelSnapshotRepository) LoadPersons(ctx context.Context) ([]entity.Person, error) {
	records, err := r.readRecords(SheetPersons)
	if err != nil {
		return nil, err
	}

	persons := make([]entity.Person, 0, len(records))
	for _, rec := range records {
		persons = append(persons, r.recordToPerson(rec))
	}
	return persons, nil
}

func (r *excelSnapshotRepository) StorePersons(ctx context.Context, persons []entity.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(persons)+1)
	rows = append(rows, personColumns)
	for i := range persons {
		rows = append(rows, r.personToRow(&persons[i]))
	}
	return r.replaceSheet(SheetPersons, rows)
}

func (r *excelSnapshotRepository) LoadSurveys(ctx context.Context) ([]entity.Survey, error) {
	records, err := r.readRecords(SheetSurveys)
	if err != nil {
		return nil, err
	}

	surveys := make([]entity.Survey, 0, len(records))
	for _, rec := range records {
		surveys = append(surveys, entity.Survey{
			PersonFolio:      folio.Normalize(rec["folio_persona"]),
			MaritalStatus:    cleanCell(rec["estado_civil"]),
			EducationLevel:   cleanCell(rec["escolaridad"]),
			Occupation:       cleanCell(rec["ocupacion"]),
			ChronicIllness:   cleanCell(rec["enfermedad_cronica"]),
			MigratoryStatus:  cleanCell(rec["estado_migratorio"]),
			OriginExitReason: cleanCell(rec["motivo_salida"]),
			FinalDestination: cleanCell(rec["destino"]),
			SupportNetworks:  cleanCell(rec["redes_apoyo"]),
			Notes:            cleanCell(rec["observaciones"]),
		})
	}
	return surveys, nil
}

func (r *excelSnapshotRepository) StoreSurveys(ctx context.Context, surveys []entity.Survey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([][]string, 0, len(surveys)+1)
	rows = append(rows, surveyColumns)
	for _, s := range surveys {
		rows = append(rows, []string{
			s.PersonFolio,
			s.MaritalStatus,
			s.EducationLevel,
			s.Occupation,
			s.ChronicIllness,
			s.MigratoryStatus,
			s.OriginExitReason,
			s.FinalDestination,
			s.SupportNetworks,
			s.Notes,
		})
	}
	return r.replaceSheet(SheetSurveys, rows)
}

// readRecords returns the data rows of a sheet keyed by header name.
// A missing workbook or sheet reads as an empty table.
func (r *excelSnapshotRepository) readRecords(sheet string) ([]map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		r.log.Debugf("Sheet %s not found in %s, reading as empty", sheet, r.path)
		return nil, nil
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		blank := true
		for i, col := range header {
			if i < len(row) {
				rec[strings.TrimSpace(col)] = row[i]
				if strings.TrimSpace(row[i]) != "" {
					blank = false
				}
			}
		}
		if !blank {
			records = append(records, rec)
		}
	}
	return records, nil
}

// replaceSheet rewrites the workbook with sheet replaced by rows, keeping every other sheet as is
func (r *excelSnapshotRepository) replaceSheet(sheet string, rows [][]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sheets, err := r.readAllSheets()
	if err != nil {
		return err
	}

	replaced := false
	for i := range sheets {
		if sheets[i].name == sheet {
			sheets[i].rows = rows
			replaced = true
		}
	}
	if !replaced {
		sheets = append(sheets, sheetData{name: sheet, rows: rows})
	}

	if err := r.writeWorkbook(sheets); err != nil {
		r.log.Warnf("Failed to write sheet %s to %s: %+v", sheet, r.path, err)
		return err
	}

	r.log.Debugf("Stored sheet %s (%d rows) in %s", sheet, len(rows)-1, r.path)
	return nil
}

func (r *excelSnapshotRepository) readAllSheets() ([]sheetData, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	var sheets []sheetData
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		sheets = append(sheets, sheetData{name: name, rows: rows})
	}
	return sheets, nil
}

// writeWorkbook writes sheets to a temporary file and renames it over the workbook path
func (r *excelSnapshotRepository) writeWorkbook(sheets []sheetData) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.name, err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}

		for rowIdx, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("failed to convert coordinates: %w", err)
			}
			values := make([]interface{}, len(row))
			for i, v := range row {
				values[i] = v
			}
			if err := f.SetSheetRow(sheet.name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of sheet %s: %w", rowIdx+1, sheet.name, err)
			}
		}
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".register-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temporary workbook: %w", err)
	}
	tmpName := tmp.Name()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temporary workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temporary workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary workbook: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace workbook %s: %w", r.path, err)
	}
	return nil
}

func (r *excelSnapshotRepository) personToRow(p *entity.Person) []string {
	kind := kindLabelSponsor
	if p.IsDependent() {
		kind = kindLabelDependent
	}

	birthDate := ""
	if !p.BirthDate.IsZero() {
		birthDate = p.BirthDate.In(r.loc).Format(excelDateLayout)
	}

	admittedAt := ""
	if !p.AdmittedAt.IsZero() {
		admittedAt = p.AdmittedAt.In(r.loc).Format(excelTimestampLayout)
	}

	dischargedAt := ""
	if p.DischargedAt != nil {
		dischargedAt = p.DischargedAt.In(r.loc).Format(excelTimestampLayout)
	}

	return []string{
		p.Folio,
		p.Name,
		p.IdentificationDocument,
		strconv.Itoa(p.Age),
		birthDate,
		p.Nationality,
		p.Gender,
		kind,
		p.SponsorFolio,
		admittedAt,
		strconv.Itoa(p.DependentCapacity),
		dischargedAt,
		p.DischargeReason,
	}
}

func (r *excelSnapshotRepository) recordToPerson(rec map[string]string) entity.Person {
	kind := entity.PersonKindSponsor
	if strings.TrimSpace(rec["tipo"]) == kindLabelDependent {
		kind = entity.PersonKindDependent
	}

	p := entity.Person{
		Folio:                  folio.Normalize(rec["folio"]),
		Name:                   cleanCell(rec["nombre"]),
		IdentificationDocument: folio.Normalize(rec["identificacion"]),
		Nationality:            cleanCell(rec["nacionalidad"]),
		Gender:                 cleanCell(rec["genero"]),
		BirthDate:              r.parseCellTime(rec["fecha_nacimiento"]),
		Age:                    parseCount(rec["edad"]),
		Kind:                   kind,
		SponsorFolio:           folio.Normalize(rec["tutor_folio"]),
		AdmittedAt:             r.parseCellTime(rec["fecha_ingreso"]),
		DependentCapacity:      parseCount(rec["num_acompanantes"]),
		DischargeReason:        cleanCell(rec["motivo_salida"]),
	}

	// Any non-empty discharge cell means the person left, even if the date is unreadable
	if raw := cleanCell(rec["fecha_salida"]); raw != "" {
		t := r.parseCellTime(raw)
		p.DischargedAt = &t
	}
	return p
}

// parseCellTime reads timestamps written as text or as Excel date serials.
// Unreadable values yield the zero time.
func (r *excelSnapshotRepository) parseCellTime(raw string) time.Time {
	s := cleanCell(raw)
	if s == "" {
		return time.Time{}
	}

	for _, layout := range []string{excelTimestampLayout, "2006-01-02T15:04:05", excelDateLayout} {
		if len(s) >= len(layout) {
			if t, err := time.ParseInLocation(layout, s[:len(layout)], r.loc); err == nil {
				return t
			}
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, r.loc)
		}
	}

	r.log.Debugf("Unreadable timestamp cell %q", raw)
	return time.Time{}
}

// parseCount reads integer cells, including float renderings such as "2.0".
// Unreadable values count as 0.
func parseCount(raw string) int {
	s := folio.Normalize(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// cleanCell trims a text cell and blanks null markers
func cleanCell(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
