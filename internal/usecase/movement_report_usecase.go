package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"shelter-registry/internal/converter"
	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/domain/entity"
	"shelter-registry/internal/domain/repository"
	"shelter-registry/pkg/folio"

	"github.com/sirupsen/logrus"
)

var (
	ErrRulesRequireAdult       = errors.New("rules agreement is only issued to adult residents")
	ErrNotifierNotConfigured   = errors.New("mail credentials are not configured")
	ErrNotificationFailed      = errors.New("failed to deliver report")
	ErrInvalidPopulationFilter = errors.New("filter must be one of active, discharged, all")
)

const (
	ReportAttachmentName = "Reporte_Movimientos.pdf"
	reportSubjectPrefix  = "Reporte Albergue - "
	reportBody           = "Reporte detallado de Altas y Bajas (Diario y Mensual)."

	// Label for people whose survey has no marital status
	StatisticsNoRecord = "Sin Registro"
)

// DocumentGenerator renders the documents the shelter hands out or archives
type DocumentGenerator interface {
	MovementReport(daily, monthly []entity.MovementRow) ([]byte, error)
	RulesAgreement(name string, admittedAt time.Time) ([]byte, error)
	RegisterWorkbook(persons []entity.Person) ([]byte, error)
}

// Attachment is a named file sent along with a notification
type Attachment struct {
	Name    string
	Content []byte
}

// Notifier delivers a message with one attachment. Delivery is best effort.
type Notifier interface {
	Configured() bool
	Send(ctx context.Context, recipients []string, subject, body string, attachment Attachment) error
}

type MovementReportUsecase interface {
	Movements(ctx context.Context) (*dto.MovementReportResponse, error)
	MovementReportPDF(ctx context.Context) ([]byte, error)
	EmailMovementReport(ctx context.Context, recipients string) (*dto.EmailReportResponse, error)
	Statistics(ctx context.Context, filter string) (*dto.StatisticsResponse, error)
	RulesAgreementPDF(ctx context.Context, personFolio string) ([]byte, error)
	RegisterExportXLSX(ctx context.Context) ([]byte, error)
}

type movementReportUsecase struct {
	log       *logrus.Logger
	repo      repository.SnapshotRepository
	documents DocumentGenerator
	notifier  Notifier
	now       func() time.Time
}

func NewMovementReportUsecase(
	log *logrus.Logger,
	repo repository.SnapshotRepository,
	documents DocumentGenerator,
	notifier Notifier,
	now func() time.Time,
) MovementReportUsecase {
	if now == nil {
		now = time.Now
	}
	return &movementReportUsecase{
		log:       log,
		repo:      repo,
		documents: documents,
		notifier:  notifier,
		now:       now,
	}
}

func (u *movementReportUsecase) Movements(ctx context.Context) (*dto.MovementReportResponse, error) {
	persons, err := u.loadPersons(ctx)
	if err != nil {
		return nil, err
	}

	daily, monthly := AggregateMovements(persons, u.now().Location())
	return &dto.MovementReportResponse{
		Daily:   converter.MovementRowsToResponses(daily),
		Monthly: converter.MovementRowsToResponses(monthly),
	}, nil
}

func (u *movementReportUsecase) MovementReportPDF(ctx context.Context) ([]byte, error) {
	persons, err := u.loadPersons(ctx)
	if err != nil {
		return nil, err
	}

	daily, monthly := AggregateMovements(persons, u.now().Location())
	pdf, err := u.documents.MovementReport(daily, monthly)
	if err != nil {
		u.log.Warnf("Failed to render movement report: %+v", err)
		return nil, err
	}
	return pdf, nil
}

func (u *movementReportUsecase) EmailMovementReport(ctx context.Context, recipients string) (*dto.EmailReportResponse, error) {
	var list []string
	for _, r := range strings.Split(recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			list = append(list, r)
		}
	}
	if len(list) == 0 {
		return nil, newValidationError("at least one recipient is required")
	}

	if u.notifier == nil || !u.notifier.Configured() {
		return nil, ErrNotifierNotConfigured
	}

	pdf, err := u.MovementReportPDF(ctx)
	if err != nil {
		return nil, err
	}

	subject := reportSubjectPrefix + u.now().Format(entity.MovementDayLayout)
	attachment := Attachment{Name: ReportAttachmentName, Content: pdf}
	if err := u.notifier.Send(ctx, list, subject, reportBody, attachment); err != nil {
		u.log.Warnf("Failed to send movement report to %d recipients: %+v", len(list), err)
		return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	u.log.Infof("Sent movement report to %d recipients", len(list))
	return &dto.EmailReportResponse{
		Sent:    true,
		Message: fmt.Sprintf("Reporte enviado a %d destinatarios.", len(list)),
	}, nil
}

func (u *movementReportUsecase) Statistics(ctx context.Context, filter string) (*dto.StatisticsResponse, error) {
	population := entity.PopulationFilter(strings.TrimSpace(filter))
	switch population {
	case "":
		population = entity.PopulationAll
	case entity.PopulationActive, entity.PopulationDischarged, entity.PopulationAll:
	default:
		return nil, newValidationError(ErrInvalidPopulationFilter.Error())
	}

	persons, err := u.loadPersons(ctx)
	if err != nil {
		return nil, err
	}
	surveys, err := u.repo.LoadSurveys(ctx)
	if err != nil {
		u.log.Warnf("Failed to load surveys: %+v", err)
		return nil, &PersistenceError{Op: "load surveys", Err: err}
	}

	resp := &dto.StatisticsResponse{
		Filter:          string(population),
		ByNationality:   make(map[string]int),
		ByMaritalStatus: make(map[string]int),
	}

	for i := range persons {
		p := &persons[i]
		if !population.Matches(p) {
			continue
		}
		resp.Total++

		if p.Nationality != "" {
			resp.ByNationality[p.Nationality]++
		}

		// Only people with a survey take part in the marital status breakdown
		if s := findSurvey(surveys, p.Folio); s != nil {
			status := s.MaritalStatus
			if status == "" {
				status = StatisticsNoRecord
			}
			resp.ByMaritalStatus[status]++
		}
	}

	return resp, nil
}

func (u *movementReportUsecase) RulesAgreementPDF(ctx context.Context, personFolio string) ([]byte, error) {
	persons, err := u.loadPersons(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOfPerson(persons, folio.Normalize(personFolio))
	if idx < 0 {
		return nil, ErrPersonNotFound
	}
	p := persons[idx]
	if p.Age < entity.AdultAge {
		return nil, ErrRulesRequireAdult
	}

	pdf, err := u.documents.RulesAgreement(p.Name, p.AdmittedAt)
	if err != nil {
		u.log.Warnf("Failed to render rules agreement for %s: %+v", p.Folio, err)
		return nil, err
	}
	return pdf, nil
}

func (u *movementReportUsecase) RegisterExportXLSX(ctx context.Context) ([]byte, error) {
	persons, err := u.loadPersons(ctx)
	if err != nil {
		return nil, err
	}

	workbook, err := u.documents.RegisterWorkbook(persons)
	if err != nil {
		u.log.Warnf("Failed to render register workbook: %+v", err)
		return nil, err
	}
	return workbook, nil
}

func (u *movementReportUsecase) loadPersons(ctx context.Context) ([]entity.Person, error) {
	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}
	return persons, nil
}

// AggregateMovements counts admissions and discharges per day and per month.
// Both tables hold the union of period keys in ascending order, missing counts being 0.
// Timestamps are bucketed by their calendar date in loc, or in their own zone when loc is nil.
// Zero timestamps, as read from unparseable cells, are left out.
func AggregateMovements(persons []entity.Person, loc *time.Location) (daily, monthly []entity.MovementRow) {
	dayCounts := make(map[string]*entity.MovementRow)
	monthCounts := make(map[string]*entity.MovementRow)

	bump := func(counts map[string]*entity.MovementRow, key string, discharge bool) {
		row, ok := counts[key]
		if !ok {
			row = &entity.MovementRow{Period: key}
			counts[key] = row
		}
		if discharge {
			row.Discharges++
		} else {
			row.Admissions++
		}
	}

	local := func(t time.Time) time.Time {
		if loc == nil {
			return t
		}
		return t.In(loc)
	}

	for i := range persons {
		p := &persons[i]
		if !p.AdmittedAt.IsZero() {
			admitted := local(p.AdmittedAt)
			bump(dayCounts, admitted.Format(entity.MovementDayLayout), false)
			bump(monthCounts, admitted.Format(entity.MovementMonthLayout), false)
		}
		if p.DischargedAt != nil && !p.DischargedAt.IsZero() {
			discharged := local(*p.DischargedAt)
			bump(dayCounts, discharged.Format(entity.MovementDayLayout), true)
			bump(monthCounts, discharged.Format(entity.MovementMonthLayout), true)
		}
	}

	return sortedRows(dayCounts), sortedRows(monthCounts)
}

func sortedRows(counts map[string]*entity.MovementRow) []entity.MovementRow {
	rows := make([]entity.MovementRow, 0, len(counts))
	for _, row := range counts {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Period < rows[j].Period
	})
	return rows
}
