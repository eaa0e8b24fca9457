package usecase

import (
	"context"
	"errors"
	"strings"

	"shelter-registry/internal/converter"
	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/domain/entity"
	"shelter-registry/internal/domain/repository"
	"shelter-registry/internal/service"
	"shelter-registry/pkg/folio"

	"github.com/sirupsen/logrus"
)

var (
	ErrSurveyPersonNotFound = errors.New("no person registered with that folio")
	ErrSurveyNotFound       = errors.New("survey not found")
)

type SurveyUsecase interface {
	Upsert(ctx context.Context, personFolio string, req *dto.UpsertSurveyRequest) (*dto.SurveyResponse, error)
	Get(ctx context.Context, personFolio string) (*dto.SurveyResponse, error)
}

type surveyUsecase struct {
	log    *logrus.Logger
	repo   repository.SnapshotRepository
	locker service.SnapshotLocker
	audit  service.AuditService
}

func NewSurveyUsecase(
	log *logrus.Logger,
	repo repository.SnapshotRepository,
	locker service.SnapshotLocker,
	audit service.AuditService,
) SurveyUsecase {
	return &surveyUsecase{log: log, repo: repo, locker: locker, audit: audit}
}

func (u *surveyUsecase) Upsert(ctx context.Context, personFolio string, req *dto.UpsertSurveyRequest) (*dto.SurveyResponse, error) {
	target := folio.Normalize(personFolio)
	survey := converter.SurveyRequestToEntity(target, req)
	normalizeSurvey(&survey)

	var violations []string
	if !entity.IsOption(survey.MaritalStatus, entity.MaritalStatuses) {
		violations = append(violations, "marital_status must be one of: "+strings.Join(entity.MaritalStatuses, ", "))
	}
	if !entity.IsOption(survey.EducationLevel, entity.EducationLevels) {
		violations = append(violations, "education_level must be one of: "+strings.Join(entity.EducationLevels, ", "))
	}
	if !entity.IsOption(survey.MigratoryStatus, entity.MigratoryStatuses) {
		violations = append(violations, "migratory_status must be one of: "+strings.Join(entity.MigratoryStatuses, ", "))
	}
	if len(violations) > 0 {
		return nil, newValidationError(violations...)
	}

	unlock, err := u.locker.Lock(ctx)
	if err != nil {
		u.log.Warnf("Failed to lock register for survey: %+v", err)
		return nil, &PersistenceError{Op: "lock register", Err: err}
	}
	defer unlock()

	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}
	if indexOfPerson(persons, target) < 0 {
		return nil, ErrSurveyPersonNotFound
	}

	surveys, err := u.repo.LoadSurveys(ctx)
	if err != nil {
		u.log.Warnf("Failed to load surveys: %+v", err)
		return nil, &PersistenceError{Op: "load surveys", Err: err}
	}

	var previous *dto.SurveyResponse
	kept := make([]entity.Survey, 0, len(surveys)+1)
	for i := range surveys {
		if folio.Equal(surveys[i].PersonFolio, target) {
			previous = converter.SurveyToResponse(&surveys[i])
			continue
		}
		kept = append(kept, surveys[i])
	}
	kept = append(kept, survey)

	if err := u.repo.StoreSurveys(ctx, kept); err != nil {
		u.log.Warnf("Failed to store surveys: %+v", err)
		return nil, &PersistenceError{Op: "store surveys", Err: err}
	}

	resp := converter.SurveyToResponse(&survey)
	if previous == nil {
		u.audit.LogCreate(ctx, entity.AuditActionSurveyUpsert, target, resp)
	} else {
		u.audit.LogUpdate(ctx, entity.AuditActionSurveyUpsert, target, previous, resp)
	}
	u.log.Infof("Saved survey for %s", target)
	return resp, nil
}

func (u *surveyUsecase) Get(ctx context.Context, personFolio string) (*dto.SurveyResponse, error) {
	surveys, err := u.repo.LoadSurveys(ctx)
	if err != nil {
		u.log.Warnf("Failed to load surveys: %+v", err)
		return nil, &PersistenceError{Op: "load surveys", Err: err}
	}

	if s := findSurvey(surveys, personFolio); s != nil {
		return converter.SurveyToResponse(s), nil
	}
	return nil, ErrSurveyNotFound
}

func findSurvey(surveys []entity.Survey, personFolio string) *entity.Survey {
	target := folio.Normalize(personFolio)
	if target == "" {
		return nil
	}
	for i := range surveys {
		if folio.Equal(surveys[i].PersonFolio, target) {
			return &surveys[i]
		}
	}
	return nil
}

// normalizeSurvey trims every answer and fills the free-text ones left empty with N/A
func normalizeSurvey(s *entity.Survey) {
	for _, field := range []*string{
		&s.MaritalStatus,
		&s.EducationLevel,
		&s.Occupation,
		&s.ChronicIllness,
		&s.MigratoryStatus,
		&s.OriginExitReason,
		&s.FinalDestination,
		&s.SupportNetworks,
		&s.Notes,
	} {
		*field = strings.TrimSpace(*field)
	}

	if s.SupportNetworks == "" {
		s.SupportNetworks = entity.SurveyNotApplicable
	}
	if s.Notes == "" {
		s.Notes = entity.SurveyNotApplicable
	}
}
