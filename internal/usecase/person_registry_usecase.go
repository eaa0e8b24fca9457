package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"shelter-registry/internal/converter"
	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/domain/entity"
	"shelter-registry/internal/domain/repository"
	"shelter-registry/internal/service"
	"shelter-registry/pkg/folio"

	"github.com/sirupsen/logrus"
)

var (
	ErrPersonNotFound    = errors.New("person not found")
	ErrAlreadyDischarged = errors.New("person already discharged")
)

// Field keys accepted by UpdateFields
const (
	FieldName                   = "name"
	FieldIdentificationDocument = "identification_document"
	FieldNationality            = "nationality"
	FieldGender                 = "gender"
	FieldBirthDate              = "birth_date"
	FieldAge                    = "age"
	FieldDependentCapacity      = "dependent_capacity"
)

type PersonRegistryUsecase interface {
	Admit(ctx context.Context, req *dto.AdmitPersonRequest) (*dto.PersonResponse, error)
	UpdateFields(ctx context.Context, personFolio string, fields map[string]any) (*dto.PersonResponse, error)
	Discharge(ctx context.Context, personFolio, reason string) ([]string, error)
	ListActive(ctx context.Context) ([]dto.PersonResponse, error)
	ListAll(ctx context.Context) ([]dto.PersonResponse, error)
	Get(ctx context.Context, personFolio string) (*dto.PersonResponse, error)
}

type personRegistryUsecase struct {
	log    *logrus.Logger
	repo   repository.SnapshotRepository
	locker service.SnapshotLocker
	folios *service.FolioGenerator
	audit  service.AuditService
	now    func() time.Time
}

func NewPersonRegistryUsecase(
	log *logrus.Logger,
	repo repository.SnapshotRepository,
	locker service.SnapshotLocker,
	folios *service.FolioGenerator,
	audit service.AuditService,
	now func() time.Time,
) PersonRegistryUsecase {
	if now == nil {
		now = time.Now
	}
	return &personRegistryUsecase{
		log:    log,
		repo:   repo,
		locker: locker,
		folios: folios,
		audit:  audit,
		now:    now,
	}
}

func (u *personRegistryUsecase) Admit(ctx context.Context, req *dto.AdmitPersonRequest) (*dto.PersonResponse, error) {
	now := u.now()

	var violations []string
	name := strings.TrimSpace(req.Name)
	if name == "" {
		violations = append(violations, "name is required")
	}

	var birthDate time.Time
	if strings.TrimSpace(req.BirthDate) == "" {
		violations = append(violations, "birth_date is required")
	} else if parsed, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(req.BirthDate), now.Location()); err != nil {
		violations = append(violations, "birth_date must use YYYY-MM-DD")
	} else if parsed.After(now) {
		violations = append(violations, "birth_date cannot be in the future")
	} else {
		birthDate = parsed
	}

	if req.DependentCapacity < 0 {
		violations = append(violations, "dependent_capacity must be zero or greater")
	}

	kind := entity.PersonKindSponsor
	switch entity.PersonKind(strings.TrimSpace(req.Kind)) {
	case "", entity.PersonKindSponsor:
	case entity.PersonKindDependent:
		kind = entity.PersonKindDependent
	default:
		violations = append(violations, "kind must be sponsor or dependent")
	}

	age := entity.AgeAt(birthDate, now)
	if !birthDate.IsZero() && age < entity.AdultAge {
		kind = entity.PersonKindDependent
	}

	sponsorFolio := folio.Normalize(req.SponsorFolio)
	if kind == entity.PersonKindDependent && sponsorFolio == "" {
		violations = append(violations, "sponsor_folio is required for dependents")
	}

	if len(violations) > 0 {
		return nil, newValidationError(violations...)
	}

	unlock, err := u.locker.Lock(ctx)
	if err != nil {
		u.log.Warnf("Failed to lock register for admission: %+v", err)
		return nil, &PersistenceError{Op: "lock register", Err: err}
	}
	defer unlock()

	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}

	assigned, err := u.folios.Next(persons, kind, sponsorFolio)
	if err != nil {
		u.log.Warnf("Failed to assign folio: %+v", err)
		return nil, err
	}

	person := entity.Person{
		Folio:                  assigned,
		Name:                   name,
		IdentificationDocument: strings.TrimSpace(req.IdentificationDocument),
		Nationality:            strings.TrimSpace(req.Nationality),
		Gender:                 strings.TrimSpace(req.Gender),
		BirthDate:              birthDate,
		Age:                    age,
		Kind:                   kind,
		AdmittedAt:             now,
		DependentCapacity:      req.DependentCapacity,
	}
	if kind == entity.PersonKindDependent {
		person.SponsorFolio = sponsorFolio
		person.DependentCapacity = 0
	}

	persons = append(persons, person)
	if err := u.repo.StorePersons(ctx, persons); err != nil {
		u.log.Warnf("Failed to store persons: %+v", err)
		return nil, &PersistenceError{Op: "store persons", Err: err}
	}

	resp := converter.PersonToResponse(&person)
	u.audit.LogCreate(ctx, entity.AuditActionPersonAdmit, person.Folio, resp)
	u.log.Infof("Admitted %s %s", person.Kind, person.Folio)
	return resp, nil
}

func (u *personRegistryUsecase) UpdateFields(ctx context.Context, personFolio string, fields map[string]any) (*dto.PersonResponse, error) {
	target := folio.Normalize(personFolio)

	unlock, err := u.locker.Lock(ctx)
	if err != nil {
		u.log.Warnf("Failed to lock register for update: %+v", err)
		return nil, &PersistenceError{Op: "lock register", Err: err}
	}
	defer unlock()

	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}

	idx := indexOfPerson(persons, target)
	if idx < 0 {
		return nil, ErrPersonNotFound
	}

	updated := persons[idx]
	var violations []string

	for key, value := range fields {
		switch key {
		case FieldName:
			s, ok := textValue(value)
			if !ok || strings.TrimSpace(s) == "" {
				violations = append(violations, "name must be a non-empty text")
				continue
			}
			updated.Name = strings.TrimSpace(s)

		case FieldIdentificationDocument, FieldNationality, FieldGender:
			s, ok := textValue(value)
			if !ok {
				violations = append(violations, fmt.Sprintf("%s must be text", key))
				continue
			}
			s = strings.TrimSpace(s)
			switch key {
			case FieldIdentificationDocument:
				updated.IdentificationDocument = s
			case FieldNationality:
				updated.Nationality = s
			default:
				updated.Gender = s
			}

		case FieldBirthDate:
			s, ok := value.(string)
			if !ok {
				violations = append(violations, "birth_date must use YYYY-MM-DD")
				continue
			}
			parsed, err := time.ParseInLocation(dto.DateLayout, strings.TrimSpace(s), u.now().Location())
			if err != nil {
				violations = append(violations, "birth_date must use YYYY-MM-DD")
				continue
			}
			updated.BirthDate = parsed

		case FieldAge:
			n, ok := intValue(value)
			if !ok || n < 0 {
				violations = append(violations, "age must be a whole number, zero or greater")
				continue
			}
			updated.Age = n

		case FieldDependentCapacity:
			if !updated.IsSponsor() {
				violations = append(violations, "dependent_capacity applies to sponsors only")
				continue
			}
			n, ok := intValue(value)
			if !ok || n < 0 {
				violations = append(violations, "dependent_capacity must be a whole number, zero or greater")
				continue
			}
			if current := service.CountDependents(persons, updated.Folio); n < current {
				violations = append(violations, fmt.Sprintf("dependent_capacity cannot be lower than the %d dependents already registered", current))
				continue
			}
			updated.DependentCapacity = n

		default:
			u.log.Debugf("Ignoring non-editable field %s for %s", key, target)
		}
	}

	if len(violations) > 0 {
		return nil, newValidationError(violations...)
	}

	previous := converter.PersonToResponse(&persons[idx])
	persons[idx] = updated
	if err := u.repo.StorePersons(ctx, persons); err != nil {
		u.log.Warnf("Failed to store persons: %+v", err)
		return nil, &PersistenceError{Op: "store persons", Err: err}
	}

	resp := converter.PersonToResponse(&updated)
	u.audit.LogUpdate(ctx, entity.AuditActionPersonUpdate, updated.Folio, previous, resp)
	u.log.Infof("Updated person %s", updated.Folio)
	return resp, nil
}

func (u *personRegistryUsecase) Discharge(ctx context.Context, personFolio, reason string) ([]string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, newValidationError("reason is required")
	}
	target := folio.Normalize(personFolio)

	unlock, err := u.locker.Lock(ctx)
	if err != nil {
		u.log.Warnf("Failed to lock register for discharge: %+v", err)
		return nil, &PersistenceError{Op: "lock register", Err: err}
	}
	defer unlock()

	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}

	idx := indexOfPerson(persons, target)
	if idx < 0 {
		return nil, ErrPersonNotFound
	}
	if !persons[idx].IsActive() {
		return nil, ErrAlreadyDischarged
	}

	now := u.now()
	persons[idx].Discharge(now, reason)
	discharged := []string{persons[idx].Folio}

	if persons[idx].IsSponsor() {
		for i := range persons {
			p := &persons[i]
			if i == idx || !p.IsActive() || !folio.Equal(p.SponsorFolio, persons[idx].Folio) {
				continue
			}
			p.Discharge(now, reason)
			discharged = append(discharged, p.Folio)
		}
	}

	if err := u.repo.StorePersons(ctx, persons); err != nil {
		u.log.Warnf("Failed to store persons: %+v", err)
		return nil, &PersistenceError{Op: "store persons", Err: err}
	}

	for _, f := range discharged {
		u.audit.LogUpdate(ctx, entity.AuditActionPersonDischarge, f, nil, map[string]interface{}{
			"discharged_at":    now,
			"discharge_reason": reason,
		})
	}
	u.log.Infof("Discharged %v: %s", discharged, reason)
	return discharged, nil
}

func (u *personRegistryUsecase) ListActive(ctx context.Context) ([]dto.PersonResponse, error) {
	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}

	active := make([]entity.Person, 0, len(persons))
	for _, p := range persons {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return converter.PersonsToResponses(active), nil
}

func (u *personRegistryUsecase) ListAll(ctx context.Context) ([]dto.PersonResponse, error) {
	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}
	return converter.PersonsToResponses(persons), nil
}

func (u *personRegistryUsecase) Get(ctx context.Context, personFolio string) (*dto.PersonResponse, error) {
	persons, err := u.repo.LoadPersons(ctx)
	if err != nil {
		u.log.Warnf("Failed to load persons: %+v", err)
		return nil, &PersistenceError{Op: "load persons", Err: err}
	}

	idx := indexOfPerson(persons, folio.Normalize(personFolio))
	if idx < 0 {
		return nil, ErrPersonNotFound
	}
	return converter.PersonToResponse(&persons[idx]), nil
}

// indexOfPerson returns the position of the person whose normalized folio is target, or -1
func indexOfPerson(persons []entity.Person, target string) int {
	if target == "" {
		return -1
	}
	for i := range persons {
		if folio.Equal(persons[i].Folio, target) {
			return i
		}
	}
	return -1
}

// textValue accepts JSON strings and numbers, since document ids often arrive as numbers
func textValue(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64, json.Number, int, int64:
		return folio.Normalize(val), true
	default:
		return "", false
	}
}

func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
		return int(val), true
	case json.Number:
		n, err := val.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		return n, err == nil
	default:
		return 0, false
	}
}
