package converter

import (
	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/domain/entity"
)

// PersonToResponse converts a Person entity to PersonResponse DTO
func PersonToResponse(person *entity.Person) *dto.PersonResponse {
	if person == nil {
		return nil
	}

	birthDate := ""
	if !person.BirthDate.IsZero() {
		birthDate = person.BirthDate.Format(dto.DateLayout)
	}

	return &dto.PersonResponse{
		Folio:                  person.Folio,
		Name:                   person.Name,
		IdentificationDocument: person.IdentificationDocument,
		Nationality:            person.Nationality,
		Gender:                 person.Gender,
		BirthDate:              birthDate,
		Age:                    person.Age,
		Kind:                   string(person.Kind),
		SponsorFolio:           person.SponsorFolio,
		AdmittedAt:             person.AdmittedAt,
		DependentCapacity:      person.DependentCapacity,
		Active:                 person.IsActive(),
		DischargedAt:           person.DischargedAt,
		DischargeReason:        person.DischargeReason,
	}
}

// PersonsToResponses converts a slice of Person entities to slice of PersonResponse DTOs
func PersonsToResponses(persons []entity.Person) []dto.PersonResponse {
	responses := make([]dto.PersonResponse, len(persons))
	for i := range persons {
		responses[i] = *PersonToResponse(&persons[i])
	}
	return responses
}
