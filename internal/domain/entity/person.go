package entity

import (
	"time"
)

// PersonKind distinguishes sponsors (Titular) from their dependents (Acompañante)
type PersonKind string

const (
	PersonKindSponsor   PersonKind = "sponsor"
	PersonKindDependent PersonKind = "dependent"
)

// AdultAge is the age from which a person may be admitted as a sponsor
const AdultAge = 18

// Person represents one admitted individual of the shelter register
type Person struct {
	Folio                  string     `json:"folio"`
	Name                   string     `json:"name"`
	IdentificationDocument string     `json:"identification_document"`
	Nationality            string     `json:"nationality"`
	Gender                 string     `json:"gender"`
	BirthDate              time.Time  `json:"birth_date"`
	Age                    int        `json:"age"`
	Kind                   PersonKind `json:"kind"`
	SponsorFolio           string     `json:"sponsor_folio,omitempty"`
	AdmittedAt             time.Time  `json:"admitted_at"`
	DependentCapacity      int        `json:"dependent_capacity"`
	DischargedAt           *time.Time `json:"discharged_at,omitempty"`
	DischargeReason        string     `json:"discharge_reason,omitempty"`
}

// IsSponsor checks if the person anchors a family group
func (p *Person) IsSponsor() bool {
	return p.Kind == PersonKindSponsor
}

// IsDependent checks if the person is linked to a sponsor
func (p *Person) IsDependent() bool {
	return p.Kind == PersonKindDependent
}

// IsActive checks if the person is still present in the shelter
func (p *Person) IsActive() bool {
	return p.DischargedAt == nil
}

// Discharge marks the person as no longer present.
// Callers must check IsActive first; discharge is never undone.
func (p *Person) Discharge(at time.Time, reason string) {
	t := at
	p.DischargedAt = &t
	p.DischargeReason = reason
}

// AgeAt returns the number of whole years between birthDate and at
func AgeAt(birthDate, at time.Time) int {
	if birthDate.IsZero() || at.Before(birthDate) {
		return 0
	}

	age := at.Year() - birthDate.Year()
	if at.Month() < birthDate.Month() || (at.Month() == birthDate.Month() && at.Day() < birthDate.Day()) {
		age--
	}
	return age
}
