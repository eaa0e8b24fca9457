package dto

import (
	"time"
)

// Date layout used for birth dates in requests and responses
const DateLayout = "2006-01-02"

// Request DTOs

// AdmitPersonRequest is checked by the registry as a whole so every
// violation is reported together
type AdmitPersonRequest struct {
	Name                   string `json:"name"`
	IdentificationDocument string `json:"identification_document"`
	Nationality            string `json:"nationality"`
	Gender                 string `json:"gender"`
	BirthDate              string `json:"birth_date"`
	Kind                   string `json:"kind"`
	SponsorFolio           string `json:"sponsor_folio"`
	DependentCapacity      int    `json:"dependent_capacity"`
}

type DischargePersonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Response DTOs

type PersonResponse struct {
	Folio                  string     `json:"folio"`
	Name                   string     `json:"name"`
	IdentificationDocument string     `json:"identification_document"`
	Nationality            string     `json:"nationality"`
	Gender                 string     `json:"gender"`
	BirthDate              string     `json:"birth_date"`
	Age                    int        `json:"age"`
	Kind                   string     `json:"kind"`
	SponsorFolio           string     `json:"sponsor_folio,omitempty"`
	AdmittedAt             time.Time  `json:"admitted_at"`
	DependentCapacity      int        `json:"dependent_capacity"`
	Active                 bool       `json:"active"`
	DischargedAt           *time.Time `json:"discharged_at,omitempty"`
	DischargeReason        string     `json:"discharge_reason,omitempty"`
}

type PersonListResponse struct {
	Persons []PersonResponse `json:"persons"`
	Total   int              `json:"total"`
}

type DischargePersonResponse struct {
	Folios []string `json:"folios"`
}
