package handler

import (
	"shelter-registry/internal/domain/entity"
	"shelter-registry/pkg/validator"
)

// NewRequestValidator returns the validator shared by the handlers, with the
// survey option tags registered against the catalogue lists.
func NewRequestValidator() (*validator.CustomValidator, error) {
	v := validator.NewValidator()

	options := map[string][]string{
		"marital_status":   entity.MaritalStatuses,
		"education_level":  entity.EducationLevels,
		"migratory_status": entity.MigratoryStatuses,
	}
	for tag, list := range options {
		if err := v.RegisterOptions(tag, list); err != nil {
			return nil, err
		}
	}

	return v, nil
}
