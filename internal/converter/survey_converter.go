package converter

import (
	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/domain/entity"
)

func SurveyToResponse(survey *entity.Survey) *dto.SurveyResponse {
	if survey == nil {
		return nil
	}

	return &dto.SurveyResponse{
		PersonFolio:      survey.PersonFolio,
		MaritalStatus:    survey.MaritalStatus,
		EducationLevel:   survey.EducationLevel,
		Occupation:       survey.Occupation,
		ChronicIllness:   survey.ChronicIllness,
		MigratoryStatus:  survey.MigratoryStatus,
		OriginExitReason: survey.OriginExitReason,
		FinalDestination: survey.FinalDestination,
		SupportNetworks:  survey.SupportNetworks,
		Notes:            survey.Notes,
	}
}

// SurveyRequestToEntity builds the survey stored for personFolio from an upsert request
func SurveyRequestToEntity(personFolio string, req *dto.UpsertSurveyRequest) entity.Survey {
	return entity.Survey{
		PersonFolio:      personFolio,
		MaritalStatus:    req.MaritalStatus,
		EducationLevel:   req.EducationLevel,
		Occupation:       req.Occupation,
		ChronicIllness:   req.ChronicIllness,
		MigratoryStatus:  req.MigratoryStatus,
		OriginExitReason: req.OriginExitReason,
		FinalDestination: req.FinalDestination,
		SupportNetworks:  req.SupportNetworks,
		Notes:            req.Notes,
	}
}
