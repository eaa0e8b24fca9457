package dto

type UpsertSurveyRequest struct {
	MaritalStatus    string `json:"marital_status" validate:"omitempty,marital_status"`
	EducationLevel   string `json:"education_level" validate:"omitempty,education_level"`
	Occupation       string `json:"occupation" validate:"omitempty"`
	ChronicIllness   string `json:"chronic_illness" validate:"omitempty"`
	MigratoryStatus  string `json:"migratory_status" validate:"omitempty,migratory_status"`
	OriginExitReason string `json:"origin_exit_reason" validate:"omitempty"`
	FinalDestination string `json:"final_destination" validate:"omitempty"`
	SupportNetworks  string `json:"support_networks" validate:"omitempty"`
	Notes            string `json:"notes" validate:"omitempty"`
}

type SurveyResponse struct {
	PersonFolio      string `json:"person_folio"`
	MaritalStatus    string `json:"marital_status"`
	EducationLevel   string `json:"education_level"`
	Occupation       string `json:"occupation"`
	ChronicIllness   string `json:"chronic_illness"`
	MigratoryStatus  string `json:"migratory_status"`
	OriginExitReason string `json:"origin_exit_reason"`
	FinalDestination string `json:"final_destination"`
	SupportNetworks  string `json:"support_networks"`
	Notes            string `json:"notes"`
}
