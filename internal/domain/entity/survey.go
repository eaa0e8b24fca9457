package entity

// Survey represents the social-work interview held with a person.
// At most one survey exists per person folio.
type Survey struct {
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

// SurveyNotApplicable fills free-text survey answers left empty
const SurveyNotApplicable = "N/A"

// Options offered to social workers for the enumerated survey answers
var (
	MaritalStatuses = []string{
		"Soltero/a",
		"Casado/a",
		"Unión Libre",
		"Divorciado/a",
		"Viudo/a",
	}

	EducationLevels = []string{
		"Ninguna",
		"Primaria",
		"Secundaria",
		"Preparatoria/Bachillerato",
		"Universidad",
		"Posgrado",
	}

	MigratoryStatuses = []string{
		"Irregular",
		"Solicitante",
		"TURH",
		"En Tránsito",
		"Retorno voluntario",
		"Refugiado",
	}
)

// IsOption reports whether value is empty or one of options
func IsOption(value string, options []string) bool {
	if value == "" {
		return true
	}
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
