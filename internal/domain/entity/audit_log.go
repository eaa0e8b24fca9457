package entity

// Register actions recorded in the audit trail
const (
	AuditActionPersonAdmit     = "person.admit"
	AuditActionPersonUpdate    = "person.update"
	AuditActionPersonDischarge = "person.discharge"
	AuditActionSurveyUpsert    = "survey.upsert"
)
