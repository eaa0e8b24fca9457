package dto

// Request DTOs

type EmailReportRequest struct {
	// Comma separated list of addresses
	Recipients string `json:"recipients" validate:"required"`
}

// Response DTOs

type MovementRowResponse struct {
	Period     string `json:"period"`
	Admissions int    `json:"admissions"`
	Discharges int    `json:"discharges"`
}

type MovementReportResponse struct {
	Daily   []MovementRowResponse `json:"daily"`
	Monthly []MovementRowResponse `json:"monthly"`
}

type EmailReportResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

type StatisticsResponse struct {
	Filter          string         `json:"filter"`
	Total           int            `json:"total"`
	ByNationality   map[string]int `json:"by_nationality"`
	ByMaritalStatus map[string]int `json:"by_marital_status"`
}
