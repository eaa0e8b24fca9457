package entity

// Movement period layouts
const (
	MovementDayLayout   = "2006-01-02"
	MovementMonthLayout = "2006-01"
)

// MovementRow counts admissions (Altas) and discharges (Bajas) for one period key
type MovementRow struct {
	Period     string `json:"period"`
	Admissions int    `json:"admissions"`
	Discharges int    `json:"discharges"`
}

// PopulationFilter selects which people a statistic is computed over
type PopulationFilter string

const (
	PopulationActive     PopulationFilter = "active"
	PopulationDischarged PopulationFilter = "discharged"
	PopulationAll        PopulationFilter = "all"
)

// Matches checks if p belongs to the filtered population
func (f PopulationFilter) Matches(p *Person) bool {
	switch f {
	case PopulationActive:
		return p.IsActive()
	case PopulationDischarged:
		return !p.IsActive()
	default:
		return true
	}
}
