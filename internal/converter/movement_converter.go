package converter

import (
	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/domain/entity"
)

// MovementRowsToResponses converts aggregated movement rows to response DTOs
func MovementRowsToResponses(rows []entity.MovementRow) []dto.MovementRowResponse {
	responses := make([]dto.MovementRowResponse, len(rows))
	for i, row := range rows {
		responses[i] = dto.MovementRowResponse{
			Period:     row.Period,
			Admissions: row.Admissions,
			Discharges: row.Discharges,
		}
	}
	return responses
}
