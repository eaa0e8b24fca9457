package handler

import (
	"encoding/json"
	"net/http"

	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/usecase"
	"shelter-registry/pkg/response"
	"shelter-registry/pkg/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportUsecase usecase.MovementReportUsecase
	validator     *validator.CustomValidator
}

func NewReportHandler(reportUsecase usecase.MovementReportUsecase, validator *validator.CustomValidator) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

// Movements handles the daily and monthly Altas/Bajas tables
func (h *ReportHandler) Movements(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUsecase.Movements(r.Context())
	if err != nil {
		writeError(w, err, "Failed to aggregate movements")
		return
	}

	response.Success(w, http.StatusOK, "Movements retrieved successfully", report)
}

func (h *ReportHandler) MovementsPDF(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.reportUsecase.MovementReportPDF(r.Context())
	if err != nil {
		writeError(w, err, "Failed to generate movement report")
		return
	}

	response.File(w, "application/pdf", usecase.ReportAttachmentName, pdf)
}

// EmailMovements handles mailing the movement report PDF to a comma separated recipient list
func (h *ReportHandler) EmailMovements(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.reportUsecase.EmailMovementReport(r.Context(), req.Recipients)
	if err != nil {
		writeError(w, err, "Failed to send movement report")
		return
	}

	response.Success(w, http.StatusOK, result.Message, result)
}

func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportUsecase.Statistics(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, err, "Failed to compute statistics")
		return
	}

	response.Success(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

func (h *ReportHandler) RegisterXLSX(w http.ResponseWriter, r *http.Request) {
	workbook, err := h.reportUsecase.RegisterExportXLSX(r.Context())
	if err != nil {
		writeError(w, err, "Failed to export register")
		return
	}

	response.File(w, xlsxContentType, "Registro_Albergue.xlsx", workbook)
}
