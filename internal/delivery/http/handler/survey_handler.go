package handler

import (
	"encoding/json"
	"net/http"

	"shelter-registry/internal/delivery/dto"
	"shelter-registry/internal/usecase"
	"shelter-registry/pkg/response"
	"shelter-registry/pkg/validator"

	"github.com/gorilla/mux"
)

type SurveyHandler struct {
	surveyUsecase usecase.SurveyUsecase
	validator     *validator.CustomValidator
}

func NewSurveyHandler(surveyUsecase usecase.SurveyUsecase, validator *validator.CustomValidator) *SurveyHandler {
	return &SurveyHandler{
		surveyUsecase: surveyUsecase,
		validator:     validator,
	}
}

// Upsert handles creating or replacing the social-work survey of a person
func (h *SurveyHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	survey, err := h.surveyUsecase.Upsert(r.Context(), mux.Vars(r)["folio"], &req)
	if err != nil {
		writeError(w, err, "Failed to save survey")
		return
	}

	response.Success(w, http.StatusOK, "Survey saved successfully", survey)
}

func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveyUsecase.Get(r.Context(), mux.Vars(r)["folio"])
	if err != nil {
		writeError(w, err, "Failed to get survey")
		return
	}

	response.Success(w, http.StatusOK, "Survey retrieved successfully", survey)
}
