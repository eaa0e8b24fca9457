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

type PersonHandler struct {
	personUsecase usecase.PersonRegistryUsecase
	reportUsecase usecase.MovementReportUsecase
	validator     *validator.CustomValidator
}

func NewPersonHandler(
	personUsecase usecase.PersonRegistryUsecase,
	reportUsecase usecase.MovementReportUsecase,
	validator *validator.CustomValidator,
) *PersonHandler {
	return &PersonHandler{
		personUsecase: personUsecase,
		reportUsecase: reportUsecase,
		validator:     validator,
	}
}

// Admit handles the admission of a sponsor or dependent
// @Summary Admit a person
// @Description Register a new person and assign a folio
// @Tags Persons
// @Accept json
// @Produce json
// @Param X-Staff-Role header string true "reception or admin"
// @Param request body dto.AdmitPersonRequest true "Admit Person Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /persons [post]
func (h *PersonHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req dto.AdmitPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	person, err := h.personUsecase.Admit(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to admit person")
		return
	}

	response.Success(w, http.StatusCreated, "Person admitted successfully", person)
}

// List handles listing persons
// @Summary List persons
// @Description List active persons, or every person with status=all
// @Tags Persons
// @Produce json
// @Param status query string false "active or all" default(active)
// @Success 200 {object} response.Response
// @Router /persons [get]
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		persons []dto.PersonResponse
		err     error
	)

	switch r.URL.Query().Get("status") {
	case "", "active":
		persons, err = h.personUsecase.ListActive(r.Context())
	case "all":
		persons, err = h.personUsecase.ListAll(r.Context())
	default:
		response.BadRequest(w, "status must be active or all")
		return
	}
	if err != nil {
		writeError(w, err, "Failed to get persons")
		return
	}

	response.Success(w, http.StatusOK, "Persons retrieved successfully", dto.PersonListResponse{
		Persons: persons,
		Total:   len(persons),
	})
}

// Get handles getting one person by folio
// @Summary Get a person
// @Tags Persons
// @Produce json
// @Param folio path string true "Folio"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /persons/{folio} [get]
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	person, err := h.personUsecase.Get(r.Context(), mux.Vars(r)["folio"])
	if err != nil {
		writeError(w, err, "Failed to get person")
		return
	}

	response.Success(w, http.StatusOK, "Person retrieved successfully", person)
}

// Update handles editing the personal fields of a person
// @Summary Update a person
// @Description Change editable fields; folio, kind, sponsor and discharge data are ignored
// @Tags Persons
// @Accept json
// @Produce json
// @Param folio path string true "Folio"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /persons/{folio} [patch]
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&fields); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	person, err := h.personUsecase.UpdateFields(r.Context(), mux.Vars(r)["folio"], fields)
	if err != nil {
		writeError(w, err, "Failed to update person")
		return
	}

	response.Success(w, http.StatusOK, "Person updated successfully", person)
}

// Discharge handles the discharge of a person, cascading from a sponsor to its active dependents
// @Summary Discharge a person
// @Tags Persons
// @Accept json
// @Produce json
// @Param folio path string true "Folio"
// @Param request body dto.DischargePersonRequest true "Discharge Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /persons/{folio}/discharge [post]
func (h *PersonHandler) Discharge(w http.ResponseWriter, r *http.Request) {
	var req dto.DischargePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	folios, err := h.personUsecase.Discharge(r.Context(), mux.Vars(r)["folio"], req.Reason)
	if err != nil {
		writeError(w, err, "Failed to discharge person")
		return
	}

	response.Success(w, http.StatusOK, "Person discharged successfully", dto.DischargePersonResponse{Folios: folios})
}

// RulesAgreement handles downloading the house rules for an adult resident to sign
// @Summary Rules agreement PDF
// @Tags Persons
// @Produce application/pdf
// @Param folio path string true "Folio"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /persons/{folio}/rules.pdf [get]
func (h *PersonHandler) RulesAgreement(w http.ResponseWriter, r *http.Request) {
	personFolio := mux.Vars(r)["folio"]

	pdf, err := h.reportUsecase.RulesAgreementPDF(r.Context(), personFolio)
	if err != nil {
		writeError(w, err, "Failed to generate rules agreement")
		return
	}

	response.File(w, "application/pdf", "Reglamento_"+personFolio+".pdf", pdf)
}
