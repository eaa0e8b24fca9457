package handler

import (
	"errors"
	"net/http"

	"shelter-registry/internal/service"
	"shelter-registry/internal/usecase"
	"shelter-registry/pkg/response"
)

// writeError maps usecase and service errors onto HTTP responses
func writeError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		response.ValidationError(w, validationErr.Violations)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrPersonNotFound):
		response.NotFound(w, "Person not found")
	case errors.Is(err, usecase.ErrSurveyPersonNotFound):
		response.NotFound(w, "No person registered with that folio")
	case errors.Is(err, usecase.ErrSurveyNotFound):
		response.NotFound(w, "Survey not found")
	case errors.Is(err, service.ErrSponsorNotFound):
		response.NotFound(w, "Sponsor not found")
	case errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrAlphabetExhausted),
		errors.Is(err, usecase.ErrAlreadyDischarged),
		errors.Is(err, usecase.ErrRulesRequireAdult):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrNotifierNotConfigured):
		response.Error(w, http.StatusServiceUnavailable, "Mail delivery is not configured", nil)
	case errors.Is(err, usecase.ErrNotificationFailed):
		response.BadGateway(w, err.Error())
	case errors.Is(err, usecase.ErrPersistence):
		response.InternalServerError(w, "Failed to access the register")
	default:
		response.InternalServerError(w, fallback)
	}
}
