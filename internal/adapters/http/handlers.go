package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lendkite/loan-application-service/internal/application"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
)

func (h *Handler) submitApplication(w http.ResponseWriter, r *http.Request) {
	var req application.SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	app, err := h.service.SubmitApplication(r.Context(), req)
	if err != nil {
		var validation *loan.ValidationError
		if errors.As(err, &validation) {
			writeFieldError(w, http.StatusBadRequest, "validation_error", validation.Message, validation.Field)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusAccepted, application.ToApplicationResponse(app))
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	applicantID := chi.URLParam(r, "applicantId")

	app, err := h.service.GetApplicationStatus(r.Context(), applicantID)
	if err != nil {
		if errors.Is(err, loan.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found",
				fmt.Sprintf("Application for '%s' not found", applicantID))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, application.ToApplicationResponse(app))
}
