package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/delivery/http/middleware"
	"clinical-registry/internal/usecase"
	"clinical-registry/pkg/response"
	"clinical-registry/pkg/validator"

	"github.com/gorilla/mux"
)

type PatientRecordHandler struct {
	patientRecordUsecase usecase.PatientRecordUsecase
	validator            *validator.CustomValidator
}

func NewPatientRecordHandler(patientRecordUsecase usecase.PatientRecordUsecase, validator *validator.CustomValidator) *PatientRecordHandler {
	return &PatientRecordHandler{
		patientRecordUsecase: patientRecordUsecase,
		validator:            validator,
	}
}

// List handles listing patient records
// @Summary List patient records
// @Description Filtered, paginated list ordered by newest first
// @Tags Patients
// @Produce json
// @Param risk query string false "Risk label (case-insensitive exact match)"
// @Param name query string false "Name substring (case-insensitive)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page (1-100)" default(10)
// @Success 200 {object} response.Response
// @Router /patients [get]
func (h *PatientRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := &dto.PatientRecordListQuery{
		Risk:     q.Get("risk"),
		Name:     q.Get("name"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}

	result, err := h.patientRecordUsecase.List(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to list patient records")
		return
	}

	meta := &response.Meta{
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
		Pages:    result.Pages,
	}

	response.SuccessWithMeta(w, http.StatusOK, "Patient records retrieved successfully", result.Items, meta)
}

// Get handles getting a patient record by ID
// @Summary Get patient record by ID
// @Tags Patients
// @Produce json
// @Param id path int true "Patient record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [get]
func (h *PatientRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	record, err := h.patientRecordUsecase.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPatientRecordNotFound) {
			response.NotFound(w, "Patient record not found")
			return
		}
		response.InternalServerError(w, "Failed to get patient record")
		return
	}

	response.Success(w, http.StatusOK, "Patient record retrieved successfully", record)
}

// Create handles patient record creation
// @Summary Create a patient record
// @Description Stores a submission and derives risk, BMI and hypertension stage
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePatientRecordRequest true "Create Patient Record Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /patients [post]
func (h *PatientRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.patientRecordUsecase.Create(r.Context(), middleware.GetActorFromContext(r.Context()), &req)
	if err != nil {
		var vErr *usecase.ValidationError
		if errors.As(err, &vErr) {
			response.ValidationError(w, map[string]string{vErr.Field: vErr.Error()})
			return
		}
		response.InternalServerError(w, "Failed to create patient record")
		return
	}

	response.Success(w, http.StatusCreated, "Patient record created successfully", record)
}

// Update handles partial patient record updates
// @Summary Update a patient record
// @Description Applies the supplied fields and recomputes derived values
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Patient record ID"
// @Param request body dto.UpdatePatientRecordRequest true "Update Patient Record Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /patients/{id} [put]
func (h *PatientRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdatePatientRecordRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.patientRecordUsecase.Update(r.Context(), middleware.GetActorFromContext(r.Context()), id, &req)
	if err != nil {
		var vErr *usecase.ValidationError
		switch {
		case errors.Is(err, usecase.ErrPatientRecordNotFound):
			response.NotFound(w, "Patient record not found")
		case errors.As(err, &vErr):
			response.ValidationError(w, map[string]string{vErr.Field: vErr.Error()})
		default:
			response.InternalServerError(w, "Failed to update patient record")
		}
		return
	}

	response.Success(w, http.StatusOK, "Patient record updated successfully", record)
}

// Delete handles patient record deletion. Deleting an unknown ID succeeds.
// @Summary Delete a patient record
// @Tags Patients
// @Security BearerAuth
// @Produce json
// @Param id path int true "Patient record ID"
// @Success 200 {object} response.Response
// @Router /patients/{id} [delete]
func (h *PatientRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.patientRecordUsecase.Delete(r.Context(), middleware.GetActorFromContext(r.Context()), id); err != nil {
		response.InternalServerError(w, "Failed to delete patient record")
		return
	}

	response.Success(w, http.StatusOK, "Patient record deleted successfully", nil)
}

// Stats handles aggregate statistics
// @Summary Patient record statistics
// @Tags Patients
// @Produce json
// @Success 200 {object} response.Response
// @Router /stats [get]
func (h *PatientRecordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.patientRecordUsecase.Stats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to compute statistics")
		return
	}

	response.Success(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

// pathID parses the {id} route variable, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ID", nil)
		return 0, false
	}
	return id, true
}

// queryInt returns nil when the parameter is absent or not an integer.
func queryInt(r *http.Request, key string) *int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return nil
	}
	return &v
}
