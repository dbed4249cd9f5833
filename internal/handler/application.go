package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"fasms/internal/eligibility"
	"fasms/internal/model"
	"fasms/internal/store"
)

type ApplicationHandler struct {
	applications *store.ApplicationStore
	applicants   *store.ApplicantStore
	schemes      *store.SchemeStore
	logger       *slog.Logger
}

func NewApplicationHandler(
	applications *store.ApplicationStore,
	applicants *store.ApplicantStore,
	schemes *store.SchemeStore,
	logger *slog.Logger,
) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		applicants:   applicants,
		schemes:      schemes,
		logger:       logger,
	}
}

type applicationCreateRequest struct {
	ApplicantID int64 `json:"applicant_id"`
	SchemeID    int64 `json:"scheme_id"`
}

// Create submits an application. Preconditions are checked in order: the
// applicant exists, the scheme exists, no PENDING application for the pair
// exists, and the applicant meets every scheme criterion.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req applicationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	var errs []FieldError
	if req.ApplicantID <= 0 {
		errs = append(errs, FieldError{Field: "applicant_id", Message: "applicant_id is required"})
	}
	if req.SchemeID <= 0 {
		errs = append(errs, FieldError{Field: "scheme_id", Message: "scheme_id is required"})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	applicant, err := h.applicants.GetByID(req.ApplicantID)
	if err != nil {
		h.logger.Error("get applicant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit application")
		return
	}
	if applicant == nil {
		writeError(w, http.StatusNotFound, "applicant not found")
		return
	}

	scheme, err := h.schemes.GetByID(req.SchemeID)
	if err != nil {
		h.logger.Error("get scheme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit application")
		return
	}
	if scheme == nil {
		writeError(w, http.StatusNotFound, "scheme not found")
		return
	}

	pending, err := h.applications.HasPending(req.ApplicantID, req.SchemeID)
	if err != nil {
		h.logger.Error("check pending application", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit application")
		return
	}
	if pending {
		writeError(w, http.StatusConflict, "an application for this scheme by the same applicant already exists and is still pending")
		return
	}

	if unmet := eligibility.Evaluate(scheme, applicant); len(unmet) > 0 {
		writeError(w, http.StatusBadRequest, unmet[0].Message)
		return
	}

	application, err := h.applications.Create(req.ApplicantID, req.SchemeID)
	if err != nil {
		// A concurrent duplicate slips past HasPending; the partial unique
		// index catches it.
		if store.IsDuplicatePending(err) {
			writeError(w, http.StatusConflict, "an application for this scheme by the same applicant already exists and is still pending")
			return
		}
		h.logger.Error("create application", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit application")
		return
	}

	writeJSON(w, http.StatusCreated, application)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	applications, err := h.applications.List()
	if err != nil {
		h.logger.Error("list applications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	if applications == nil {
		applications = []model.Application{}
	}
	writeJSON(w, http.StatusOK, applications)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	application, err := h.applications.GetByID(id)
	if err != nil {
		h.logger.Error("get application", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get application")
		return
	}
	if application == nil {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	writeJSON(w, http.StatusOK, application)
}

// Search returns the applications belonging to ?applicant_id=. Zero results
// reads as 404, matching the not-found treatment of absent entities.
func (h *ApplicationHandler) Search(w http.ResponseWriter, r *http.Request) {
	applicantID, err := strconv.ParseInt(r.URL.Query().Get("applicant_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "applicant_id query parameter is required")
		return
	}

	applications, err := h.applications.ListByApplicant(applicantID)
	if err != nil {
		h.logger.Error("search applications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to search applications")
		return
	}
	if len(applications) == 0 {
		writeError(w, http.StatusNotFound, "no applications found for this applicant")
		return
	}
	writeJSON(w, http.StatusOK, applications)
}

type applicationUpdateRequest struct {
	Status model.ApplicationStatus `json:"status"`
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req applicationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !req.Status.Valid() {
		writeFieldErrors(w, []FieldError{{Field: "status", Message: "status must be one of PENDING, APPROVED, REJECTED"}})
		return
	}

	existing, err := h.applications.GetByID(id)
	if err != nil {
		h.logger.Error("get application", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update application")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}

	application, err := h.applications.UpdateStatus(id, req.Status)
	if err != nil {
		// Moving back to PENDING can collide with a newer pending application
		// for the same (applicant, scheme).
		if store.IsDuplicatePending(err) {
			writeError(w, http.StatusConflict, "an application for this scheme by the same applicant already exists and is still pending")
			return
		}
		h.logger.Error("update application", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update application")
		return
	}
	writeJSON(w, http.StatusOK, application)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	application, err := h.applications.GetByID(id)
	if err != nil {
		h.logger.Error("get application", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get application")
		return
	}
	if application == nil {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}

	if err := h.applications.Delete(id); err != nil {
		h.logger.Error("delete application", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete application")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
