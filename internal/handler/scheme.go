package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"fasms/internal/eligibility"
	"fasms/internal/model"
	"fasms/internal/store"
)

type SchemeHandler struct {
	schemes    *store.SchemeStore
	applicants *store.ApplicantStore
	logger     *slog.Logger
}

func NewSchemeHandler(schemes *store.SchemeStore, applicants *store.ApplicantStore, logger *slog.Logger) *SchemeHandler {
	return &SchemeHandler{schemes: schemes, applicants: applicants, logger: logger}
}

type benefitRequest struct {
	Description string  `json:"description"`
	Amount      *int64  `json:"amount"`
	Condition   *string `json:"condition"`
}

type schemeCreateRequest struct {
	Name                     string                  `json:"name"`
	Description              string                  `json:"description"`
	MaritalStatusRequired    *model.MaritalStatus    `json:"marital_status_required"`
	EmploymentStatusRequired *model.EmploymentStatus `json:"employment_status_required"`
	RequiredRelationships    []string                `json:"required_relationships"`
	HouseholdSize            *int64                  `json:"household_size"`
	Benefits                 []benefitRequest        `json:"benefits"`
}

func (req *schemeCreateRequest) validate() []FieldError {
	var errs []FieldError
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if req.MaritalStatusRequired != nil && !req.MaritalStatusRequired.Valid() {
		errs = append(errs, FieldError{Field: "marital_status_required", Message: "marital_status_required must be one of Single, Married, Widowed, Divorced"})
	}
	if req.EmploymentStatusRequired != nil && !req.EmploymentStatusRequired.Valid() {
		errs = append(errs, FieldError{Field: "employment_status_required", Message: "employment_status_required must be one of Employed, Unemployed"})
	}
	if req.HouseholdSize != nil && *req.HouseholdSize < 1 {
		errs = append(errs, FieldError{Field: "household_size", Message: "household_size must be at least 1"})
	}
	for i, rel := range req.RequiredRelationships {
		if strings.TrimSpace(rel) == "" {
			errs = append(errs, FieldError{Field: fmt.Sprintf("required_relationships[%d]", i), Message: "relationship must not be empty"})
		}
	}
	for i, b := range req.Benefits {
		if strings.TrimSpace(b.Description) == "" {
			errs = append(errs, FieldError{Field: fmt.Sprintf("benefits[%d].description", i), Message: "description is required"})
		}
	}
	return errs
}

func (h *SchemeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req schemeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	benefits := make([]store.BenefitInput, 0, len(req.Benefits))
	for _, b := range req.Benefits {
		benefits = append(benefits, store.BenefitInput{
			Description: strings.TrimSpace(b.Description),
			Amount:      b.Amount,
			Condition:   b.Condition,
		})
	}

	scheme, err := h.schemes.Create(store.SchemeInput{
		Name:                     req.Name,
		Description:              req.Description,
		MaritalStatusRequired:    req.MaritalStatusRequired,
		EmploymentStatusRequired: req.EmploymentStatusRequired,
		RequiredRelationships:    req.RequiredRelationships,
		HouseholdSize:            req.HouseholdSize,
		Benefits:                 benefits,
	})
	if err != nil {
		h.logger.Error("create scheme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create scheme")
		return
	}

	writeJSON(w, http.StatusCreated, scheme)
}

func (h *SchemeHandler) List(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.schemes.List()
	if err != nil {
		h.logger.Error("list schemes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list schemes")
		return
	}
	if schemes == nil {
		schemes = []model.Scheme{}
	}
	writeJSON(w, http.StatusOK, schemes)
}

func (h *SchemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	scheme, err := h.schemes.GetByID(id)
	if err != nil {
		h.logger.Error("get scheme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get scheme")
		return
	}
	if scheme == nil {
		writeError(w, http.StatusNotFound, "scheme not found")
		return
	}
	writeJSON(w, http.StatusOK, scheme)
}

func (h *SchemeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	scheme, err := h.schemes.GetByID(id)
	if err != nil {
		h.logger.Error("get scheme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get scheme")
		return
	}
	if scheme == nil {
		writeError(w, http.StatusNotFound, "scheme not found")
		return
	}

	inUse, err := h.schemes.InUse(id)
	if err != nil {
		h.logger.Error("check scheme applications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete scheme")
		return
	}
	if inUse {
		writeError(w, http.StatusConflict, "scheme has applications and cannot be deleted")
		return
	}

	if err := h.schemes.Delete(id); err != nil {
		h.logger.Error("delete scheme", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete scheme")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Eligible lists the schemes the applicant named by ?applicant_id= qualifies
// for, using the same evaluator that gates application submission.
func (h *SchemeHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	applicantID, err := strconv.ParseInt(r.URL.Query().Get("applicant_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "applicant_id query parameter is required")
		return
	}

	applicant, err := h.applicants.GetByID(applicantID)
	if err != nil {
		h.logger.Error("get applicant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get applicant")
		return
	}
	if applicant == nil {
		writeError(w, http.StatusNotFound, "applicant not found")
		return
	}

	schemes, err := h.schemes.List()
	if err != nil {
		h.logger.Error("list schemes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list schemes")
		return
	}

	writeJSON(w, http.StatusOK, eligibility.EligibleSchemes(schemes, applicant))
}
