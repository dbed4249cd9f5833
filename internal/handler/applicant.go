package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fasms/internal/model"
	"fasms/internal/store"
)

const dateFormat = "2006-01-02"

type ApplicantHandler struct {
	applicants *store.ApplicantStore
	logger     *slog.Logger
}

func NewApplicantHandler(applicants *store.ApplicantStore, logger *slog.Logger) *ApplicantHandler {
	return &ApplicantHandler{applicants: applicants, logger: logger}
}

type personRequest struct {
	Name             string                 `json:"name"`
	ICNumber         string                 `json:"ic_number"`
	DateOfBirth      string                 `json:"date_of_birth"`
	Sex              model.Sex              `json:"sex"`
	EmploymentStatus model.EmploymentStatus `json:"employment_status"`
	MaritalStatus    model.MaritalStatus    `json:"marital_status"`
}

func (p *personRequest) validate(prefix string) []FieldError {
	var errs []FieldError
	p.Name = strings.TrimSpace(p.Name)
	p.ICNumber = strings.TrimSpace(p.ICNumber)
	if p.Name == "" {
		errs = append(errs, FieldError{Field: prefix + "name", Message: "name is required"})
	}
	if p.ICNumber == "" {
		errs = append(errs, FieldError{Field: prefix + "ic_number", Message: "ic_number is required"})
	}
	if _, err := time.Parse(dateFormat, p.DateOfBirth); err != nil {
		errs = append(errs, FieldError{Field: prefix + "date_of_birth", Message: "date_of_birth must be YYYY-MM-DD"})
	}
	if !p.Sex.Valid() {
		errs = append(errs, FieldError{Field: prefix + "sex", Message: "sex must be one of Male, Female, Other"})
	}
	if !p.EmploymentStatus.Valid() {
		errs = append(errs, FieldError{Field: prefix + "employment_status", Message: "employment_status must be one of Employed, Unemployed"})
	}
	if !p.MaritalStatus.Valid() {
		errs = append(errs, FieldError{Field: prefix + "marital_status", Message: "marital_status must be one of Single, Married, Widowed, Divorced"})
	}
	return errs
}

func (p *personRequest) input() store.PersonInput {
	return store.PersonInput{
		Name:             p.Name,
		ICNumber:         p.ICNumber,
		DateOfBirth:      p.DateOfBirth,
		Sex:              p.Sex,
		EmploymentStatus: p.EmploymentStatus,
		MaritalStatus:    p.MaritalStatus,
	}
}

type memberRequest struct {
	personRequest
	RelationToApplicant string `json:"relation_to_applicant"`
}

type applicantCreateRequest struct {
	personRequest
	Address          string          `json:"address"`
	HouseholdMembers []memberRequest `json:"household_members"`
}

func (h *ApplicantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req applicantCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	errs := req.validate("")
	members := make([]store.MemberInput, 0, len(req.HouseholdMembers))
	for i := range req.HouseholdMembers {
		m := &req.HouseholdMembers[i]
		prefix := fmt.Sprintf("household_members[%d].", i)
		errs = append(errs, m.validate(prefix)...)
		m.RelationToApplicant = strings.TrimSpace(m.RelationToApplicant)
		if m.RelationToApplicant == "" {
			errs = append(errs, FieldError{Field: prefix + "relation_to_applicant", Message: "relation_to_applicant is required"})
		}
		members = append(members, store.MemberInput{
			PersonInput:         m.input(),
			RelationToApplicant: m.RelationToApplicant,
		})
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	applicant, err := h.applicants.Register(req.input(), strings.TrimSpace(req.Address), members)
	if err != nil {
		h.logger.Error("register applicant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register applicant")
		return
	}

	writeJSON(w, http.StatusCreated, applicant)
}

func (h *ApplicantHandler) List(w http.ResponseWriter, r *http.Request) {
	applicants, err := h.applicants.List()
	if err != nil {
		h.logger.Error("list applicants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list applicants")
		return
	}
	if applicants == nil {
		applicants = []model.Applicant{}
	}
	writeJSON(w, http.StatusOK, applicants)
}

func (h *ApplicantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	applicant, err := h.applicants.GetByID(id)
	if err != nil {
		h.logger.Error("get applicant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get applicant")
		return
	}
	if applicant == nil {
		writeError(w, http.StatusNotFound, "applicant not found")
		return
	}
	writeJSON(w, http.StatusOK, applicant)
}

type applicantUpdateRequest struct {
	Name             *string                 `json:"name"`
	ICNumber         *string                 `json:"ic_number"`
	DateOfBirth      *string                 `json:"date_of_birth"`
	Sex              *model.Sex              `json:"sex"`
	EmploymentStatus *model.EmploymentStatus `json:"employment_status"`
	MaritalStatus    *model.MaritalStatus    `json:"marital_status"`
}

func (req *applicantUpdateRequest) validate() []FieldError {
	var errs []FieldError
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name must not be empty"})
	}
	if req.ICNumber != nil && strings.TrimSpace(*req.ICNumber) == "" {
		errs = append(errs, FieldError{Field: "ic_number", Message: "ic_number must not be empty"})
	}
	if req.DateOfBirth != nil {
		if _, err := time.Parse(dateFormat, *req.DateOfBirth); err != nil {
			errs = append(errs, FieldError{Field: "date_of_birth", Message: "date_of_birth must be YYYY-MM-DD"})
		}
	}
	if req.Sex != nil && !req.Sex.Valid() {
		errs = append(errs, FieldError{Field: "sex", Message: "sex must be one of Male, Female, Other"})
	}
	if req.EmploymentStatus != nil && !req.EmploymentStatus.Valid() {
		errs = append(errs, FieldError{Field: "employment_status", Message: "employment_status must be one of Employed, Unemployed"})
	}
	if req.MaritalStatus != nil && !req.MaritalStatus.Valid() {
		errs = append(errs, FieldError{Field: "marital_status", Message: "marital_status must be one of Single, Married, Widowed, Divorced"})
	}
	return errs
}

func (h *ApplicantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req applicantUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	applicant, err := h.applicants.UpdatePerson(id, store.PersonUpdate{
		Name:             req.Name,
		ICNumber:         req.ICNumber,
		DateOfBirth:      req.DateOfBirth,
		Sex:              req.Sex,
		EmploymentStatus: req.EmploymentStatus,
		MaritalStatus:    req.MaritalStatus,
	})
	if err != nil {
		h.logger.Error("update applicant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update applicant")
		return
	}
	if applicant == nil {
		writeError(w, http.StatusNotFound, "applicant not found")
		return
	}
	writeJSON(w, http.StatusOK, applicant)
}

func (h *ApplicantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	applicant, err := h.applicants.GetByID(id)
	if err != nil {
		h.logger.Error("get applicant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get applicant")
		return
	}
	if applicant == nil {
		writeError(w, http.StatusNotFound, "applicant not found")
		return
	}

	if err := h.applicants.Delete(id); err != nil {
		h.logger.Error("delete applicant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete applicant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
