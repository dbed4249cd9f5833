package model

import "time"

// Scheme describes a financial assistance offering. The criteria fields are
// optional: a nil criterion places no constraint on applicants.
type Scheme struct {
	ID                       int64             `json:"id"`
	Name                     string            `json:"name"`
	Description              string            `json:"description"`
	MaritalStatusRequired    *MaritalStatus    `json:"marital_status_required"`
	EmploymentStatusRequired *EmploymentStatus `json:"employment_status_required"`
	RequiredRelationships    []string          `json:"required_relationships"`
	HouseholdSize            *int64            `json:"household_size"`
	Benefits                 []Benefit         `json:"benefits"`
	CreatedAt                time.Time         `json:"created_at"`
}

type Benefit struct {
	ID          int64   `json:"id"`
	SchemeID    int64   `json:"scheme_id"`
	Description string  `json:"description"`
	Amount      *int64  `json:"amount"`
	Condition   *string `json:"condition"`
}
