// Package eligibility decides whether an applicant qualifies for a scheme.
// Evaluation is pure: the applicant arrives with person fields and household
// members already resolved, and nothing here touches the store.
package eligibility

import (
	"fmt"

	"fasms/internal/model"
)

type Criterion string

const (
	CriterionMaritalStatus    Criterion = "marital_status"
	CriterionEmploymentStatus Criterion = "employment_status"
	CriterionHouseholdSize    Criterion = "household_size"
	CriterionRelationship     Criterion = "required_relationship"
)

// Violation names one unmet scheme criterion.
type Violation struct {
	Criterion Criterion `json:"criterion"`
	Message   string    `json:"message"`
}

// Evaluate checks the applicant against every criterion of the scheme and
// returns the unmet ones in rule order: marital status, employment status,
// household size, then each missing relationship. An empty result means
// eligible. Unset criteria are vacuously satisfied.
//
// The household-size rule counts the applicant as an occupant: a household
// with N member rows satisfies a required size of N+1. The same semantic is
// used for bulk listing and for submission gating.
func Evaluate(scheme *model.Scheme, applicant *model.Applicant) []Violation {
	var unmet []Violation

	if scheme.MaritalStatusRequired != nil && *scheme.MaritalStatusRequired != applicant.MaritalStatus {
		unmet = append(unmet, Violation{
			Criterion: CriterionMaritalStatus,
			Message:   "Applicant does not meet the marital status requirement for this scheme",
		})
	}

	if scheme.EmploymentStatusRequired != nil && *scheme.EmploymentStatusRequired != applicant.EmploymentStatus {
		unmet = append(unmet, Violation{
			Criterion: CriterionEmploymentStatus,
			Message:   "Applicant does not meet the employment status requirement for this scheme",
		})
	}

	if scheme.HouseholdSize != nil {
		occupants := int64(len(applicant.HouseholdMembers)) + 1
		if *scheme.HouseholdSize > occupants {
			unmet = append(unmet, Violation{
				Criterion: CriterionHouseholdSize,
				Message:   "Applicant's household size does not meet the requirement for this scheme",
			})
		}
	}

	if len(scheme.RequiredRelationships) > 0 {
		present := make(map[string]bool, len(applicant.HouseholdMembers))
		for _, m := range applicant.HouseholdMembers {
			present[m.RelationToApplicant] = true
		}
		for _, rel := range scheme.RequiredRelationships {
			if !present[rel] {
				unmet = append(unmet, Violation{
					Criterion: CriterionRelationship,
					Message:   fmt.Sprintf("Applicant does not have the required relationship: %s", rel),
				})
			}
		}
	}

	return unmet
}

// Eligible reports whether the applicant meets all of the scheme's criteria.
func Eligible(scheme *model.Scheme, applicant *model.Applicant) bool {
	return len(Evaluate(scheme, applicant)) == 0
}

// EligibleSchemes filters schemes down to those the applicant qualifies for.
func EligibleSchemes(schemes []model.Scheme, applicant *model.Applicant) []model.Scheme {
	eligible := []model.Scheme{}
	for _, sc := range schemes {
		if Eligible(&sc, applicant) {
			eligible = append(eligible, sc)
		}
	}
	return eligible
}
