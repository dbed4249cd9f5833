package model

import "time"

type Household struct {
	ID        int64     `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// HouseholdMember is a household_members row joined with its person record.
type HouseholdMember struct {
	ID                  int64  `json:"id"`
	HouseholdID         int64  `json:"household_id"`
	PersonID            int64  `json:"person_id"`
	Name                string `json:"name"`
	ICNumber            string `json:"ic_number"`
	RelationToApplicant string `json:"relation_to_applicant"`
}
