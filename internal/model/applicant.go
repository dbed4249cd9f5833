package model

import "time"

// Applicant is the fully resolved view of an applicants row: the person
// fields are flattened in and the household members are loaded up front so
// that eligibility checks never have to reach back into the store.
type Applicant struct {
	ID               int64             `json:"id"`
	PersonID         int64             `json:"-"`
	Name             string            `json:"name"`
	ICNumber         string            `json:"ic_number"`
	DateOfBirth      string            `json:"date_of_birth"`
	Sex              Sex               `json:"sex"`
	EmploymentStatus EmploymentStatus  `json:"employment_status"`
	MaritalStatus    MaritalStatus     `json:"marital_status"`
	HouseholdID      int64             `json:"household_id"`
	HouseholdMembers []HouseholdMember `json:"household_members"`
	CreatedAt        time.Time         `json:"created_at"`
}
