package model

type Person struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	ICNumber         string           `json:"ic_number"`
	DateOfBirth      string           `json:"date_of_birth"`
	Sex              Sex              `json:"sex"`
	EmploymentStatus EmploymentStatus `json:"employment_status"`
	MaritalStatus    MaritalStatus    `json:"marital_status"`
}
