package model

// Enum values are persisted as their canonical string form.

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "Single"
	MaritalMarried  MaritalStatus = "Married"
	MaritalWidowed  MaritalStatus = "Widowed"
	MaritalDivorced MaritalStatus = "Divorced"
)

func (m MaritalStatus) Valid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalWidowed, MaritalDivorced:
		return true
	}
	return false
}

type EmploymentStatus string

const (
	Employed   EmploymentStatus = "Employed"
	Unemployed EmploymentStatus = "Unemployed"
)

func (e EmploymentStatus) Valid() bool {
	return e == Employed || e == Unemployed
}

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
	SexOther  Sex = "Other"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale || s == SexOther
}

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}
